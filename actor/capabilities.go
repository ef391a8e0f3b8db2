// Package actor assembles a player character out of small components that
// never reference each other's animation hooks directly. Animation nodes
// publish their solo lifecycle through capability interfaces on the player's
// local exchange; input and cross-entity notifications travel over the world
// exchange.
package actor

// Capabilities on the player's local exchange. Method names are unique per
// capability so a component opts into exactly the ones it implements.

type IdleAnim interface {
	OnIdleEnterSolo()
	OnIdleExitSolo()
}

type AttackAnim interface {
	OnAttackEnter()
	OnAttackEnterSolo()
	OnAttackExitSolo()
	OnAttackExit()
}

type RollAnim interface {
	OnRollEnter()
	OnRollEnterSolo()
	OnRollExitSolo()
	OnRollExit()
}

type GetHitAnim interface {
	OnGetHitEnterSolo()
	OnGetHitExitSolo()
}

// AttackLifecycle carries the full lifecycle of the attack node, for
// components such as the attack script that react to every phase.
type AttackLifecycle interface {
	OnAttackLifecycleEnter()
	OnAttackLifecycleUpdateEntering()
	OnAttackLifecycleEnterSolo()
	OnAttackLifecycleUpdate()
	OnAttackLifecycleUpdateSolo()
	OnAttackLifecycleExitSolo()
	OnAttackLifecycleUpdateExiting()
	OnAttackLifecycleExit()
}

// ScriptEventListener receives names emitted by the player's script.
type ScriptEventListener interface {
	OnScriptEvent(name string)
}

// Capabilities on the world exchange.

type InputListener interface {
	OnMove(x, y float64)
	OnAttackInput(x, y float64)
	OnRollInput(pressed bool)
}

type HitListener interface {
	OnPlayerGetHit(player string)
}

// Driver is the part of the animator components may poke.
type Driver interface {
	SetTrigger(name string)
	SetPause(seconds float64)
}
