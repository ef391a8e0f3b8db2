package actor

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/signpost/anim"
	"github.com/milk9111/signpost/exchange"
	"github.com/milk9111/signpost/prefabs"
	"github.com/milk9111/signpost/script"
	"github.com/milk9111/signpost/transition"
)

// Node names the player's controller is expected to provide.
const (
	NodeIdle   = "idle"
	NodeAttack = "attack"
	NodeRoll   = "roll"
	NodeGetHit = "get_hit"
)

const traceLimit = 256

// Player is one character: a local exchange, an animator whose nodes publish
// their lifecycle on that exchange, and the components subscribed to it.
type Player struct {
	Name      string
	World     *World
	Local     *exchange.Exchange
	Animator  *anim.Animator
	Trace     *transition.Trace
	Script    *script.Lifecycle
	Observers map[string]*transition.Observer

	Control     *Control
	Locomotor   *Locomotor
	Mover       *Mover
	Attack      *Attack
	Roll        *Roll
	Broadcaster *Broadcaster

	layer   string
	enabled bool
	logger  *slog.Logger
}

// NewPlayer builds a disabled player. scriptSrc may be nil.
func NewPlayer(world *World, spec *prefabs.PlayerSpec, controller anim.ControllerSpec, scriptSrc []byte) (*Player, error) {
	if world == nil {
		world = NewWorld(nil, nil)
	}
	if spec == nil {
		return nil, fmt.Errorf("actor: nil player spec")
	}
	logger := world.Logger.With("actor", spec.Name)

	animator, err := anim.NewAnimator(controller, anim.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("actor: player %s: %w", spec.Name, err)
	}

	p := &Player{
		Name:  spec.Name,
		World: world,
		Local: exchange.New(
			exchange.WithName(spec.Name),
			exchange.WithLogger(logger),
			exchange.WithMetrics(world.Metrics),
		),
		Animator:  animator,
		Trace:     transition.NewTrace(traceLimit),
		Observers: make(map[string]*transition.Observer),
		layer:     controller.Layers[0].Name,
		logger:    logger,
	}

	if scriptSrc != nil {
		p.Script, err = script.NewLifecycle(spec.Script, scriptSrc, playerHost{p}, script.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("actor: player %s: %w", spec.Name, err)
		}
	}

	p.Control = NewControl(spec.AttackThreshold)
	p.Locomotor = NewLocomotor(spec.Body, spec.Gravity)
	p.Mover = NewMover(p.Control, p.Locomotor, spec.MoveSpeed)
	p.Attack = NewAttack(p.Control, p.Locomotor, animator, AttackParams{
		PushSpeed: spec.AttackPushSpeed,
		Brake:     spec.AttackBrake,
		Hitstop:   spec.AttackHitstop,
	}, logger, world.Metrics)
	p.Roll = NewRoll(p.Control, p.Locomotor, animator, RollParams{
		Cooldown: spec.RollCooldown,
		Speed:    spec.RollSpeed,
		Brake:    spec.RollBrake,
	}, world.Metrics)
	p.Broadcaster = NewBroadcaster(world.Exchange, spec.Name)

	for _, st := range controller.Layers[0].States {
		if err := p.attach(st.Name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Player) attach(state string) error {
	targets := transition.Lifecycles{p.Trace.For(state)}
	switch state {
	case NodeIdle:
		targets = append(targets, transition.NewRelay(p.Local, transition.Hooks[IdleAnim]{
			EnterSolo: IdleAnim.OnIdleEnterSolo,
			ExitSolo:  IdleAnim.OnIdleExitSolo,
		}))
	case NodeAttack:
		targets = append(targets, transition.NewRelay(p.Local, transition.Hooks[AttackAnim]{
			Enter:     AttackAnim.OnAttackEnter,
			EnterSolo: AttackAnim.OnAttackEnterSolo,
			ExitSolo:  AttackAnim.OnAttackExitSolo,
			Exit:      AttackAnim.OnAttackExit,
		}))
		targets = append(targets, transition.NewRelay(p.Local, transition.Hooks[AttackLifecycle]{
			Enter:          AttackLifecycle.OnAttackLifecycleEnter,
			UpdateEntering: AttackLifecycle.OnAttackLifecycleUpdateEntering,
			EnterSolo:      AttackLifecycle.OnAttackLifecycleEnterSolo,
			Update:         AttackLifecycle.OnAttackLifecycleUpdate,
			UpdateSolo:     AttackLifecycle.OnAttackLifecycleUpdateSolo,
			ExitSolo:       AttackLifecycle.OnAttackLifecycleExitSolo,
			UpdateExiting:  AttackLifecycle.OnAttackLifecycleUpdateExiting,
			Exit:           AttackLifecycle.OnAttackLifecycleExit,
		}))
	case NodeRoll:
		targets = append(targets, transition.NewRelay(p.Local, transition.Hooks[RollAnim]{
			Enter:     RollAnim.OnRollEnter,
			EnterSolo: RollAnim.OnRollEnterSolo,
			ExitSolo:  RollAnim.OnRollExitSolo,
			Exit:      RollAnim.OnRollExit,
		}))
	case NodeGetHit:
		targets = append(targets, transition.NewRelay(p.Local, transition.Hooks[GetHitAnim]{
			EnterSolo: GetHitAnim.OnGetHitEnterSolo,
			ExitSolo:  GetHitAnim.OnGetHitExitSolo,
		}))
	}

	o := transition.NewObserver(targets,
		transition.WithLogger(p.logger),
		transition.WithMetrics(p.World.Metrics),
	)
	p.Observers[state] = o
	return p.Animator.Attach(p.layer, state, o)
}

// Enable subscribes the components. Calling it twice is harmless.
func (p *Player) Enable() error {
	if p.enabled {
		return nil
	}
	if err := p.World.Exchange.Register(p.Control); err != nil {
		return fmt.Errorf("actor: enable %s: %w", p.Name, err)
	}
	for _, c := range p.components() {
		if err := p.Local.Register(c); err != nil {
			return fmt.Errorf("actor: enable %s: %w", p.Name, err)
		}
	}
	p.enabled = true
	p.logger.Info("actor: enabled", "subscribers", p.Local.Len())
	return nil
}

// Disable unsubscribes the components. Animation keeps running but nothing
// reacts to it.
func (p *Player) Disable() {
	if !p.enabled {
		return
	}
	p.World.Exchange.Deregister(p.Control)
	for _, c := range p.components() {
		p.Local.Deregister(c)
	}
	p.enabled = false
	p.logger.Info("actor: disabled")
}

func (p *Player) Enabled() bool { return p.enabled }

func (p *Player) components() []any {
	cs := []any{p.Mover, p.Attack, p.Roll, p.Broadcaster}
	if p.Script != nil {
		cs = append(cs, attackScript{p.Script})
	}
	return cs
}

// FixedUpdate runs physics-rate work: steering and the physics step.
func (p *Player) FixedUpdate(dt float64) {
	p.Attack.FixedUpdate()
	p.Mover.FixedUpdate()
	p.Locomotor.Step(dt)
}

// Update runs frame-rate work and then advances the animator, which emits the
// lifecycle callbacks for this frame.
func (p *Player) Update(dt float64) {
	p.Roll.Update(dt)
	p.Attack.Update()
	p.Animator.Update(dt)
}

// Tick is FixedUpdate followed by Update.
func (p *Player) Tick(dt float64) {
	p.FixedUpdate(dt)
	p.Update(dt)
}

// Hit makes the player play its get-hit reaction.
func (p *Player) Hit() {
	p.Animator.SetTrigger("hit")
}

// State returns the current node and, while blending, the next one.
func (p *Player) State() (state, next string) {
	state, next, _ = p.Animator.Current(p.layer)
	return state, next
}

// Progress is the normalized progress of the current node.
func (p *Player) Progress() float64 {
	return p.Animator.Progress(p.layer)
}

// ReloadScript swaps the attack script source, keeping its state.
func (p *Player) ReloadScript(src []byte) error {
	if p.Script == nil {
		return fmt.Errorf("actor: player %s has no script", p.Name)
	}
	return p.Script.Reload(src)
}

// attackScript subscribes the script to the attack node, so it stops with the
// other components on Disable.
type attackScript struct{ lc *script.Lifecycle }

func (s attackScript) OnAttackLifecycleEnter()          { s.lc.OnEnter() }
func (s attackScript) OnAttackLifecycleUpdateEntering() { s.lc.OnUpdateEntering() }
func (s attackScript) OnAttackLifecycleEnterSolo()      { s.lc.OnEnterSolo() }
func (s attackScript) OnAttackLifecycleUpdate()         { s.lc.OnUpdate() }
func (s attackScript) OnAttackLifecycleUpdateSolo()     { s.lc.OnUpdateSolo() }
func (s attackScript) OnAttackLifecycleExitSolo()       { s.lc.OnExitSolo() }
func (s attackScript) OnAttackLifecycleUpdateExiting()  { s.lc.OnUpdateExiting() }
func (s attackScript) OnAttackLifecycleExit()           { s.lc.OnExit() }

type playerHost struct{ p *Player }

func (h playerHost) SetTrigger(name string) { h.p.Animator.SetTrigger(name) }

func (h playerHost) Emit(event string) {
	exchange.Invoke1(h.p.Local, ScriptEventListener.OnScriptEvent, event)
}
