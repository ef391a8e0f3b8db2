package actor

import "github.com/milk9111/signpost/exchange"

// Broadcaster republishes local animation milestones on the world exchange.
type Broadcaster struct {
	world *exchange.Exchange
	name  string
}

func NewBroadcaster(world *exchange.Exchange, name string) *Broadcaster {
	return &Broadcaster{world: world, name: name}
}

func (b *Broadcaster) OnGetHitEnterSolo() {
	exchange.Invoke1(b.world, HitListener.OnPlayerGetHit, b.name)
}

func (b *Broadcaster) OnGetHitExitSolo() {}
