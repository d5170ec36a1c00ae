package reactivity

import "sync/atomic"

// Stats is a point-in-time snapshot of a system's runtime counters.
type Stats struct {
	EffectsCreated uint64
	EffectRuns     uint64
	SchedulerCalls uint64
	Links          uint64
	Triggers       uint64
	Proxies        uint64
	Targets        int
}

type counters struct {
	effectsCreated atomic.Uint64
	effectRuns     atomic.Uint64
	schedulerCalls atomic.Uint64
	links          atomic.Uint64
	triggers       atomic.Uint64
	proxies        atomic.Uint64
}

// Stats may be called from any goroutine.
func (rs *ReactiveSystem) Stats() Stats {
	return Stats{
		EffectsCreated: rs.stats.effectsCreated.Load(),
		EffectRuns:     rs.stats.effectRuns.Load(),
		SchedulerCalls: rs.stats.schedulerCalls.Load(),
		Links:          rs.stats.links.Load(),
		Triggers:       rs.stats.triggers.Load(),
		Proxies:        rs.stats.proxies.Load(),
		Targets:        rs.targets.len(),
	}
}
