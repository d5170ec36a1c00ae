package reactivity

import "fmt"

// ReactiveEffect is a tracked execution. While Run executes fn every read of
// reactive state records the effect as a subscriber, and a later write to
// that state re-runs it, or calls its scheduler instead when one is set.
type ReactiveEffect struct {
	rs *ReactiveSystem
	id uint64

	fn        EffectFn
	scheduler func()

	// deps holds every Dep this effect is a member of, in the order they
	// were first read during the current run.
	deps   []*Dep
	parent *ReactiveEffect
	active bool
}

func NewReactiveEffect(rs *ReactiveSystem, fn EffectFn, scheduler func()) *ReactiveEffect {
	e := &ReactiveEffect{
		rs:        rs,
		id:        rs.stats.effectsCreated.Add(1),
		fn:        fn,
		scheduler: scheduler,
		active:    true,
	}
	rs.recordEffectScope(e)
	return e
}

// Run executes the effect body. An inactive effect still executes fn, but
// without touching the active slot or its dependencies.
func (e *ReactiveEffect) Run() (any, error) {
	e.rs.stats.effectRuns.Add(1)
	if !e.active {
		return e.fn()
	}

	prev := e.rs.activeEffect
	e.parent = prev
	e.rs.activeEffect = e
	defer func() {
		e.rs.activeEffect = prev
		e.parent = nil
	}()

	cleanupEffect(e)
	return e.fn()
}

// Stop deactivates the effect. Memberships it already holds are kept, so a
// trigger on one of them still calls Run, which then executes untracked.
func (e *ReactiveEffect) Stop() {
	if e.active {
		e.active = false
		e.rs.logger.Debug("effect stopped", "effect", e.id)
	}
}

func (e *ReactiveEffect) Active() bool {
	return e.active
}

func (e *ReactiveEffect) ID() uint64 {
	return e.id
}

// Deps returns the number of dependency sets the effect belongs to.
func (e *ReactiveEffect) Deps() int {
	return len(e.deps)
}

// cleanupEffect removes e from every Dep it joined during its last run and
// empties its own list, so the next run starts with no subscriptions.
func cleanupEffect(e *ReactiveEffect) {
	for _, dep := range e.deps {
		dep.remove(e)
	}
	clear(e.deps)
	e.deps = e.deps[:0]
}

type effectOptions struct {
	scheduler func()
	lazy      bool
}

type EffectOption func(*effectOptions)

// WithScheduler makes triggers call fn instead of re-running the effect.
func WithScheduler(fn func()) EffectOption {
	return func(o *effectOptions) {
		o.scheduler = fn
	}
}

// WithLazy skips the initial run; the caller runs the effect when ready.
func WithLazy() EffectOption {
	return func(o *effectOptions) {
		o.lazy = true
	}
}

// Effect registers fn as a tracked execution and runs it once. The returned
// effect is the runner: call Run to execute it again and Stop to deactivate.
func Effect(rs *ReactiveSystem, fn ErrFn, opts ...EffectOption) (*ReactiveEffect, error) {
	var o effectOptions
	for _, opt := range opts {
		opt(&o)
	}

	e := NewReactiveEffect(rs, func() (any, error) {
		return nil, fn()
	}, o.scheduler)
	if o.lazy {
		return e, nil
	}
	if _, err := e.Run(); err != nil {
		return e, fmt.Errorf("error while running the effect: %w", err)
	}
	return e, nil
}
