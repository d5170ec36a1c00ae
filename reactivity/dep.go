package reactivity

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Dep is the set of effects subscribed to one (target, key) pair. Members
// are notified in the order they subscribed.
type Dep struct {
	members mapset.Set[*ReactiveEffect]
	order   []*ReactiveEffect
}

func NewDep() *Dep {
	return &Dep{
		members: mapset.NewThreadUnsafeSet[*ReactiveEffect](),
	}
}

func (d *Dep) Len() int {
	return d.members.Cardinality()
}

func (d *Dep) Has(e *ReactiveEffect) bool {
	return d.members.Contains(e)
}

func (d *Dep) add(e *ReactiveEffect) bool {
	if !d.members.Add(e) {
		return false
	}
	d.order = append(d.order, e)
	return true
}

func (d *Dep) remove(e *ReactiveEffect) {
	if !d.members.Contains(e) {
		return
	}
	d.members.Remove(e)
	if i := slices.Index(d.order, e); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
}

// snapshot copies the members so a notification pass is not disturbed by the
// membership changes the effects it runs make.
func (d *Dep) snapshot() []*ReactiveEffect {
	return slices.Clone(d.order)
}

// Track records that the active effect read key of target. It does nothing
// without an active effect, while tracking is paused, or when target cannot
// be tracked.
func (rs *ReactiveSystem) Track(target, key any) {
	if !rs.isTracking() {
		return
	}
	rv, ok := compositeValue(target)
	if !ok || !comparableKey(key) {
		return
	}
	rs.track(rv, key)
}

func (rs *ReactiveSystem) track(target reflect.Value, key any) {
	if !rs.isTracking() {
		return
	}
	r := rs.targets.record(target, true)
	dep, ok := r.deps[key]
	if !ok {
		dep = NewDep()
		r.deps[key] = dep
	}
	rs.TrackEffects(dep)
}

// TrackEffects subscribes the active effect to dep. Subscribing twice is a
// no-op.
func (rs *ReactiveSystem) TrackEffects(dep *Dep) {
	e := rs.activeEffect
	if e == nil || !rs.shouldTrack {
		return
	}
	if dep.add(e) {
		e.deps = append(e.deps, dep)
		rs.stats.links.Add(1)
	}
}

// Trigger notifies the subscribers of key on target. newValue and oldValue
// describe the change; they are not used to filter, callers only trigger on
// real changes.
func (rs *ReactiveSystem) Trigger(target, key, newValue, oldValue any) {
	rv, ok := compositeValue(target)
	if !ok || !comparableKey(key) {
		return
	}
	rs.trigger(rv, key)
}

func (rs *ReactiveSystem) trigger(target reflect.Value, key any) {
	r := rs.targets.record(target, false)
	if r == nil {
		return
	}
	dep, ok := r.deps[key]
	if !ok {
		return
	}
	rs.TriggerEffects(dep)
}

// TriggerEffects runs or schedules every subscriber of dep except the
// effect currently running.
func (rs *ReactiveSystem) TriggerEffects(dep *Dep) {
	rs.stats.triggers.Add(1)
	rs.runEffects(dep.snapshot())
}

// triggerDeps notifies the members of several dependency sets as one change.
// An effect subscribed to more than one of them runs once; effects run in
// creation order.
func (rs *ReactiveSystem) triggerDeps(deps []*Dep) {
	if len(deps) == 0 {
		return
	}
	rs.stats.triggers.Add(1)

	seen := mapset.NewThreadUnsafeSet[*ReactiveEffect]()
	var effects []*ReactiveEffect
	for _, dep := range deps {
		for _, e := range dep.snapshot() {
			if seen.Add(e) {
				effects = append(effects, e)
			}
		}
	}
	slices.SortFunc(effects, func(a, b *ReactiveEffect) int {
		return cmp.Compare(a.id, b.id)
	})
	rs.runEffects(effects)
}

func (rs *ReactiveSystem) runEffects(effects []*ReactiveEffect) {
	for _, e := range effects {
		if e == rs.activeEffect {
			continue
		}
		if e.scheduler != nil {
			rs.stats.schedulerCalls.Add(1)
			e.scheduler()
			continue
		}
		if _, err := e.Run(); err != nil {
			rs.handleError(e, fmt.Errorf("error while re-running effect %d: %w", e.id, err))
		}
	}
}

func comparableKey(key any) bool {
	return key != nil && reflect.TypeOf(key).Comparable()
}
