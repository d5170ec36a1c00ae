package reactivity

import "fmt"

// ComputedRef caches the result of a getter. The getter runs as a tracked
// effect on first read and again on the first read after one of its
// dependencies changes, never earlier.
type ComputedRef[T any] struct {
	rs     *ReactiveSystem
	effect *ReactiveEffect
	setter func(T)
	dep    *Dep
	value  T
	dirty  bool
}

// Computed returns a read-only derived value; SetValue on it does nothing.
func Computed[T any](rs *ReactiveSystem, getter func() T) *ComputedRef[T] {
	return WritableComputed(rs, getter, nil)
}

func WritableComputed[T any](rs *ReactiveSystem, getter func() T, setter func(T)) *ComputedRef[T] {
	c := &ComputedRef[T]{
		rs:     rs,
		setter: setter,
		dep:    NewDep(),
		dirty:  true,
	}
	c.effect = NewReactiveEffect(rs, func() (any, error) {
		return getter(), nil
	}, func() {
		c.dirty = true
		rs.TriggerEffects(c.dep)
	})
	return c
}

func (c *ComputedRef[T]) Value() T {
	if c.dirty {
		v, _ := c.effect.Run()
		c.value, _ = v.(T)
		c.dirty = false
	}
	c.rs.TrackEffects(c.dep)
	return c.value
}

func (c *ComputedRef[T]) SetValue(v T) {
	if c.setter != nil {
		c.setter(v)
	}
}

// Effect exposes the effect that runs the getter, so it can be stopped.
func (c *ComputedRef[T]) Effect() *ReactiveEffect {
	return c.effect
}

func (c *ComputedRef[T]) isRef()        {}
func (c *ComputedRef[T]) anyValue() any { return c.Value() }
func (c *ComputedRef[T]) setAnyValue(v any) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: %T is not assignable to %T", ErrTypeMismatch, v, c.value)
	}
	c.SetValue(t)
	return nil
}
