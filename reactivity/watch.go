package reactivity

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// OnCleanup registers fn to run before the next callback invocation.
type OnCleanup func(fn func())

type WatchCallback func(newValue, oldValue any, onCleanup OnCleanup)

type watchOptions struct {
	immediate bool
}

type WatchOption func(*watchOptions)

// Immediate invokes the callback once right away, with a nil old value.
func Immediate() WatchOption {
	return func(o *watchOptions) {
		o.immediate = true
	}
}

// Watch calls cb whenever source changes. source is a *Proxy, watched deeply,
// a getter func() any, or a boxed value.
func Watch(rs *ReactiveSystem, source any, cb WatchCallback, opts ...WatchOption) (*ReactiveEffect, error) {
	var getter EffectFn
	switch s := source.(type) {
	case *Proxy:
		if s == nil {
			return nil, fmt.Errorf("%w: nil proxy", ErrInvalidWatchSource)
		}
		getter = func() (any, error) {
			return traverse(s, mapset.NewThreadUnsafeSet[*Proxy]()), nil
		}
	case func() any:
		getter = func() (any, error) {
			return s(), nil
		}
	default:
		if !IsRef(source) {
			return nil, fmt.Errorf("%w: %T", ErrInvalidWatchSource, source)
		}
		r := source.(RefAware)
		getter = func() (any, error) {
			return r.anyValue(), nil
		}
	}
	return doWatch(rs, getter, cb, opts)
}

// WatchEffect runs fn now and again whenever anything it read changes. An
// error from the first run is returned; later ones go to the system's error
// handler.
func WatchEffect(rs *ReactiveSystem, fn ErrFn, opts ...WatchOption) (*ReactiveEffect, error) {
	return doWatch(rs, func() (any, error) {
		return nil, fn()
	}, nil, opts)
}

// WatchValue is Watch over a typed getter.
func WatchValue[T any](rs *ReactiveSystem, getter func() T, cb func(newValue, oldValue T, onCleanup OnCleanup), opts ...WatchOption) *ReactiveEffect {
	e, _ := doWatch(rs, func() (any, error) {
		return getter(), nil
	}, func(newValue, oldValue any, onCleanup OnCleanup) {
		n, _ := newValue.(T)
		o, _ := oldValue.(T)
		cb(n, o, onCleanup)
	}, opts)
	return e
}

func doWatch(rs *ReactiveSystem, getter EffectFn, cb WatchCallback, opts []WatchOption) (*ReactiveEffect, error) {
	var o watchOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		e        *ReactiveEffect
		oldValue any
		cleanup  func()
	)
	onCleanup := func(fn func()) {
		cleanup = fn
	}

	job := func() {
		if cb == nil {
			if _, err := e.Run(); err != nil {
				rs.handleError(e, fmt.Errorf("error while running watcher: %w", err))
			}
			return
		}

		newValue, err := e.Run()
		if err != nil {
			rs.handleError(e, fmt.Errorf("error while running watcher: %w", err))
			return
		}
		if cleanup != nil {
			fn := cleanup
			cleanup = nil
			fn()
		}
		cb(newValue, oldValue, onCleanup)
		oldValue = newValue
	}
	e = NewReactiveEffect(rs, getter, job)

	if o.immediate && cb != nil {
		job()
		return e, nil
	}

	v, err := e.Run()
	if err != nil {
		return e, fmt.Errorf("error while running watcher: %w", err)
	}
	oldValue = v
	return e, nil
}

// traverse reads every key reachable from v so the running effect depends
// on all of them. Boxed values are followed into their content.
func traverse(v any, seen mapset.Set[*Proxy]) any {
	if IsRef(v) {
		traverse(Unref(v), seen)
		return v
	}
	p, ok := v.(*Proxy)
	if !ok || !seen.Add(p) {
		return v
	}
	for _, k := range p.Keys() {
		traverse(p.Get(k), seen)
	}
	return v
}
