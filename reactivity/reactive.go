package reactivity

import (
	"fmt"
	"reflect"
	"weak"
)

// Proxy is the tracked view of a raw composite value. Reads through it
// subscribe the active effect, writes through it notify subscribers. There
// is at most one live Proxy per raw target and system.
type Proxy struct {
	rs     *ReactiveSystem
	target reflect.Value
}

// Reactive returns the tracked view of target. Values that cannot be
// tracked are returned unchanged, as are proxies.
func Reactive(rs *ReactiveSystem, target any) any {
	if p, ok := target.(*Proxy); ok && p != nil {
		return p
	}
	rv := reflect.ValueOf(target)
	if !isComposite(rv) {
		return target
	}
	return rs.proxyOf(rv)
}

// ReactiveProxy is Reactive for callers that need a *Proxy.
func ReactiveProxy(rs *ReactiveSystem, target any) (*Proxy, error) {
	switch p := Reactive(rs, target).(type) {
	case *Proxy:
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotComposite, target)
	}
}

func IsReactive(v any) bool {
	p, ok := v.(*Proxy)
	if !ok || p == nil {
		return false
	}
	flagged, _ := p.Get(IsReactiveFlag).(bool)
	return flagged
}

// ToRaw returns the value a proxy wraps, or v itself.
func ToRaw(v any) any {
	if p, ok := v.(*Proxy); ok && p != nil {
		return p.Raw()
	}
	return v
}

func (rs *ReactiveSystem) proxyOf(rv reflect.Value) *Proxy {
	r := rs.targets.record(rv, true)
	if p := r.proxy.Value(); p != nil {
		return p
	}
	p := &Proxy{rs: rs, target: rv}
	r.proxy = weak.Make(p)
	rs.stats.proxies.Add(1)
	return p
}

// Raw returns the wrapped value: a map, or a pointer to a struct, slice,
// array or map.
func (p *Proxy) Raw() any {
	return p.target.Interface()
}

func (p *Proxy) System() *ReactiveSystem {
	return p.rs
}

// GetAs reads key through p and asserts the result to T, returning the zero
// value when the key is absent or holds something else.
func GetAs[T any](p *Proxy, key any) T {
	v, _ := p.Get(key).(T)
	return v
}
