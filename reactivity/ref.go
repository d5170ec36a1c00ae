package reactivity

import (
	"fmt"
	"reflect"
)

// RefAware is implemented by every boxed value: ValueRef, ObjectRef and
// ComputedRef.
type RefAware interface {
	isRef()
	anyValue() any
	setAnyValue(v any) error
}

// ValueRef boxes a single value. Composite values are stored raw and handed
// out as proxies.
type ValueRef struct {
	rs       *ReactiveSystem
	rawValue any
	value    any
	dep      *Dep
}

func Ref(rs *ReactiveSystem, value any) *ValueRef {
	if r, ok := value.(*ValueRef); ok && r != nil {
		return r
	}
	raw := ToRaw(value)
	return &ValueRef{
		rs:       rs,
		rawValue: raw,
		value:    toReactive(rs, raw),
	}
}

func (r *ValueRef) Value() any {
	if r.rs.isTracking() {
		if r.dep == nil {
			r.dep = NewDep()
		}
		r.rs.TrackEffects(r.dep)
	}
	return r.value
}

func (r *ValueRef) SetValue(v any) {
	raw := ToRaw(v)
	if !hasChanged(r.rawValue, raw) {
		return
	}
	r.rawValue = raw
	r.value = toReactive(r.rs, raw)
	if r.dep != nil {
		r.rs.TriggerEffects(r.dep)
	}
}

func (r *ValueRef) isRef()        {}
func (r *ValueRef) anyValue() any { return r.Value() }
func (r *ValueRef) setAnyValue(v any) error {
	r.SetValue(v)
	return nil
}

// ObjectRef is a boxed view of one key of a proxy. It has no storage of its
// own: reads and writes go through the proxy, so it is always current.
type ObjectRef struct {
	object *Proxy
	key    any
}

func ToRef(p *Proxy, key any) *ObjectRef {
	return &ObjectRef{object: p, key: key}
}

// ToRefs returns one ObjectRef per key of p, named by the key's printed form.
func ToRefs(p *Proxy) map[string]*ObjectRef {
	var keys []any
	p.rs.Untracked(func() {
		keys = p.Keys()
	})
	refs := make(map[string]*ObjectRef, len(keys))
	for _, k := range keys {
		refs[fmt.Sprint(k)] = ToRef(p, k)
	}
	return refs
}

func (r *ObjectRef) Key() any {
	return r.key
}

func (r *ObjectRef) Value() any {
	return r.object.Get(r.key)
}

func (r *ObjectRef) SetValue(v any) error {
	return r.object.Set(r.key, v)
}

func (r *ObjectRef) isRef()                  {}
func (r *ObjectRef) anyValue() any           { return r.Value() }
func (r *ObjectRef) setAnyValue(v any) error { return r.SetValue(v) }

// IsRef reports whether v is a non-nil boxed value.
func IsRef(v any) bool {
	if _, ok := v.(RefAware); !ok {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() != reflect.Pointer || !rv.IsNil()
}

// Unref returns the boxed value's content, or v itself.
func Unref(v any) any {
	if IsRef(v) {
		return v.(RefAware).anyValue()
	}
	return v
}

// RefsProxy reads through to a target whose fields may hold boxed values,
// unwrapping them on Get and writing into them on Set.
type RefsProxy struct {
	proxy *Proxy
}

func ProxyRefs(rs *ReactiveSystem, target any) (*RefsProxy, error) {
	if rp, ok := target.(*RefsProxy); ok && rp != nil {
		return rp, nil
	}
	p, err := ReactiveProxy(rs, target)
	if err != nil {
		return nil, err
	}
	return &RefsProxy{proxy: p}, nil
}

func (rp *RefsProxy) Get(key any) any {
	return Unref(rp.proxy.Get(key))
}

// Set writes into the boxed value held at key, if there is one. Otherwise,
// including when the field is nil or absent, it assigns normally.
func (rp *RefsProxy) Set(key, value any) error {
	var old any
	rp.proxy.rs.Untracked(func() {
		old = rp.proxy.Get(key)
	})
	if IsRef(old) && !IsRef(value) {
		return old.(RefAware).setAnyValue(value)
	}
	return rp.proxy.Set(key, value)
}

func (rp *RefsProxy) Proxy() *Proxy {
	return rp.proxy
}

func toReactive(rs *ReactiveSystem, v any) any {
	return Reactive(rs, v)
}
