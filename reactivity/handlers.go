package reactivity

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
)

// container is the value keys index into: the map itself, or what the
// pointer points at.
func (p *Proxy) container() reflect.Value {
	if p.target.Kind() == reflect.Pointer {
		return p.target.Elem()
	}
	return p.target
}

// tracked is the value keys are tracked against. A map reached through a
// pointer is tracked as the map itself once it exists, so every route to the
// same map shares subscribers.
func (p *Proxy) tracked() reflect.Value {
	if p.target.Kind() == reflect.Pointer {
		if m := p.target.Elem(); m.Kind() == reflect.Map && !m.IsNil() {
			return m
		}
	}
	return p.target
}

// notify runs the subscribers of keys on p's target together with the
// members of nested, each effect once.
func (p *Proxy) notify(keys []any, nested []*Dep) {
	target := p.tracked()
	if len(keys) == 1 && len(nested) == 0 {
		p.rs.trigger(target, keys[0])
		return
	}
	deps := nested
	if r := p.rs.targets.record(target, false); r != nil {
		for _, k := range keys {
			if dep, ok := r.deps[k]; ok {
				deps = append(deps, dep)
			}
		}
	}
	p.rs.triggerDeps(deps)
}

// nestedDeps collects the dependency sets of every proxy that reads v's
// storage: proxies over v's address, and over the inline structs and arrays
// inside it. Replacing v changes what all of them return.
func (rs *ReactiveSystem) nestedDeps(v reflect.Value, into []*Dep) []*Dep {
	if !v.CanAddr() || !aliased(v.Type()) {
		return into
	}
	into = rs.targets.appendDeps(v.Addr(), into)
	switch v.Kind() {
	case reflect.Map:
		if !v.IsNil() {
			into = rs.targets.appendDeps(v, into)
		}
	case reflect.Struct:
		for i := range v.NumField() {
			into = rs.nestedDeps(v.Field(i), into)
		}
	case reflect.Array:
		if aliased(v.Type().Elem()) {
			for i := range v.Len() {
				into = rs.nestedDeps(v.Index(i), into)
			}
		}
	}
	return into
}

func aliased(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct, reflect.Array, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

// Get reads key and subscribes the active effect to it. Composite results
// come back as proxies. Missing map keys and indexes past the end read as nil
// but are still tracked, so adding them later notifies.
func (p *Proxy) Get(key any) any {
	if fk, ok := key.(flagKey); ok {
		if fk == IsReactiveFlag {
			return true
		}
		return nil
	}

	c := p.container()
	switch c.Kind() {
	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return nil
		}
		f, err := structField(c, name)
		if err != nil {
			return nil
		}
		p.rs.track(p.tracked(), name)
		return p.project(f)

	case reflect.Map:
		k, err := mapKey(c, key)
		if err != nil {
			return nil
		}
		p.rs.track(p.tracked(), k.Interface())
		v := c.MapIndex(k)
		if !v.IsValid() {
			return nil
		}
		return p.project(v)

	case reflect.Slice, reflect.Array:
		i, ok := toIndex(key)
		if !ok {
			return nil
		}
		p.rs.track(p.tracked(), i)
		if i < 0 || i >= c.Len() {
			return nil
		}
		return p.project(c.Index(i))
	}
	return nil
}

// Set writes value under key. Subscribers are notified only when the stored
// value actually changes.
func (p *Proxy) Set(key, value any) error {
	if _, ok := key.(flagKey); ok {
		return fmt.Errorf("%w: reserved key", ErrInvalidKey)
	}
	c := p.container()
	switch c.Kind() {
	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return fmt.Errorf("%w: struct fields are named by string, got %T", ErrInvalidKey, key)
		}
		f, err := structField(c, name)
		if err != nil {
			return err
		}
		nv, err := assignable(value, f.Type())
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		old := f.Interface()
		if !hasChanged(old, nv.Interface()) {
			return nil
		}
		nested := p.rs.nestedDeps(f, nil)
		f.Set(nv)
		p.notify([]any{name}, nested)
		return nil

	case reflect.Map:
		k, err := mapKey(c, key)
		if err != nil {
			return err
		}
		nv, err := assignable(value, c.Type().Elem())
		if err != nil {
			return fmt.Errorf("key %v: %w", key, err)
		}
		// readers of the nil map subscribed through the pointer
		var nested []*Dep
		if c.IsNil() {
			if !c.CanSet() {
				return fmt.Errorf("%w: assignment to nil map", ErrUnsupported)
			}
			nested = p.rs.targets.appendDeps(p.target, nil)
			c.Set(reflect.MakeMap(c.Type()))
		}
		existing := c.MapIndex(k)
		added := !existing.IsValid()
		if !added && !hasChanged(existing.Interface(), nv.Interface()) {
			return nil
		}
		c.SetMapIndex(k, nv)
		keys := []any{k.Interface()}
		if added {
			keys = append(keys, iterateKey)
		}
		p.notify(keys, nested)
		return nil

	case reflect.Slice, reflect.Array:
		i, ok := toIndex(key)
		if !ok {
			return fmt.Errorf("%w: indexes are integers, got %T", ErrInvalidKey, key)
		}
		if i < 0 || i >= c.Len() {
			return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, c.Len())
		}
		el := c.Index(i)
		nv, err := assignable(value, el.Type())
		if err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
		if !hasChanged(el.Interface(), nv.Interface()) {
			return nil
		}
		nested := p.rs.nestedDeps(el, nil)
		el.Set(nv)
		p.notify([]any{i}, nested)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, c.Type())
}

// Delete removes key from a map. Deleting an absent key is a no-op.
func (p *Proxy) Delete(key any) error {
	c := p.container()
	if c.Kind() != reflect.Map {
		return fmt.Errorf("%w: delete on %s", ErrUnsupported, c.Type())
	}
	k, err := mapKey(c, key)
	if err != nil {
		return err
	}
	if c.IsNil() || !c.MapIndex(k).IsValid() {
		return nil
	}
	c.SetMapIndex(k, reflect.Value{})
	p.notify([]any{k.Interface(), iterateKey}, nil)
	return nil
}

// Append grows a slice reached through a pointer, notifying the new indexes
// and the length. When the slice moves to a new backing array every index is
// notified, since element proxies handed out before point at the old one.
func (p *Proxy) Append(values ...any) error {
	c := p.container()
	if c.Kind() != reflect.Slice || !c.CanSet() {
		return fmt.Errorf("%w: append on %s", ErrUnsupported, c.Type())
	}
	if len(values) == 0 {
		return nil
	}

	elemType := c.Type().Elem()
	converted := make([]reflect.Value, len(values))
	for i, v := range values {
		nv, err := assignable(v, elemType)
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		converted[i] = nv
	}

	before, from := c.UnsafePointer(), c.Len()
	c.Set(reflect.Append(c, converted...))
	if c.UnsafePointer() != before {
		from = 0
	}
	keys := make([]any, 0, c.Len()-from+1)
	for i := from; i < c.Len(); i++ {
		keys = append(keys, i)
	}
	p.notify(append(keys, lengthKey), nil)
	return nil
}

// Len is the number of entries: map keys, slice or array elements, or
// exported struct fields. Maps and slices subscribe to their size.
func (p *Proxy) Len() int {
	c := p.container()
	switch c.Kind() {
	case reflect.Map:
		p.rs.track(p.tracked(), iterateKey)
		return c.Len()
	case reflect.Slice, reflect.Array:
		p.rs.track(p.tracked(), lengthKey)
		return c.Len()
	case reflect.Struct:
		return len(exportedFields(c.Type()))
	}
	return 0
}

// Keys lists the keys Get accepts. Map keys are sorted by their printed form
// so iteration is stable.
func (p *Proxy) Keys() []any {
	c := p.container()
	switch c.Kind() {
	case reflect.Map:
		p.rs.track(p.tracked(), iterateKey)
		keys := make([]any, 0, c.Len())
		for _, k := range c.MapKeys() {
			keys = append(keys, k.Interface())
		}
		slices.SortFunc(keys, func(a, b any) int {
			return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
		})
		return keys
	case reflect.Slice, reflect.Array:
		p.rs.track(p.tracked(), lengthKey)
		keys := make([]any, c.Len())
		for i := range keys {
			keys[i] = i
		}
		return keys
	case reflect.Struct:
		fields := exportedFields(c.Type())
		keys := make([]any, len(fields))
		for i, name := range fields {
			keys[i] = name
		}
		return keys
	}
	return nil
}

// project turns a stored value into what Get hands out. Addressable nested
// structs, slices, arrays and nil maps are wrapped through their address so
// writes reach the parent's storage; other composites are wrapped as they
// are.
func (p *Proxy) project(v reflect.Value) any {
	if v.CanAddr() {
		addr := v.Addr()
		if isComposite(addr) && (v.Kind() != reflect.Map || v.IsNil()) {
			return p.rs.proxyOf(addr)
		}
	}
	x := v.Interface()
	if rv := reflect.ValueOf(x); isComposite(rv) {
		return p.rs.proxyOf(rv)
	}
	return x
}

func structField(c reflect.Value, name string) (reflect.Value, error) {
	sf, ok := c.Type().FieldByName(name)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, c.Type(), name)
	}
	if !exportedPath(c.Type(), sf.Index) {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrUnexportedField, c.Type(), name)
	}
	f, err := c.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s: %w", ErrUnknownField, c.Type(), name, err)
	}
	return f, nil
}

func exportedFields(t reflect.Type) []string {
	var names []string
	for _, f := range reflect.VisibleFields(t) {
		if !f.Anonymous && exportedPath(t, f.Index) {
			names = append(names, f.Name)
		}
	}
	return names
}

// exportedPath reports whether every field on the way to index is exported,
// embedded ones included.
func exportedPath(t reflect.Type, index []int) bool {
	for _, i := range index {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		f := t.Field(i)
		if !f.IsExported() {
			return false
		}
		t = f.Type
	}
	return true
}

func mapKey(c reflect.Value, key any) (reflect.Value, error) {
	k, err := assignable(key, c.Type().Key())
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if !k.Type().Comparable() {
		return reflect.Value{}, fmt.Errorf("%w: %s is not comparable", ErrInvalidKey, k.Type())
	}
	return k, nil
}

func toIndex(key any) (int, bool) {
	rv := reflect.ValueOf(key)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanInt():
		n := rv.Int()
		if n > math.MaxInt || n < math.MinInt {
			return 0, false
		}
		return int(n), true
	case rv.CanUint():
		n := rv.Uint()
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// assignable converts value to t. Proxies are unwrapped first. Integers and
// floats convert across sizes when the value fits.
func assignable(value any, t reflect.Type) (reflect.Value, error) {
	if p, ok := value.(*Proxy); ok && p != nil {
		value = p.Raw()
	}
	if value == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil is not a %s", ErrTypeMismatch, t)
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if nv, ok := convertNumber(rv, t); ok {
		return nv, nil
	}
	if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrTypeMismatch, rv.Type(), t)
}

func convertNumber(rv reflect.Value, t reflect.Type) (reflect.Value, bool) {
	target := reflect.Zero(t)
	switch {
	case rv.CanInt():
		n := rv.Int()
		switch {
		case target.CanInt():
			if t.OverflowInt(n) {
				return reflect.Value{}, false
			}
		case target.CanUint():
			if n < 0 || t.OverflowUint(uint64(n)) {
				return reflect.Value{}, false
			}
		case target.CanFloat():
		default:
			return reflect.Value{}, false
		}
	case rv.CanUint():
		n := rv.Uint()
		switch {
		case target.CanInt():
			if n > math.MaxInt64 || t.OverflowInt(int64(n)) {
				return reflect.Value{}, false
			}
		case target.CanUint():
			if t.OverflowUint(n) {
				return reflect.Value{}, false
			}
		case target.CanFloat():
		default:
			return reflect.Value{}, false
		}
	case rv.CanFloat():
		if !target.CanFloat() || t.OverflowFloat(rv.Float()) {
			return reflect.Value{}, false
		}
	default:
		return reflect.Value{}, false
	}
	return rv.Convert(t), true
}

// hasChanged reports whether storing newValue over oldValue is a change.
// Slices compare by backing array and length, maps by identity, and NaN
// equals NaN. Functions and other incomparable values always count as
// changed.
func hasChanged(oldValue, newValue any) bool {
	if oldValue == nil || newValue == nil {
		return oldValue != newValue
	}
	ov, nv := reflect.ValueOf(oldValue), reflect.ValueOf(newValue)
	if ov.Type() != nv.Type() {
		return true
	}
	switch ov.Kind() {
	case reflect.Slice:
		return ov.UnsafePointer() != nv.UnsafePointer() || ov.Len() != nv.Len()
	case reflect.Map:
		return ov.UnsafePointer() != nv.UnsafePointer()
	case reflect.Func:
		return true
	case reflect.Float32, reflect.Float64:
		a, b := ov.Float(), nv.Float()
		if math.IsNaN(a) && math.IsNaN(b) {
			return false
		}
		return a != b
	}
	if !ov.Comparable() {
		return true
	}
	return oldValue != newValue
}
