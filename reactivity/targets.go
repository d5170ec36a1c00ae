package reactivity

import (
	"reflect"
	"runtime"
	"sync"
	"weak"
)

var ownPkgPath = reflect.TypeOf(Proxy{}).PkgPath()

// targetID identifies a raw target by where it lives and what it is. A
// pointer to a struct and a pointer to its first field share an address, so
// the type is part of the identity.
type targetID struct {
	addr uintptr
	typ  reflect.Type
}

func identityOf(rv reflect.Value) targetID {
	return targetID{addr: uintptr(rv.UnsafePointer()), typ: rv.Type()}
}

// targetRecord is everything the system knows about one raw target: its
// dependency sets by key and its cached wrapper.
type targetRecord struct {
	deps  map[any]*Dep
	proxy weak.Pointer[Proxy]
	gen   uint64
}

type releaseArg struct {
	id  targetID
	gen uint64
}

// targetTable never holds a raw target strongly. Records are dropped by a
// cleanup attached to the target, which runs on a runtime goroutine; mu
// guards the records map against it. Record contents are only touched from
// the system's goroutine.
type targetTable struct {
	mu      sync.Mutex
	records map[targetID]*targetRecord
	nextGen uint64
}

func newTargetTable() *targetTable {
	return &targetTable{records: map[targetID]*targetRecord{}}
}

func (t *targetTable) record(rv reflect.Value, create bool) *targetRecord {
	id := identityOf(rv)

	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[id]
	if ok || !create {
		return r
	}

	t.nextGen++
	r = &targetRecord{
		deps: map[any]*Dep{},
		gen:  t.nextGen,
	}
	t.records[id] = r
	runtime.AddCleanup((*byte)(rv.UnsafePointer()), t.release, releaseArg{id: id, gen: r.gen})
	return r
}

// release drops the record for a collected target. A record created later for
// a new object at the same address has a different generation and is kept.
func (t *targetTable) release(arg releaseArg) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, ok := t.records[arg.id]; ok && r.gen == arg.gen {
		delete(t.records, arg.id)
	}
}

// appendDeps adds every dependency set recorded for rv to into.
func (t *targetTable) appendDeps(rv reflect.Value, into []*Dep) []*Dep {
	r := t.record(rv, false)
	if r == nil {
		return into
	}
	for _, dep := range r.deps {
		into = append(into, dep)
	}
	return into
}

func (t *targetTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// compositeValue resolves v to the raw target it stands for. Proxies resolve
// to the value they wrap.
func compositeValue(v any) (reflect.Value, bool) {
	if p, ok := v.(*Proxy); ok {
		if p == nil {
			return reflect.Value{}, false
		}
		return p.target, true
	}
	rv := reflect.ValueOf(v)
	return rv, isComposite(rv)
}

// isComposite reports whether rv can be tracked: a non-nil map, or a non-nil
// pointer to a struct with exported fields, a slice, an array or a map.
// Values of this package's own types are never tracked.
func isComposite(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Map:
		return !rv.IsNil() && rv.Type().PkgPath() != ownPkgPath
	case reflect.Pointer:
		if rv.IsNil() {
			return false
		}
		elem := rv.Type().Elem()
		if elem.PkgPath() == ownPkgPath {
			return false
		}
		switch elem.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return true
		case reflect.Struct:
			return hasExportedField(elem)
		}
	}
	return false
}

func hasExportedField(t reflect.Type) bool {
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}
