package reactivity_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/proxyparty/reactivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should collect once, then call back on the first change
func TestWatchProxy(t *testing.T) {
	rs := newSystem(t)
	raw := &board{Owner: owner{Name: "ann"}}
	p, err := reactivity.ReactiveProxy(rs, raw)
	require.NoError(t, err)

	calls := 0
	var gotNew, gotOld any
	_, err = reactivity.Watch(rs, p, func(newValue, oldValue any, onCleanup reactivity.OnCleanup) {
		calls++
		gotNew, gotOld = newValue, oldValue
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	o := reactivity.GetAs[*reactivity.Proxy](p, "Owner")
	require.NoError(t, o.Set("Age", 30))
	assert.Equal(t, 1, calls)
	assert.Same(t, p, gotNew)
	assert.Same(t, p, gotOld)

	require.NoError(t, o.Set("Age", 30))
	assert.Equal(t, 1, calls)
}

// should see keys added after the watcher started
func TestWatchProxyAddedKeys(t *testing.T) {
	rs := newSystem(t)
	raw := &board{Tags: map[string]int{}}
	p, err := reactivity.ReactiveProxy(rs, raw)
	require.NoError(t, err)

	calls := 0
	_, err = reactivity.Watch(rs, p, func(newValue, oldValue any, onCleanup reactivity.OnCleanup) {
		calls++
	})
	require.NoError(t, err)

	tags := reactivity.GetAs[*reactivity.Proxy](p, "Tags")
	require.NoError(t, tags.Set("new", 1))
	assert.Equal(t, 1, calls)

	require.NoError(t, tags.Set("new", 2))
	assert.Equal(t, 2, calls)

	items := reactivity.GetAs[*reactivity.Proxy](p, "Items")
	require.NoError(t, items.Append(item{Title: "x"}))
	assert.Equal(t, 3, calls)

	first := reactivity.GetAs[*reactivity.Proxy](items, 0)
	require.NoError(t, first.Set("Done", true))
	assert.Equal(t, 4, calls)
}

// should call back right away with a nil old value
func TestWatchImmediate(t *testing.T) {
	rs := newSystem(t)
	p, err := reactivity.ReactiveProxy(rs, &counter{})
	require.NoError(t, err)

	calls := 0
	var gotOld any = "unset"
	_, err = reactivity.Watch(rs, p, func(newValue, oldValue any, onCleanup reactivity.OnCleanup) {
		calls++
		gotOld = oldValue
	}, reactivity.Immediate())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Nil(t, gotOld)

	require.NoError(t, p.Set("A", 1))
	assert.Equal(t, 2, calls)
	assert.Same(t, p, gotOld)
}

// should pass new and old getter results
func TestWatchGetter(t *testing.T) {
	rs := newSystem(t)
	p, err := reactivity.ReactiveProxy(rs, &counter{A: 1})
	require.NoError(t, err)

	var pairs [][2]any
	_, err = reactivity.Watch(rs, func() any {
		return p.Get("A")
	}, func(newValue, oldValue any, onCleanup reactivity.OnCleanup) {
		pairs = append(pairs, [2]any{newValue, oldValue})
	})
	require.NoError(t, err)

	require.NoError(t, p.Set("A", 2))
	require.NoError(t, p.Set("B", 2))
	require.NoError(t, p.Set("A", 3))
	assert.Equal(t, [][2]any{{2, 1}, {3, 2}}, pairs)
}

// should run the registered cleanup before the next callback
func TestWatchOnCleanup(t *testing.T) {
	rs := newSystem(t)
	r := reactivity.Ref(rs, 0)

	var events []string
	_, err := reactivity.Watch(rs, r, func(newValue, oldValue any, onCleanup reactivity.OnCleanup) {
		n := newValue.(int)
		events = append(events, "cb")
		onCleanup(func() {
			events = append(events, "cleanup")
		})
		if n == 2 {
			onCleanup(func() {
				events = append(events, "replaced")
			})
		}
	})
	require.NoError(t, err)

	r.SetValue(1)
	r.SetValue(2)
	r.SetValue(3)
	assert.Equal(t, []string{"cb", "cleanup", "cb", "replaced", "cb"}, events)
}

// should type the callback values
func TestWatchValue(t *testing.T) {
	rs := newSystem(t)
	r := reactivity.Ref(rs, "a")
	upper := reactivity.Computed(rs, func() string {
		return r.Value().(string) + "!"
	})

	var got []string
	reactivity.WatchValue(rs, upper.Value, func(newValue, oldValue string, onCleanup reactivity.OnCleanup) {
		got = append(got, oldValue+"->"+newValue)
	})

	r.SetValue("b")
	r.SetValue("c")
	assert.Equal(t, []string{"a!->b!", "b!->c!"}, got)
}

// should watch a computed value as a source
func TestWatchComputedSource(t *testing.T) {
	rs := newSystem(t)
	r := reactivity.Ref(rs, 1)
	double := reactivity.Computed(rs, func() int {
		return r.Value().(int) * 2
	})

	var got any
	_, err := reactivity.Watch(rs, double, func(newValue, oldValue any, onCleanup reactivity.OnCleanup) {
		got = newValue
	})
	require.NoError(t, err)

	r.SetValue(4)
	assert.Equal(t, 8, got)
}

// should reject sources it cannot watch
func TestWatchInvalidSource(t *testing.T) {
	rs := newSystem(t)
	_, err := reactivity.Watch(rs, 5, nil)
	assert.ErrorIs(t, err, reactivity.ErrInvalidWatchSource)

	_, err = reactivity.Watch(rs, (*reactivity.Proxy)(nil), nil)
	assert.ErrorIs(t, err, reactivity.ErrInvalidWatchSource)

	_, err = reactivity.Watch(rs, (*reactivity.ValueRef)(nil), nil)
	assert.ErrorIs(t, err, reactivity.ErrInvalidWatchSource)
}

// should run the body now and again on every change
func TestWatchEffect(t *testing.T) {
	rs := newSystem(t)
	p, err := reactivity.ReactiveProxy(rs, &counter{A: 1})
	require.NoError(t, err)

	var seen []int
	e, err := reactivity.WatchEffect(rs, func() error {
		seen = append(seen, reactivity.GetAs[int](p, "A"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, e.Active())

	require.NoError(t, p.Set("A", 2))
	assert.Equal(t, []int{1, 2}, seen)

	immediate := 0
	_, err = reactivity.WatchEffect(rs, func() error {
		immediate++
		p.Get("A")
		return nil
	}, reactivity.Immediate())
	require.NoError(t, err)
	assert.Equal(t, 1, immediate)
}

// should return the first run's error and hand later ones to the handler
func TestWatchEffectErrors(t *testing.T) {
	var handled []error
	rs := reactivity.CreateReactiveSystem(func(from *reactivity.ReactiveEffect, err error) {
		handled = append(handled, err)
	})
	p, err := reactivity.ReactiveProxy(rs, &counter{A: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	e, err := reactivity.WatchEffect(rs, func() error {
		if reactivity.GetAs[int](p, "A") != 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, e)
	assert.Empty(t, handled)

	require.NoError(t, p.Set("A", 2))
	assert.Empty(t, handled)
	require.NoError(t, p.Set("A", 3))
	require.Len(t, handled, 1)
	assert.ErrorIs(t, handled[0], boom)
}
