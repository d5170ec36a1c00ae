package reactivity_test

import (
	"testing"

	"github.com/delaneyj/proxyparty/reactivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should re-run readers when the boxed value changes
func TestRefValue(t *testing.T) {
	rs := newSystem(t)
	r := reactivity.Ref(rs, 1)

	dummy, runs := 0, 0
	_, err := reactivity.Effect(rs, func() error {
		runs++
		dummy = r.Value().(int)
		return nil
	})
	require.NoError(t, err)

	r.SetValue(2)
	assert.Equal(t, 2, dummy)
	assert.Equal(t, 2, runs)

	r.SetValue(2)
	assert.Equal(t, 2, runs)

	assert.Same(t, r, reactivity.Ref(rs, r))
}

// should project composite values as proxies
func TestRefComposite(t *testing.T) {
	rs := newSystem(t)
	raw := &counter{A: 1}
	r := reactivity.Ref(rs, raw)

	p, ok := r.Value().(*reactivity.Proxy)
	require.True(t, ok)
	assert.Same(t, raw, p.Raw())

	a := 0
	_, err := reactivity.Effect(rs, func() error {
		a = reactivity.GetAs[int](r.Value().(*reactivity.Proxy), "A")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, p.Set("A", 3))
	assert.Equal(t, 3, a)

	// assigning the proxy of the stored target is not a change
	runs := 0
	_, err = reactivity.Effect(rs, func() error {
		runs++
		r.Value()
		return nil
	})
	require.NoError(t, err)
	r.SetValue(p)
	assert.Equal(t, 1, runs)

	r.SetValue(&counter{A: 9})
	assert.Equal(t, 2, runs)
	assert.Equal(t, 9, a)
}

// should write through field refs to the original object
func TestToRefsWriteThrough(t *testing.T) {
	rs := newSystem(t)
	raw := &counter{A: 1}
	p, err := reactivity.ReactiveProxy(rs, raw)
	require.NoError(t, err)

	refs := reactivity.ToRefs(p)
	require.Len(t, refs, 3)
	require.Contains(t, refs, "A")

	seen := 0
	_, err = reactivity.Effect(rs, func() error {
		seen = reactivity.GetAs[int](p, "A")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, refs["A"].SetValue(5))
	assert.Equal(t, 5, raw.A)
	assert.Equal(t, 5, seen)

	require.NoError(t, p.Set("A", 7))
	assert.Equal(t, 7, refs["A"].Value())
	assert.Equal(t, "A", refs["A"].Key())
}

// should key map refs by their printed key
func TestToRefsMap(t *testing.T) {
	rs := newSystem(t)
	p, err := reactivity.ReactiveProxy(rs, map[int]string{1: "one", 2: "two"})
	require.NoError(t, err)

	refs := reactivity.ToRefs(p)
	require.Len(t, refs, 2)
	assert.Equal(t, "two", refs["2"].Value())

	single := reactivity.ToRef(p, 3)
	assert.Nil(t, single.Value())
	require.NoError(t, single.SetValue("three"))
	assert.Equal(t, "three", p.Get(3))
}

type form struct {
	Name  *reactivity.ValueRef
	Label *reactivity.ValueRef
	Count int
}

// should unwrap refs on read and write into them on set
func TestProxyRefs(t *testing.T) {
	rs := newSystem(t)
	name := reactivity.Ref(rs, "ann")
	raw := &form{Name: name, Count: 1}

	rp, err := reactivity.ProxyRefs(rs, raw)
	require.NoError(t, err)
	assert.Equal(t, "ann", rp.Get("Name"))
	assert.Equal(t, 1, rp.Get("Count"))

	seen := ""
	_, err = reactivity.Effect(rs, func() error {
		seen, _ = rp.Get("Name").(string)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, rp.Set("Name", "bob"))
	assert.Same(t, name, raw.Name)
	assert.Equal(t, "bob", name.Value())
	assert.Equal(t, "bob", seen)

	require.NoError(t, rp.Set("Count", 2))
	assert.Equal(t, 2, raw.Count)

	// a nil ref field is not a ref, so it is assigned
	label := reactivity.Ref(rs, "x")
	require.NoError(t, rp.Set("Label", label))
	assert.Same(t, label, raw.Label)
	assert.Equal(t, "x", rp.Get("Label"))

	// replacing a ref with a ref assigns the field
	other := reactivity.Ref(rs, "carl")
	require.NoError(t, rp.Set("Name", other))
	assert.Same(t, other, raw.Name)
	assert.Equal(t, "carl", seen)

	again, err := reactivity.ProxyRefs(rs, rp)
	require.NoError(t, err)
	assert.Same(t, rp, again)
	assert.Same(t, raw, rp.Proxy().Raw())

	_, err = reactivity.ProxyRefs(rs, 1)
	assert.ErrorIs(t, err, reactivity.ErrNotComposite)
}

// should recognize boxed values
func TestIsRefUnref(t *testing.T) {
	rs := newSystem(t)
	r := reactivity.Ref(rs, 1)
	c := reactivity.Computed(rs, func() int { return 2 })
	p, err := reactivity.ReactiveProxy(rs, &counter{})
	require.NoError(t, err)

	assert.True(t, reactivity.IsRef(r))
	assert.True(t, reactivity.IsRef(c))
	assert.True(t, reactivity.IsRef(reactivity.ToRef(p, "A")))
	assert.False(t, reactivity.IsRef(1))
	assert.False(t, reactivity.IsRef(nil))
	assert.False(t, reactivity.IsRef((*reactivity.ValueRef)(nil)))

	assert.Equal(t, 1, reactivity.Unref(r))
	assert.Equal(t, 2, reactivity.Unref(c))
	assert.Equal(t, 3, reactivity.Unref(3))
}
