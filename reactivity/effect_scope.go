package reactivity

// EffectScope collects the effects created while it runs so they can be
// stopped together. Scopes created inside another scope are stopped with it
// unless detached.
type EffectScope struct {
	rs       *ReactiveSystem
	active   bool
	parent   *EffectScope
	effects  []*ReactiveEffect
	scopes   []*EffectScope
	cleanups []func()
}

func NewEffectScope(rs *ReactiveSystem, detached bool) *EffectScope {
	s := &EffectScope{rs: rs, active: true}
	if !detached && rs.activeScope != nil {
		s.parent = rs.activeScope
		s.parent.scopes = append(s.parent.scopes, s)
	}
	return s
}

// Run executes fn with s as the active scope. A stopped scope does not run fn.
func (s *EffectScope) Run(fn func()) {
	if !s.active {
		return
	}
	prev := s.rs.activeScope
	s.rs.activeScope = s
	defer func() {
		s.rs.activeScope = prev
	}()
	fn()
}

func (s *EffectScope) Active() bool {
	return s.active
}

// Stop stops every collected effect and child scope, then runs the dispose
// callbacks in registration order.
func (s *EffectScope) Stop() {
	if !s.active {
		return
	}
	s.active = false
	for _, e := range s.effects {
		e.Stop()
	}
	for _, child := range s.scopes {
		child.Stop()
	}
	for _, fn := range s.cleanups {
		fn()
	}
	s.rs.logger.Debug("effect scope stopped", "effects", len(s.effects), "scopes", len(s.scopes))
	s.effects, s.scopes, s.cleanups = nil, nil, nil
}

// OnScopeDispose registers fn to run when the active scope stops. Outside a
// scope it does nothing and returns false.
func OnScopeDispose(rs *ReactiveSystem, fn func()) bool {
	s := rs.activeScope
	if s == nil || !s.active {
		return false
	}
	s.cleanups = append(s.cleanups, fn)
	return true
}

func (rs *ReactiveSystem) recordEffectScope(e *ReactiveEffect) {
	if s := rs.activeScope; s != nil && s.active {
		s.effects = append(s.effects, e)
	}
}
