package reactivity

import (
	"log/slog"

	"github.com/google/uuid"
)

// ReactiveSystem owns the ambient state every primitive in this package
// shares: the active effect slot, the active effect scope, the pause stack
// and the table of tracked targets. A system is confined to one goroutine.
type ReactiveSystem struct {
	id string

	activeEffect *ReactiveEffect
	activeScope  *EffectScope

	shouldTrack bool
	trackStack  []bool

	targets *targetTable

	onError OnErrorFunc
	logger  *slog.Logger
	stats   counters
}

type SystemOption func(*ReactiveSystem)

// WithLogger routes the system's debug and error records to logger.
func WithLogger(logger *slog.Logger) SystemOption {
	return func(rs *ReactiveSystem) {
		if logger != nil {
			rs.logger = logger
		}
	}
}

func CreateReactiveSystem(onError OnErrorFunc, opts ...SystemOption) *ReactiveSystem {
	rs := &ReactiveSystem{
		id:          uuid.NewString(),
		shouldTrack: true,
		targets:     newTargetTable(),
		onError:     onError,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(rs)
	}
	rs.logger = rs.logger.With("system", rs.id)
	return rs
}

func (rs *ReactiveSystem) ID() string {
	return rs.id
}

// ActiveEffect returns the effect currently running, if any.
func (rs *ReactiveSystem) ActiveEffect() *ReactiveEffect {
	return rs.activeEffect
}

func (rs *ReactiveSystem) PauseTracking() {
	rs.trackStack = append(rs.trackStack, rs.shouldTrack)
	rs.shouldTrack = false
}

func (rs *ReactiveSystem) EnableTracking() {
	rs.trackStack = append(rs.trackStack, rs.shouldTrack)
	rs.shouldTrack = true
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.trackStack) - 1
	if lastIdx < 0 {
		rs.shouldTrack = true
		return
	}
	rs.shouldTrack = rs.trackStack[lastIdx]
	rs.trackStack = rs.trackStack[:lastIdx]
}

// Untracked runs fn with tracking paused. The active effect is unchanged, so
// writes made by fn still skip it.
func (rs *ReactiveSystem) Untracked(fn func()) {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	fn()
}

func (rs *ReactiveSystem) isTracking() bool {
	return rs.shouldTrack && rs.activeEffect != nil
}

// handleError receives errors from effects that were re-run by a trigger and
// therefore have no caller to return to.
func (rs *ReactiveSystem) handleError(from *ReactiveEffect, err error) {
	if rs.onError != nil {
		rs.onError(from, err)
		return
	}
	rs.logger.Error("effect failed", "effect", from.id, "error", err)
}
