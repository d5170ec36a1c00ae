package reactivity

import "github.com/cespare/xxhash/v2"

type ErrFn func() error

// EffectFn is the body of a ReactiveEffect. Its result is returned from Run.
type EffectFn func() (any, error)

type OnErrorFunc func(from *ReactiveEffect, err error)

// flagKey is a reserved key type. User keys can never collide with it since
// struct fields, map keys and indexes are never of this type.
type flagKey uint64

var (
	// IsReactiveFlag is the probe key: Get(IsReactiveFlag) on a proxy reports
	// true without tracking.
	IsReactiveFlag = flagKey(xxhash.Sum64String("__v_isReactive"))

	iterateKey = flagKey(xxhash.Sum64String("__v_iterate"))
	lengthKey  = flagKey(xxhash.Sum64String("__v_length"))
)
