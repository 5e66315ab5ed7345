package scene

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchor/pkg/cache"
	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/observability"
	"github.com/matzehuels/anchor/pkg/position"
)

// Resolve computes the floating element's position for a scene.
func Resolve(ctx context.Context, sc *Scene, logger *log.Logger) (*position.Result, error) {
	opts, err := sc.Options(logger)
	if err != nil {
		return nil, err
	}
	return position.Compute(ctx, NewPlatform(sc), ElementReference, ElementFloating, opts)
}

// Resolver resolves scenes and sweeps through a result cache. A zero
// Resolver computes without caching.
type Resolver struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewResolver returns a resolver backed by c. A nil cache disables caching.
func NewResolver(c cache.Cache, ttl time.Duration, logger *log.Logger) *Resolver {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{Cache: c, Keyer: cache.NewDefaultKeyer(), TTL: ttl, Logger: logger}
}

// Resolve returns the scene's result and whether it came from the cache.
func (r *Resolver) Resolve(ctx context.Context, sc *Scene) (*position.Result, bool, error) {
	key, err := r.key(sc, func(hash string) string { return r.keyer().ResultKey(hash) })
	if err != nil {
		return nil, false, err
	}

	var res position.Result
	if r.load(ctx, "result", key, &res) {
		return &res, true, nil
	}

	out, err := Resolve(ctx, sc, r.Logger)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, "result", key, out)
	return out, false, nil
}

// Sweep returns the scene's sweep and whether it came from the cache.
func (r *Resolver) Sweep(ctx context.Context, sc *Scene, opts SweepOptions) (*SweepResult, bool, error) {
	opts.SetDefaults()
	key, err := r.key(sc, func(hash string) string {
		return r.keyer().SweepKey(hash, cache.SweepKeyOpts{
			Axis: string(opts.Axis),
			Step: opts.Step,
			From: opts.From,
			To:   opts.To,
		})
	})
	if err != nil {
		return nil, false, err
	}

	var res SweepResult
	if r.load(ctx, "sweep", key, &res) {
		return &res, true, nil
	}

	out, err := Sweep(ctx, sc, opts, r.Logger)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, "sweep", key, out)
	return out, false, nil
}

func (r *Resolver) keyer() cache.Keyer {
	if r.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return r.Keyer
}

func (r *Resolver) key(sc *Scene, derive func(hash string) string) (string, error) {
	data, err := json.Marshal(sc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidScene, err, "hash scene")
	}
	return derive(cache.Hash(data)), nil
}

// load reports a hit only when the entry decodes; read errors count as
// misses so a broken cache never fails a request.
func (r *Resolver) load(ctx context.Context, kind, key string, dst any) bool {
	if r.Cache == nil {
		return false
	}
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.logger().Warn("cache read failed", "kind", kind, "err", err)
	}
	if err != nil || !ok || json.Unmarshal(data, dst) != nil {
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return true
}

func (r *Resolver) store(ctx context.Context, kind, key string, v any) {
	if r.Cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		r.logger().Warn("cache encode failed", "kind", kind, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.logger().Warn("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}
