package noise

// Engine produces deterministic noise from a seed. All sampling
// methods are pure functions of (seed, coordinate, parameters); the
// optional cache changes performance only, never returned values.
type Engine struct {
	seed  int64
	perm  [512]int
	cache *Cache
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache attaches a memoizing sample cache to the engine.
func WithCache(cfg CacheConfig) Option {
	return func(e *Engine) {
		e.cache = NewCache(cfg)
	}
}

// NewEngine creates a noise engine with a seeded permutation table.
func NewEngine(seed int64, opts ...Option) *Engine {
	e := &Engine{seed: seed}

	// Identity permutation, then Fisher-Yates with a seed-derived LCG.
	var p [256]int
	for i := range p {
		p[i] = i
	}
	s := seed
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s>>33)&0x7FFFFFFF) % (i + 1)
		if j < 0 {
			j = -j
		}
		p[i], p[j] = p[j], p[i]
	}

	// Double the table for wrap-free indexing.
	for i := 0; i < 512; i++ {
		e.perm[i] = p[i&255]
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Seed returns the seed the engine was built from.
func (e *Engine) Seed() int64 {
	return e.seed
}

// Cache returns the attached cache, or nil when caching is disabled.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// cached wraps a sample computation with the memoizing cache.
func (e *Engine) cached(tag uint8, x, y, z, w float64, compute func() float64) float64 {
	if e.cache == nil {
		return compute()
	}
	key := e.cache.keyFor(tag, x, y, z, w)
	if v, ok := e.cache.Get(key); ok {
		return v
	}
	v := compute()
	e.cache.Put(key, v)
	return v
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}
