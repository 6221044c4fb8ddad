package resolve

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Resolver is the entry point of the package: it picks the probe by
// reference suffix and memoizes results. Resolver is safe for concurrent use.
type Resolver struct {
	src    ContextSource
	raster *RasterProbe
	vector *VectorProbe
	cache  *Cache
	log    *zap.Logger
}

type Option func(*Resolver)

// WithLogger sets logger for probe diagnostics, by default nothing is logged.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithCache replaces memo created by New. Cache must not be shared with
// another Resolver.
func WithCache(c *Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// New creates resolver using supplied capabilities. Translation context is
// requested from src on every lookup which is not memoized.
func New(fs FileSystem, sizer RemoteSizer, client HTTPClient, src ContextSource, opts ...Option) *Resolver {
	r := &Resolver{
		src:    src,
		raster: NewRasterProbe(fs, sizer),
		vector: NewVectorProbe(fs, client),
		cache:  NewCache(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dimensions returns image width and height. When dimensions cannot be
// determined (0, 0) is returned. Such results are remembered but not
// trusted, the next call for the same reference probes again.
func (r *Resolver) Dimensions(ctx context.Context, ref string) Dimensions {
	if d, ok := r.cache.Get(ref); ok && !d.IsZero() {
		return d
	}

	pc := r.src.PathContext()

	var (
		d   Dimensions
		err error
	)
	if strings.HasSuffix(ref, ".svg") {
		d, err = r.vector.Probe(ctx, ref, pc)
	} else {
		d, err = r.raster.Probe(ctx, ref, pc)
	}

	switch {
	case err != nil:
		r.log.Debug("Unable to get image dimensions", zap.String("ref", ref), zap.String("path", pc.LocalPath(ref)), zap.Error(err))
		d = Dimensions{}
	case d.IsZero():
		r.log.Debug("Image does not specify its dimensions", zap.String("ref", ref))
	default:
		r.log.Debug("Image dimensions", zap.String("ref", ref), zap.Float64("width", d.Width), zap.Float64("height", d.Height))
	}

	r.cache.Put(ref, d)
	return d
}

func (r *Resolver) Width(ctx context.Context, ref string) float64 {
	return r.Dimensions(ctx, ref).Width
}

func (r *Resolver) Height(ctx context.Context, ref string) float64 {
	return r.Dimensions(ctx, ref).Height
}

// Cache gives access to memoized results, for reporting.
func (r *Resolver) Cache() *Cache {
	return r.cache
}
