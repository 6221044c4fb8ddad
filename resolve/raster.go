package resolve

import (
	"context"

	"imgdim/utils/images"
)

// RasterProbe sizes non vector images. Local files are inspected directly,
// anything not found locally is sized remotely.
type RasterProbe struct {
	fs    FileSystem
	sizer RemoteSizer
}

func NewRasterProbe(fs FileSystem, sizer RemoteSizer) *RasterProbe {
	return &RasterProbe{fs: fs, sizer: sizer}
}

// Probe returns dimensions of raster image referenced by ref. Errors always
// wrap ErrNotFound.
func (p *RasterProbe) Probe(ctx context.Context, ref string, paths PathResolver) (Dimensions, error) {
	local := paths.LocalPath(ref)

	if !p.fs.Exists(local) {
		w, h, err := p.sizer.SizeOf(ctx, ref)
		if err != nil {
			return Dimensions{}, notFound("remote size of %q: %w", ref, err)
		}
		return Dimensions{Width: float64(w), Height: float64(h)}, nil
	}

	// Local file which cannot be used is final, remote is not consulted.
	switch {
	case p.fs.IsDir(local):
		return Dimensions{}, notFound("%q is a directory", local)
	case !p.fs.IsReadable(local):
		return Dimensions{}, notFound("%q is not readable", local)
	case p.fs.Size(local) == 0:
		return Dimensions{}, notFound("%q is empty", local)
	}

	f, err := p.fs.Open(local)
	if err != nil {
		return Dimensions{}, notFound("%w", err)
	}
	defer f.Close()

	size, err := images.DecodeSize(f)
	if err != nil {
		return Dimensions{}, notFound("%q: %w", local, err)
	}
	return Dimensions{Width: float64(size.Width), Height: float64(size.Height)}, nil
}
