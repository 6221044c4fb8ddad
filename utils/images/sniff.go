package images

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// sniffLen is the largest header filetype needs to match any known type.
const sniffLen = 262

// ErrUnsupported is returned when header does not belong to a raster format
// we know how to size.
var ErrUnsupported = errors.New("unsupported image format")

// Extensions reported by filetype for formats with registered config decoders.
var sizeable = map[string]bool{
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
	"tif":  true,
}

// Size is pixel size of raster image as found in its header.
type Size struct {
	Width  int
	Height int
	Format string
}

// DecodeSize reads image header from r and returns image pixel size. Image
// data is never decoded - reading stops as soon as the frame header is
// reached, so r may be a stream limited to the first bytes of the image.
func DecodeSize(r io.Reader) (Size, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if len(head) == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Size{}, fmt.Errorf("unable to read image header: %w", err)
	}

	kind, err := filetype.Match(head)
	if err != nil {
		return Size{}, fmt.Errorf("unable to detect image type: %w", err)
	}
	if kind == filetype.Unknown || !sizeable[kind.Extension] {
		return Size{}, fmt.Errorf("%w: %q", ErrUnsupported, kind.MIME.Value)
	}

	cfg, format, err := image.DecodeConfig(br)
	if err != nil {
		return Size{}, fmt.Errorf("unable to decode %s header: %w", kind.Extension, err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
