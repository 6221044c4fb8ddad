package resolve

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"imgdim/localfs"
	"imgdim/resolve/mocks"
)

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestRasterProbe_LocalFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pub", "media", "a.png"), pngData(t, 120, 80))

	ctrl := gomock.NewController(t)
	sizer := mocks.NewMockRemoteSizer(ctrl)

	pc := PathContext{RootPath: root, BaseURL: "https://x.test/", ScriptFilename: "index.php"}
	d, err := NewRasterProbe(localfs.New(), sizer).Probe(context.Background(), "https://x.test/index.php/media/a.png", pc)
	require.NoError(t, err)
	assert.Equal(t, Dimensions{120, 80}, d)
}

func TestRasterProbe_LocalFileUnusable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty.png"), nil)
	writeFile(t, filepath.Join(root, "broken.png"), []byte("not an image at all"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.png"), 0755))

	for _, name := range []string{"empty.png", "broken.png", "dir.png"} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// no calls expected - remote is never consulted for existing paths
			sizer := mocks.NewMockRemoteSizer(ctrl)

			_, err := NewRasterProbe(localfs.New(), sizer).Probe(context.Background(), filepath.Join(root, name), PathContext{})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRasterProbe_ZeroSizeIgnoresRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	sizer := mocks.NewMockRemoteSizer(ctrl)

	ref := "https://x.test/media/a.png"
	local := "/app/pub/media/a.png"

	fs.EXPECT().Exists(local).Return(true)
	fs.EXPECT().IsDir(local).Return(false)
	fs.EXPECT().IsReadable(local).Return(true)
	fs.EXPECT().Size(local).Return(int64(0))
	sizer.EXPECT().SizeOf(gomock.Any(), gomock.Any()).Times(0)

	pc := PathContext{RootPath: "/app/", BaseURL: "https://x.test/", UseRewrites: true}
	_, err := NewRasterProbe(fs, sizer).Probe(context.Background(), ref, pc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRasterProbe_UnreadableNotOpened(t *testing.T) {
	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	sizer := mocks.NewMockRemoteSizer(ctrl)

	fs.EXPECT().Exists("/app/a.png").Return(true)
	fs.EXPECT().IsDir("/app/a.png").Return(false)
	fs.EXPECT().IsReadable("/app/a.png").Return(false)

	_, err := NewRasterProbe(fs, sizer).Probe(context.Background(), "/app/a.png", PathContext{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRasterProbe_OpenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	sizer := mocks.NewMockRemoteSizer(ctrl)

	fs.EXPECT().Exists("/app/a.png").Return(true)
	fs.EXPECT().IsDir("/app/a.png").Return(false)
	fs.EXPECT().IsReadable("/app/a.png").Return(true)
	fs.EXPECT().Size("/app/a.png").Return(int64(10))
	fs.EXPECT().Open("/app/a.png").Return(nil, errors.New("too many open files"))

	_, err := NewRasterProbe(fs, sizer).Probe(context.Background(), "/app/a.png", PathContext{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRasterProbe_ReadsHeaderOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	sizer := mocks.NewMockRemoteSizer(ctrl)

	data := pngData(t, 640, 480)
	r := &countingReader{r: bytes.NewReader(append(data, make([]byte, 1<<20)...))}

	fs.EXPECT().Exists("/app/big.png").Return(true)
	fs.EXPECT().IsDir("/app/big.png").Return(false)
	fs.EXPECT().IsReadable("/app/big.png").Return(true)
	fs.EXPECT().Size("/app/big.png").Return(int64(len(data) + 1<<20))
	fs.EXPECT().Open("/app/big.png").Return(io.NopCloser(r), nil)

	d, err := NewRasterProbe(fs, sizer).Probe(context.Background(), "/app/big.png", PathContext{})
	require.NoError(t, err)
	assert.Equal(t, Dimensions{640, 480}, d)
	assert.Less(t, r.n, 4096)
}

func TestRasterProbe_Remote(t *testing.T) {
	ref := "https://cdn.example.com/a.jpg"

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fs := mocks.NewMockFileSystem(ctrl)
		sizer := mocks.NewMockRemoteSizer(ctrl)

		fs.EXPECT().Exists(ref).Return(false)
		sizer.EXPECT().SizeOf(gomock.Any(), ref).Return(800, 600, nil)

		d, err := NewRasterProbe(fs, sizer).Probe(context.Background(), ref, PathContext{RootPath: "/app/", BaseURL: "https://x.test/"})
		require.NoError(t, err)
		assert.Equal(t, Dimensions{800, 600}, d)
	})

	t.Run("failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fs := mocks.NewMockFileSystem(ctrl)
		sizer := mocks.NewMockRemoteSizer(ctrl)

		cause := errors.New("unexpected status 404")
		fs.EXPECT().Exists(ref).Return(false)
		sizer.EXPECT().SizeOf(gomock.Any(), ref).Return(0, 0, cause)

		_, err := NewRasterProbe(fs, sizer).Probe(context.Background(), ref, PathContext{RootPath: "/app/", BaseURL: "https://x.test/"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, cause)
	})
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
