package icon

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/leeforge/iconkit/errors"
	"github.com/leeforge/iconkit/imaging"
	"github.com/leeforge/iconkit/logging"
	"github.com/leeforge/iconkit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// countingSource wraps a Source and records Open calls.
type countingSource struct {
	storage.Source
	opens int
}

func (c *countingSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	c.opens++
	return c.Source.Open(ctx, path)
}

// recordingSink records Save calls without touching disk.
type recordingSink struct {
	saved map[string][]byte
}

func (r *recordingSink) Save(_ context.Context, path string, rd io.Reader) (int64, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return 0, err
	}
	if r.saved == nil {
		r.saved = make(map[string][]byte)
	}
	r.saved[path] = data
	return int64(len(data)), nil
}

func (r *recordingSink) Name() string { return "recording" }

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.EncodePNG(&buf, img, path))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func readPNG(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, format, err := imaging.Decode(f, path)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return img
}

func newLocalService(t *testing.T) (*Service, string, *observer.ObservedLogs) {
	t.Helper()
	dir := t.TempDir()
	core, logs := observer.New(zapcore.DebugLevel)
	p := storage.NewLocalProvider(dir)
	return NewService(p, p, logging.FromZap(zap.New(core))), dir, logs
}

func TestCompositeOpaqueRedOverNavy(t *testing.T) {
	svc, dir, logs := newLocalService(t)
	red := color.NRGBA{255, 0, 0, 255}
	writePNG(t, filepath.Join(dir, "fg.png"), imaging.Uniform(100, 100, red))

	res, err := svc.Composite(context.Background(), CompositeJob{
		Input:      "fg.png",
		Output:     "full.png",
		Background: "#001f3f",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.Positive(t, res.Bytes)

	out := readPNG(t, filepath.Join(dir, "full.png"))
	require.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			require.Equal(t, red, out.NRGBAAt(x, y))
		}
	}

	written := logs.FilterMessage("image written").All()
	require.Len(t, written, 1)
	fields := written[0].ContextMap()
	assert.Equal(t, "composite", fields["operation"])
	assert.Equal(t, "full.png", fields["output"])
	assert.Equal(t, "#001f3f", fields["background"])
}

func TestCompositeTransparentInputIsFlattened(t *testing.T) {
	svc, dir, _ := newLocalService(t)
	writePNG(t, filepath.Join(dir, "fg.png"), imaging.Uniform(4, 4, color.NRGBA{}))

	_, err := svc.Composite(context.Background(), CompositeJob{Input: "fg.png", Output: "full.png", Background: "white"})
	require.NoError(t, err)

	out := readPNG(t, filepath.Join(dir, "full.png"))
	for i := 0; i < len(out.Pix); i++ {
		require.Equal(t, uint8(255), out.Pix[i])
	}
}

func TestCompositeMissingInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{}
	svc := NewService(storage.NewLocalProvider(dir), sink, nil)

	_, err := svc.Composite(context.Background(), CompositeJob{
		Input:      "assets/icon/icon_foreground.png",
		Output:     "assets/icon/icon_full.png",
		Background: "#001f3f",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Empty(t, sink.saved)
}

func TestCompositeRejectsBadBackgroundBeforeOpening(t *testing.T) {
	src := &countingSource{Source: storage.NewLocalProvider(t.TempDir())}
	sink := &recordingSink{}
	svc := NewService(src, sink, nil)

	_, err := svc.Composite(context.Background(), CompositeJob{Input: "fg.png", Output: "o.png", Background: "#zzzzzz"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalid))
	assert.Zero(t, src.opens)
	assert.Empty(t, sink.saved)
}

func TestCompositeDecodeFailure(t *testing.T) {
	svc, dir, _ := newLocalService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fg.png"), []byte("not a png"), 0o644))

	_, err := svc.Composite(context.Background(), CompositeJob{Input: "fg.png", Output: "full.png", Background: "#001f3f"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDecodeFailure))

	_, exists, _ := storage.Exists(filepath.Join(dir, "full.png"))
	assert.False(t, exists)
}

func TestPadDoublesCanvasAtHalfRatio(t *testing.T) {
	svc, dir, logs := newLocalService(t)
	src := imaging.Uniform(100, 100, color.NRGBA{10, 20, 30, 200})
	writePNG(t, filepath.Join(dir, "full.png"), src)

	res, err := svc.Pad(context.Background(), PadJob{Input: "full.png", Output: "padded.png", Ratio: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 200, res.Height)

	out := readPNG(t, filepath.Join(dir, "padded.png"))
	require.Equal(t, image.Rect(0, 0, 200, 200), out.Bounds())
	assert.Equal(t, color.NRGBA{10, 20, 30, 200}, out.NRGBAAt(50, 50))
	assert.Equal(t, color.NRGBA{10, 20, 30, 200}, out.NRGBAAt(149, 149))
	assert.Zero(t, out.NRGBAAt(49, 49).A)
	assert.Zero(t, out.NRGBAAt(150, 150).A)

	written := logs.FilterMessage("image written").All()
	require.Len(t, written, 1)
	assert.Equal(t, "pad", written[0].ContextMap()["operation"])
	assert.Equal(t, 0.5, written[0].ContextMap()["ratio"])

	decoded := logs.FilterMessage("decoded input").All()
	require.Len(t, decoded, 1)
	assert.Equal(t, "(50,50)", decoded[0].ContextMap()["offset"])
	assert.Equal(t, "(200,200)", decoded[0].ContextMap()["canvas"])
}

func TestPadDefaultRatioTruncates(t *testing.T) {
	svc, dir, _ := newLocalService(t)
	writePNG(t, filepath.Join(dir, "full.png"), imaging.Uniform(100, 100, color.NRGBA{A: 255}))

	res, err := svc.Pad(context.Background(), PadJob{Input: "full.png", Output: "padded.png", Ratio: imaging.DefaultPadRatio})
	require.NoError(t, err)
	assert.Equal(t, 166, res.Width)
	assert.Equal(t, 166, res.Height)
}

func TestPadInvalidRatioChecksFirst(t *testing.T) {
	src := &countingSource{Source: storage.NewLocalProvider(t.TempDir())}
	sink := &recordingSink{}
	svc := NewService(src, sink, nil)

	_, err := svc.Pad(context.Background(), PadJob{Input: "missing.png", Output: "o.png", Ratio: 0})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalid))
	assert.Zero(t, src.opens)
	assert.Empty(t, sink.saved)
}

func TestPadMissingInput(t *testing.T) {
	svc, _, _ := newLocalService(t)

	_, err := svc.Pad(context.Background(), PadJob{Input: "nope.png", Output: "o.png", Ratio: 0.6})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestPadOutputDirectoryMustExist(t *testing.T) {
	svc, dir, _ := newLocalService(t)
	writePNG(t, filepath.Join(dir, "full.png"), imaging.Uniform(4, 4, color.NRGBA{A: 255}))

	_, err := svc.Pad(context.Background(), PadJob{Input: "full.png", Output: "splash/padded.png", Ratio: 0.6})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeWriteFailure))
}

func TestCompositeThenPadChain(t *testing.T) {
	svc, dir, _ := newLocalService(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets", "icon"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets", "splash"), 0o755))
	writePNG(t, filepath.Join(dir, "assets/icon/icon_foreground.png"), imaging.Uniform(30, 20, color.NRGBA{255, 255, 255, 0}))
	ctx := context.Background()

	_, err := svc.Composite(ctx, CompositeJob{
		Input:      "assets/icon/icon_foreground.png",
		Output:     "assets/icon/icon_full.png",
		Background: imaging.DefaultBackground,
	})
	require.NoError(t, err)

	res, err := svc.Pad(ctx, PadJob{
		Input:  "assets/icon/icon_full.png",
		Output: "assets/splash/icon_foreground_padded.png",
		Ratio:  imaging.DefaultPadRatio,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Width)
	assert.Equal(t, 33, res.Height)

	out := readPNG(t, filepath.Join(dir, "assets/splash/icon_foreground_padded.png"))
	assert.Equal(t, color.NRGBA{0x00, 0x1f, 0x3f, 0xff}, out.NRGBAAt(10, 6))
	assert.Zero(t, out.NRGBAAt(0, 0).A)
}

func TestInspect(t *testing.T) {
	svc, dir, _ := newLocalService(t)
	writePNG(t, filepath.Join(dir, "a.png"), imaging.Uniform(7, 3, color.NRGBA{A: 255}))

	info, err := svc.Inspect(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, ImageInfo{Path: "a.png", Width: 7, Height: 3, Format: "png"}, info)

	_, err = svc.Inspect(context.Background(), "b.png")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
