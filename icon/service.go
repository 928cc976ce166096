// Package icon runs the composite and pad operations against a storage
// source and sink. Operations never print or exit; they return typed errors
// from the errors package and leave process status to the caller.
package icon

import (
	"bytes"
	"context"
	"image"
	"time"

	apperrors "github.com/leeforge/iconkit/errors"
	"github.com/leeforge/iconkit/imaging"
	"github.com/leeforge/iconkit/logging"
	"github.com/leeforge/iconkit/storage"
	"go.uber.org/zap"
)

// CompositeJob flattens Input onto Background and writes Output.
type CompositeJob struct {
	Input      string
	Output     string
	Background string
}

// PadJob centres Input on a transparent canvas and writes Output.
type PadJob struct {
	Input  string
	Output string
	Ratio  float64
}

// Result describes a written output.
type Result struct {
	Output string
	Width  int
	Height int
	Bytes  int64
}

// ImageInfo is the header information of an input file.
type ImageInfo struct {
	Path   string
	Width  int
	Height int
	Format string
}

// Service performs operations against a Source and a Sink.
type Service struct {
	source storage.Source
	sink   storage.Sink
	logger logging.Logger
}

// NewService creates a Service. A nil logger discards log output.
func NewService(source storage.Source, sink storage.Sink, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		source: source,
		sink:   sink,
		logger: logger.Named("icon"),
	}
}

// Composite reads the foreground, flattens it onto the background colour and
// saves the PNG. A missing input yields not_found and nothing is written.
func (s *Service) Composite(ctx context.Context, job CompositeJob) (Result, error) {
	ctx = logging.ContextWithOperation(ctx, "composite")
	log := logging.FromContext(ctx, s.logger)

	bg, err := imaging.ParseColor(job.Background)
	if err != nil {
		return Result{}, apperrors.NewInvalid("background", job.Background, err.Error())
	}

	pipeline := imaging.NewProcessingPipeline(imaging.CompositeStep{Background: bg})
	return s.run(ctx, log, job.Input, job.Output, pipeline, nil, zap.String("background", imaging.FormatColor(bg)))
}

// Pad reads the input, centres it on a transparent canvas scaled by the
// ratio and saves the PNG. The ratio is checked before the input is opened.
func (s *Service) Pad(ctx context.Context, job PadJob) (Result, error) {
	ctx = logging.ContextWithOperation(ctx, "pad")
	log := logging.FromContext(ctx, s.logger)

	if err := imaging.ValidateRatio(job.Ratio); err != nil {
		return Result{}, err
	}

	pipeline := imaging.NewProcessingPipeline(imaging.PadStep{Ratio: job.Ratio})
	geometry := func(src *image.NRGBA) []zap.Field {
		b := src.Bounds()
		g, err := imaging.Geometry(b.Dx(), b.Dy(), job.Ratio)
		if err != nil {
			return nil
		}
		return []zap.Field{logging.Size("canvas", g.Canvas), logging.Offset(g.Offset)}
	}
	return s.run(ctx, log, job.Input, job.Output, pipeline, geometry, logging.Ratio(job.Ratio))
}

// Inspect reports the size and format of an input without decoding pixels.
func (s *Service) Inspect(ctx context.Context, path string) (ImageInfo, error) {
	rc, err := s.source.Open(ctx, path)
	if err != nil {
		return ImageInfo{}, err
	}
	defer rc.Close()

	w, h, format, err := imaging.Info(rc, path)
	if err != nil {
		return ImageInfo{}, err
	}
	return ImageInfo{Path: path, Width: w, Height: h, Format: format}, nil
}

// run loads input, processes it and saves output. describe, when set, adds
// fields derived from the decoded source to the decode log entry.
func (s *Service) run(ctx context.Context, log logging.Logger, input, output string, pipeline *imaging.ProcessingPipeline, describe func(*image.NRGBA) []zap.Field, fields ...zap.Field) (Result, error) {
	start := time.Now()
	log = log.With(fields...)

	src, err := s.load(ctx, input)
	if err != nil {
		log.Debug("load failed", logging.Path("input", input), zap.Error(err))
		return Result{}, err
	}
	decoded := []zap.Field{logging.Path("input", input), logging.Size("size", src.Bounds())}
	if describe != nil {
		decoded = append(decoded, describe(src)...)
	}
	log.Debug("decoded input", decoded...)

	out, err := pipeline.Process(ctx, src)
	if err != nil {
		return Result{}, err
	}

	// Encode fully before touching the output so a failure leaves it alone.
	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, out, output); err != nil {
		return Result{}, err
	}

	n, err := s.sink.Save(ctx, output, &buf)
	if err != nil {
		return Result{}, err
	}

	log.Info("image written",
		logging.Path("input", input),
		logging.Path("output", output),
		logging.Size("size", out.Bounds()),
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)),
	)

	return Result{
		Output: output,
		Width:  out.Bounds().Dx(),
		Height: out.Bounds().Dy(),
		Bytes:  n,
	}, nil
}

func (s *Service) load(ctx context.Context, path string) (*image.NRGBA, error) {
	rc, err := s.source.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := imaging.Decode(rc, path)
	return img, err
}
