package imaging

import (
	"context"
	"fmt"
	"image"
	"image/color"

	apperrors "github.com/leeforge/iconkit/errors"
)

// ProcessingStep is one transform in a ProcessingPipeline.
type ProcessingStep interface {
	Name() string
	Process(ctx context.Context, img *image.NRGBA) (*image.NRGBA, error)
}

// ProcessingPipeline runs steps in order over a single buffer.
type ProcessingPipeline struct {
	steps []ProcessingStep
}

// NormalizeStep re-normalises its input to a fresh RGBA buffer at (0,0).
type NormalizeStep struct{}

// CompositeStep flattens the image onto Background.
type CompositeStep struct {
	Background color.NRGBA
}

// PadStep centres the image on a transparent canvas scaled by Ratio.
type PadStep struct {
	Ratio float64
}

// NewProcessingPipeline creates a pipeline that always starts with a
// NormalizeStep.
func NewProcessingPipeline(steps ...ProcessingStep) *ProcessingPipeline {
	all := make([]ProcessingStep, 0, len(steps)+1)
	all = append(all, NormalizeStep{})
	all = append(all, steps...)
	return &ProcessingPipeline{steps: all}
}

// Steps returns the step names in execution order.
func (p *ProcessingPipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Process runs every step, stopping at the first error or when ctx is done.
func (p *ProcessingPipeline) Process(ctx context.Context, input image.Image) (*image.NRGBA, error) {
	img := asNormalized(input)
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewCanceled(err)
		}
		var err error
		img, err = step.Process(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}
	}
	return img, nil
}

func (NormalizeStep) Name() string { return "normalize" }

func (NormalizeStep) Process(_ context.Context, img *image.NRGBA) (*image.NRGBA, error) {
	return Normalize(img), nil
}

func (CompositeStep) Name() string { return "composite" }

func (s CompositeStep) Process(_ context.Context, img *image.NRGBA) (*image.NRGBA, error) {
	return Composite(img, s.Background), nil
}

func (PadStep) Name() string { return "pad" }

func (s PadStep) Process(_ context.Context, img *image.NRGBA) (*image.NRGBA, error) {
	return Pad(img, s.Ratio)
}
