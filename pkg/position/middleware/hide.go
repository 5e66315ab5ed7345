package middleware

import (
	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/overflow"
	"github.com/matzehuels/anchor/pkg/position"
)

// HideStrategy selects what Hide checks.
type HideStrategy string

const (
	// HideReferenceHidden reports when the reference is fully clipped.
	HideReferenceHidden HideStrategy = "referenceHidden"
	// HideEscaped reports when the floating element has left the
	// reference's clipping region.
	HideEscaped HideStrategy = "escaped"
)

// HideOptions configures the Hide stage.
type HideOptions struct {
	// Strategy defaults to HideReferenceHidden.
	Strategy HideStrategy

	position.OverflowOptions
}

// HideData is stored under HideName. Only the fields for the configured
// strategy are set.
type HideData struct {
	ReferenceHidden        bool           `json:"referenceHidden,omitempty"`
	ReferenceHiddenOffsets *geom.Overflow `json:"referenceHiddenOffsets,omitempty"`
	Escaped                bool           `json:"escaped,omitempty"`
	EscapedOffsets         *geom.Overflow `json:"escapedOffsets,omitempty"`
}

type hideStage struct {
	opts HideOptions
}

// Hide reports visibility of the reference or the floating element. It never
// moves anything.
func Hide(opts HideOptions) position.Middleware {
	return hideStage{opts: opts}
}

func (h hideStage) Name() string { return HideName }

func (h hideStage) Validate() error {
	switch h.opts.Strategy {
	case "", HideReferenceHidden, HideEscaped:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown hide strategy %q", h.opts.Strategy)
	}
	return h.opts.Padding.ValidatePadding("padding")
}

func (h hideStage) Run(s position.State) (position.Return, error) {
	opts := h.opts.OverflowOptions

	if h.opts.Strategy == HideEscaped {
		opts.AltBoundary = true
		o, err := position.DetectOverflow(s, opts)
		if err != nil {
			return position.Return{}, err
		}
		offsets := sideOffsets(o, s.Rects.Floating.Size())
		return position.Return{Data: HideData{
			Escaped:        overflow.Hidden(o, s.Rects.Floating.Size()),
			EscapedOffsets: &offsets,
		}}, nil
	}

	opts.ElementContext = position.ContextReference
	o, err := position.DetectOverflow(s, opts)
	if err != nil {
		return position.Return{}, err
	}
	offsets := sideOffsets(o, s.Rects.Reference.Size())
	return position.Return{Data: HideData{
		ReferenceHidden:        overflow.Hidden(o, s.Rects.Reference.Size()),
		ReferenceHiddenOffsets: &offsets,
	}}, nil
}

// sideOffsets turns overflow into the distance left before each side is
// fully clipped; non-negative means hidden from that side.
func sideOffsets(o geom.Overflow, s geom.Size) geom.Overflow {
	return geom.Overflow{
		Top:    o.Top - s.Height,
		Right:  o.Right - s.Width,
		Bottom: o.Bottom - s.Height,
		Left:   o.Left - s.Width,
	}
}
