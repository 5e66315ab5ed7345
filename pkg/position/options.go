package position

import (
	"io"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/platform"
)

const (
	// DefaultPlacement is used when Options.Placement is empty.
	DefaultPlacement = geom.PlacementBottom

	// DefaultStrategy is used when Options.Strategy is empty.
	DefaultStrategy = platform.StrategyAbsolute

	// DefaultMaxResets bounds the number of pipeline restarts per call.
	DefaultMaxResets = 50
)

// Options configures a single Compute call.
type Options struct {
	Placement  geom.Placement
	Strategy   platform.Strategy
	Middleware []Middleware

	// MaxResets caps the number of resets. Zero means DefaultMaxResets.
	MaxResets int

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// SetDefaults fills in zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Placement == "" {
		o.Placement = DefaultPlacement
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.MaxResets == 0 {
		o.MaxResets = DefaultMaxResets
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults, then rejects configuration
// faults: unknown placement or strategy, a negative reset bound, nil or
// duplicate stages, stage-level validation errors and exclusive stages
// sharing one pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()

	if !o.Placement.Valid() {
		return errors.New(errors.ErrCodeInvalidPlacement, "invalid placement %q", o.Placement)
	}
	if _, err := platform.ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if o.MaxResets < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max resets must not be negative (got %d)", o.MaxResets)
	}

	names := make(map[string]bool, len(o.Middleware))
	for i, m := range o.Middleware {
		if isNil(m) {
			return errors.New(errors.ErrCodeInvalidConfig, "middleware %d is nil", i)
		}
		name := m.Name()
		if err := errors.ValidateName("middleware", name); err != nil {
			return err
		}
		if names[name] {
			return errors.New(errors.ErrCodeInvalidConfig, "middleware %q appears more than once", name)
		}
		names[name] = true

		if v, ok := m.(Validator); ok {
			if err := v.Validate(); err != nil {
				return errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidConfig), err, "middleware %q", name)
			}
		}
	}

	for _, m := range o.Middleware {
		ex, ok := m.(Exclusive)
		if !ok {
			continue
		}
		for _, other := range ex.Excludes() {
			if names[other] {
				return errors.New(errors.ErrCodeInvalidConfig, "middleware %q cannot be combined with %q", m.Name(), other)
			}
		}
	}
	return nil
}

// isNil also catches typed nils such as a (*T)(nil) stage, whose methods
// would dereference it.
func isNil(m Middleware) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
