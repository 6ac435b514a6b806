package layout

import "github.com/tangleguard/layered/pkg/errors"

// Direction controls the axis along which ranks are stacked.
type Direction int

const (
	// TopToBottom places rank 0 at the top; y grows with rank.
	TopToBottom Direction = iota
	// LeftToRight places rank 0 at the left; x grows with rank.
	// The pipeline always computes in top-to-bottom coordinates and swaps
	// the axes at emission time.
	LeftToRight
)

// String returns the direction name used in serialized layouts and config files.
func (d Direction) String() string {
	if d == LeftToRight {
		return "left-to-right"
	}
	return "top-to-bottom"
}

// Heuristic selects the positional weight used during crossing reduction.
type Heuristic int

const (
	// Median orders each rank by the weighted median of fixed-rank neighbor
	// positions (Gansner-style, left-biased for even neighbor counts).
	Median Heuristic = iota
	// Barycenter orders each rank by the mean of fixed-rank neighbor positions.
	Barycenter
)

// String returns the heuristic name used in serialized layouts and config files.
func (h Heuristic) String() string {
	if h == Barycenter {
		return "barycenter"
	}
	return "median"
}

// Default option values applied by Compute when the corresponding
// Options field is zero.
const (
	DefaultNodeSeparation = 50.0
	DefaultRankSeparation = 80.0
	DefaultMaxSweeps      = 24
)

// Options configures a layout computation. The zero value is usable:
// zero separations and sweep cap are replaced by the package defaults,
// and the zero Direction and Heuristic are TopToBottom and Median.
type Options struct {
	// Direction selects the rank axis. TopToBottom (default) or LeftToRight.
	Direction Direction

	// NodeSeparation is the minimum gap, in layout units, between adjacent
	// vertices within a rank. Defaults to DefaultNodeSeparation.
	NodeSeparation float64

	// RankSeparation is the gap, in layout units, between consecutive ranks.
	// Defaults to DefaultRankSeparation.
	RankSeparation float64

	// MaxSweeps caps the number of crossing-reduction sweeps.
	// Defaults to DefaultMaxSweeps.
	MaxSweeps int

	// Heuristic selects the ordering weight function. Median (default)
	// or Barycenter.
	Heuristic Heuristic
}

// withDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) withDefaults() Options {
	if o.NodeSeparation == 0 {
		o.NodeSeparation = DefaultNodeSeparation
	}
	if o.RankSeparation == 0 {
		o.RankSeparation = DefaultRankSeparation
	}
	if o.MaxSweeps == 0 {
		o.MaxSweeps = DefaultMaxSweeps
	}
	return o
}

// validate checks option values after defaults have been applied.
func (o Options) validate() error {
	if o.Direction != TopToBottom && o.Direction != LeftToRight {
		return errors.New(errors.ErrCodeInvalidOption, "unknown direction %d", int(o.Direction))
	}
	if o.Heuristic != Median && o.Heuristic != Barycenter {
		return errors.New(errors.ErrCodeInvalidOption, "unknown crossing heuristic %d", int(o.Heuristic))
	}
	if o.NodeSeparation <= 0 {
		return errors.New(errors.ErrCodeInvalidOption, "node separation must be positive, got %v", o.NodeSeparation)
	}
	if o.RankSeparation <= 0 {
		return errors.New(errors.ErrCodeInvalidOption, "rank separation must be positive, got %v", o.RankSeparation)
	}
	if o.MaxSweeps < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "max sweeps must not be negative, got %d", o.MaxSweeps)
	}
	return nil
}

// ParseDirection converts a config or flag value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "top-to-bottom", "tb":
		return TopToBottom, nil
	case "left-to-right", "lr":
		return LeftToRight, nil
	}
	return TopToBottom, errors.New(errors.ErrCodeInvalidOption, "unknown direction %q (must be top-to-bottom or left-to-right)", s)
}

// ParseHeuristic converts a config or flag value to a Heuristic.
func ParseHeuristic(s string) (Heuristic, error) {
	switch s {
	case "", "median":
		return Median, nil
	case "barycenter":
		return Barycenter, nil
	}
	return Median, errors.New(errors.ErrCodeInvalidOption, "unknown crossing heuristic %q (must be median or barycenter)", s)
}
