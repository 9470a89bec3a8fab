package frame

import (
	"fmt"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

// AppendOption adjusts append behavior.
type AppendOption func(*appendOptions)

type appendOptions struct {
	ignoreMetaConflict bool
}

// IgnoreMetaConflict suppresses metadata conflicts for shared entities by
// preferring the receiver's values.
func IgnoreMetaConflict() AppendOption {
	return func(o *appendOptions) { o.ignoreMetaConflict = true }
}

// Append unions two frames' data and metadata into a new frame. Rows that
// collide on (full index, time) fail with a conflict error, so appending a
// frame to itself always fails. Metadata rows unique
// to either side pass through; shared entities must agree on every shared
// metadata cell unless IgnoreMetaConflict is given. The appended frame's
// metadata is deep-copied, so later edits to either frame stay isolated.
func (f *Frame) Append(other *Frame, opts ...AppendOption) (*Frame, error) {
	o := appendOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if other == nil {
		return nil, fmt.Errorf("%w: cannot append a nil frame", apperrors.ErrInvalidArgument)
	}
	if other.axis != f.axis {
		return nil, fmt.Errorf("%w: cannot append a %s frame to a %s frame",
			apperrors.ErrInvalidArgument, other.axis, f.axis)
	}

	seen := make(map[rowKey]struct{}, len(f.data))
	for _, d := range f.data {
		seen[keyOf(d)] = struct{}{}
	}

	union := make([]models.Datapoint, len(f.data), len(f.data)+len(other.data))
	copy(union, f.data)
	for _, d := range other.data {
		if _, dup := seen[keyOf(d)]; dup {
			return nil, fmt.Errorf(
				"%w: append would duplicate row %s/%s %s %s [%s] at %v",
				apperrors.ErrConflict, d.Model, d.Scenario, d.Region, d.Variable, d.Unit, d.Time)
		}
		union = append(union, d)
	}

	mergedMeta, err := f.meta.Merge(other.meta, o.ignoreMetaConflict)
	if err != nil {
		return nil, err
	}

	out := f.derive(union, mergedMeta)
	f.logger.Debug("frames appended", f.zapID(), f.zapChild(out), f.zapRows(len(union)))
	return out, nil
}
