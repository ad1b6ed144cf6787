// Package validate enforces the per-day capacity ceiling and checks
// decoded cell entries against the shot registry before any write is
// issued.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/crewgrid/internal/app/grid/cells"
	"github.com/dalemusser/crewgrid/internal/app/grid/codec"
)

// capacityEpsilon tolerates float noise from even splits (3 × 1/3) so
// that legitimate full days are not rejected as 1.0000000000000002.
const capacityEpsilon = 1e-9

// Registry is the external work-item registry consulted for every shot
// name in a cell write. The shots store is the production implementation.
type Registry interface {
	// LookupShot resolves a shot name to its owning show. ok is false
	// when the registry has no such shot; err is reserved for lookup
	// failures (the caller must abort, not treat the name as unknown).
	LookupShot(ctx context.Context, name string) (showName string, ok bool, err error)
}

// OverCapacityError reports a cell whose work weights sum past the
// one-man-day ceiling. Nothing is written when this is returned.
type OverCapacityError struct {
	Total float64
}

func (e *OverCapacityError) Error() string {
	return fmt.Sprintf("allocations total %.4g man-days, exceeding the 1.0 per-day limit", e.Total)
}

// UnknownShotsError carries the shot names the registry rejected. The
// caller chooses: proceed with the valid subset, or abort and register
// the missing shots first. There is no silent auto-creation.
type UnknownShotsError struct {
	Names []string
}

func (e *UnknownShotsError) Error() string {
	return "unknown shots: " + strings.Join(e.Names, ", ")
}

// ValidEntry is a registry-approved entry with its derived show name.
type ValidEntry struct {
	codec.Entry
	ShowName string
}

// CheckCapacity rejects entry lists whose summed weight exceeds 1.0 MD.
// It is called before the registry lookup so capacity violations are
// reported synchronously with no external calls made.
func CheckCapacity(entries []codec.Entry) error {
	total := codec.Total(entries)
	if total > cells.FullDay+capacityEpsilon {
		return &OverCapacityError{Total: total}
	}
	return nil
}

// Entries checks every entry's shot name against the registry. It
// returns the approved entries (with show names filled in) and, when
// any names were unknown, an *UnknownShotsError alongside them so the
// caller can offer the partial-accept choice.
func Entries(ctx context.Context, reg Registry, entries []codec.Entry) ([]ValidEntry, error) {
	var (
		valid   []ValidEntry
		unknown []string
	)
	for _, e := range entries {
		show, ok, err := reg.LookupShot(ctx, e.Shot)
		if err != nil {
			return nil, fmt.Errorf("shot registry lookup %q: %w", e.Shot, err)
		}
		if !ok {
			unknown = append(unknown, e.Shot)
			continue
		}
		valid = append(valid, ValidEntry{Entry: e, ShowName: show})
	}
	if len(unknown) > 0 {
		return valid, &UnknownShotsError{Names: unknown}
	}
	return valid, nil
}
