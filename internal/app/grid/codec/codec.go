// Package codec converts between the compact textual cell grammar and a
// structured list of (shot, weight) entries.
//
// The grammar is what coordinators type directly into a grid cell:
//
//	"shotA"             one shot, full day
//	"shotA/shotB"       even split, half a day each
//	"shotA:0.25/shotB:0.75"  explicit weights
//
// A single ':' anywhere switches the whole value into explicit form.
package codec

import (
	"strconv"
	"strings"

	"github.com/dalemusser/crewgrid/internal/domain/models"
)

// Entry is one decoded (shot, weight) pair.
type Entry struct {
	Shot   string
	Weight float64
}

// weightEpsilon absorbs float noise when deciding whether weights are an
// exact even split (e.g. three entries at 0.3333...).
const weightEpsilon = 1e-9

// Decode parses a cell value into entries.
//
// Segments are split on '/' and trimmed. If any segment contains ':',
// every segment is read as name:weight; a bare name defaults to 1.0 and
// a segment whose weight is missing or does not parse is dropped. With
// no ':' present the day is divided evenly, 1/N per segment. Empty
// input decodes to nil (a cell clear).
//
// The number of dropped malformed segments is returned so callers can
// log the loss; the lenient accept-the-rest behavior itself is
// deliberate, quick entry beats strictness here.
func Decode(value string) ([]Entry, int) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, 0
	}

	raw := strings.Split(value, "/")
	segs := make([]string, 0, len(raw))
	explicit := false
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, ":") {
			explicit = true
		}
		segs = append(segs, s)
	}
	if len(segs) == 0 {
		return nil, 0
	}

	if !explicit {
		share := 1.0 / float64(len(segs))
		out := make([]Entry, 0, len(segs))
		for _, s := range segs {
			out = append(out, Entry{Shot: s, Weight: share})
		}
		return out, 0
	}

	out := make([]Entry, 0, len(segs))
	dropped := 0
	for _, s := range segs {
		name, weightStr, found := strings.Cut(s, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			dropped++
			continue
		}
		if !found {
			out = append(out, Entry{Shot: name, Weight: 1.0})
			continue
		}
		// "shotA:" is not a bare name; its empty weight fails to parse
		// like any other malformed weight.
		w, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, Entry{Shot: name, Weight: w})
	}
	return out, dropped
}

// Encode renders entries back into the cell grammar. When every weight
// equals 1/count the shorthand bare-name form is used; otherwise every
// entry is rendered as name:weight.
//
// Encoding is the inverse of Decode for canonical inputs only: unequal
// weights typed in shorthand form re-encode explicitly, which is an
// accepted loss of the original spelling (not of the data).
func Encode(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	if evenSplit(entries) {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Shot
		}
		return strings.Join(names, "/")
	}

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Shot + ":" + strconv.FormatFloat(e.Weight, 'f', -1, 64)
	}
	return strings.Join(parts, "/")
}

// EncodeAllocations renders a member's allocations for one day as a cell
// value. Leave and idle records are excluded; they are not part of the
// editable grammar.
func EncodeAllocations(allocs []models.Allocation) string {
	entries := make([]Entry, 0, len(allocs))
	for _, a := range allocs {
		if a.Kind != models.AllocationWork {
			continue
		}
		entries = append(entries, Entry{Shot: a.ShotName, Weight: a.Weight})
	}
	return Encode(entries)
}

// Total sums the weights of all entries.
func Total(entries []Entry) float64 {
	var t float64
	for _, e := range entries {
		t += e.Weight
	}
	return t
}

func evenSplit(entries []Entry) bool {
	share := 1.0 / float64(len(entries))
	for _, e := range entries {
		if diff := e.Weight - share; diff > weightEpsilon || diff < -weightEpsilon {
			return false
		}
	}
	return true
}
