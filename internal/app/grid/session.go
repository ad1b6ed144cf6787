// Package grid holds the per-browser editing session: the loaded
// member/allocation snapshot for the visible range, the selection and
// clipboard state, and the write pipeline every cell mutation goes
// through.
//
// A Session is deliberately not a cache of truth. Every mutation is a
// delete-then-create against the allocation store followed by a reload
// of the affected snapshot, so a concurrent edit from another session
// becomes visible on the next refresh rather than being merged.
package grid

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/crewgrid/internal/app/grid/cells"
	"github.com/dalemusser/crewgrid/internal/app/grid/clipboard"
	"github.com/dalemusser/crewgrid/internal/app/grid/codec"
	"github.com/dalemusser/crewgrid/internal/app/grid/fill"
	"github.com/dalemusser/crewgrid/internal/app/grid/selection"
	"github.com/dalemusser/crewgrid/internal/app/grid/validate"
	memberstore "github.com/dalemusser/crewgrid/internal/app/store/members"
	"github.com/dalemusser/crewgrid/internal/app/system/notify"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AllocationStore is the slice of the allocation store a session writes
// through.
type AllocationStore interface {
	Create(ctx context.Context, a models.Allocation) (models.Allocation, error)
	DeleteByMemberDay(ctx context.Context, memberID primitive.ObjectID, day time.Time) (int64, error)
	ListByMemberDay(ctx context.Context, memberID primitive.ObjectID, day time.Time) ([]models.Allocation, error)
	ListRange(ctx context.Context, start time.Time, days int, memberIDs []primitive.ObjectID) ([]models.Allocation, error)
}

// MemberSource provides the filtered member rows.
type MemberSource interface {
	List(ctx context.Context, f memberstore.Filter) ([]models.Member, error)
}

// ErrNothingToPaste is returned when paste is invoked and the clipboard
// does not hold exactly one value.
var ErrNothingToPaste = errors.New("clipboard does not hold a single value to broadcast")

// ErrOutOfRange is returned for cell coordinates outside the loaded
// snapshot.
var ErrOutOfRange = errors.New("cell is outside the visible grid")

// Row is one rendered grid row: a member plus the derived utilization
// over the visible range.
type Row struct {
	Member  models.Member
	Average float64
	Bucket  string
}

// CellFailure records one cell a multi-cell write could not apply to.
type CellFailure struct {
	Cell selection.Cell
	Err  error
}

// Session is one coordinator's live grid. All methods are safe for
// concurrent use; the session serializes its own operations.
type Session struct {
	mu sync.Mutex

	store    AllocationStore
	members  MemberSource
	registry validate.Registry
	hub      *notify.Hub
	log      *zap.Logger

	filter models.ViewFilter

	// workingWeekends holds the weekend day-keys the coordinator has
	// flagged as working for this session.
	workingWeekends map[time.Time]struct{}

	sel  *selection.Model
	clip *clipboard.Clipboard

	rows   []Row
	allocs []models.Allocation
}

func NewSession(store AllocationStore, members MemberSource, registry validate.Registry, hub *notify.Hub, logger *zap.Logger) *Session {
	return &Session{
		store:           store,
		members:         members,
		registry:        registry,
		hub:             hub,
		log:             logger,
		workingWeekends: make(map[time.Time]struct{}),
		sel:             selection.New(),
		clip:            clipboard.New(),
		filter: models.ViewFilter{
			RangeStart: models.DayKey(time.Now()),
			RangeDays:  14,
		},
	}
}

// SetFilter replaces the whole filter tuple and clears the selection;
// coordinates from the old layout would point at different cells. The
// caller must Refresh afterwards.
func (s *Session) SetFilter(f models.ViewFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.RangeDays <= 0 {
		f.RangeDays = 14
	}
	f.RangeStart = models.DayKey(f.RangeStart)
	s.filter = f
	s.sel.Clear()
}

func (s *Session) Filter() models.ViewFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Refresh reloads the member rows and the allocation snapshot for the
// current filter and range. Show and utilization filtering happen here,
// after load, because both depend on the loaded allocations.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	members, err := s.members.List(ctx, memberstore.Filter{
		Department: s.filter.Department,
		Shift:      s.filter.Shift,
		Search:     s.filter.Search,
		ActiveOnly: true,
	})
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}

	ids := make([]primitive.ObjectID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	allocs, err := s.store.ListRange(ctx, s.filter.RangeStart, s.filter.RangeDays, ids)
	if err != nil {
		return fmt.Errorf("load allocations: %w", err)
	}

	// Stable creation order keeps a cell's encoded value rendering the
	// same way it was typed, write after write.
	sort.Slice(allocs, func(i, j int) bool {
		if !allocs[i].CreatedAt.Equal(allocs[j].CreatedAt) {
			return allocs[i].CreatedAt.Before(allocs[j].CreatedAt)
		}
		return allocs[i].ID.Hex() < allocs[j].ID.Hex()
	})

	rows := make([]Row, 0, len(members))
	for _, m := range members {
		if s.filter.Show != "" && !memberOnShow(m.ID, s.filter.Show, allocs) {
			continue
		}
		avg := cells.AverageWeight(m.ID, s.filter.RangeStart, s.filter.RangeDays, allocs)
		bucket := cells.BucketFor(avg)
		if s.filter.Utilization != "" && bucket != s.filter.Utilization {
			continue
		}
		rows = append(rows, Row{Member: m, Average: avg, Bucket: bucket})
	}

	// Selections address cells by (row, col). When a refresh changes
	// which member occupies a row, a surviving selection would silently
	// re-target the wrong person, so it is dropped instead.
	if !sameRowMembers(s.rows, rows) {
		s.sel.Clear()
	}

	s.rows = rows
	s.allocs = allocs
	return nil
}

func sameRowMembers(a, b []Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Member.ID != b[i].Member.ID {
			return false
		}
	}
	return true
}

// memberOnShow reports whether the member has at least one work
// allocation on the named show inside the loaded snapshot.
func memberOnShow(memberID primitive.ObjectID, show string, allocs []models.Allocation) bool {
	for _, a := range allocs {
		if a.MemberID == memberID && a.Kind == models.AllocationWork && a.ShowName == show {
			return true
		}
	}
	return false
}

// Rows returns the visible rows of the last refresh.
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Days returns the visible day columns, in order.
func (s *Session) Days() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.daysLocked()
}

func (s *Session) daysLocked() []time.Time {
	out := make([]time.Time, s.filter.RangeDays)
	for i := range out {
		out[i] = s.filter.RangeStart.AddDate(0, 0, i)
	}
	return out
}

// Cell returns the derived cell at (row, col), recomputed from the
// loaded snapshot.
func (s *Session) Cell(row, col int) (cells.DailyCell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cellLocked(row, col)
}

func (s *Session) cellLocked(row, col int) (cells.DailyCell, error) {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= s.filter.RangeDays {
		return cells.DailyCell{}, ErrOutOfRange
	}
	day := s.filter.RangeStart.AddDate(0, 0, col)
	return cells.Aggregate(s.rows[row].Member.ID, day, s.allocs), nil
}

// CellValue returns the encoded editable value of a cell, "" for an
// empty or out-of-range cell.
func (s *Session) CellValue(row, col int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cellValueLocked(row, col)
}

func (s *Session) cellValueLocked(row, col int) string {
	cell, err := s.cellLocked(row, col)
	if err != nil {
		return ""
	}
	return codec.EncodeAllocations(cell.Allocations)
}

// SetWorkingWeekend flags or unflags a weekend day as working. Flagging
// a weekday is a no-op.
func (s *Session) SetWorkingWeekend(day time.Time, working bool) {
	if !cells.IsWeekend(day) {
		return
	}
	key := models.DayKey(day)
	s.mu.Lock()
	defer s.mu.Unlock()
	if working {
		s.workingWeekends[key] = struct{}{}
	} else {
		delete(s.workingWeekends, key)
	}
}

// IsWorkingWeekend reports whether day is a weekend flagged as working.
func (s *Session) IsWorkingWeekend(day time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.workingWeekends[models.DayKey(day)]
	return ok
}

// WorkingWeekends returns the flagged weekend day-keys in ascending
// order, for callers that persist them outside the session.
func (s *Session) WorkingWeekends() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, 0, len(s.workingWeekends))
	for d := range s.workingWeekends {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ApplyCell runs the full write pipeline for one cell:
//
//	decode -> capacity check -> registry check -> delete-then-create -> refresh
//
// An empty value clears the cell (and clearing an already empty cell is
// a clean no-op). When some shot names are unknown and allowUnknown is
// false, nothing is written and the *validate.UnknownShotsError is
// returned so the caller can offer the keep-the-valid-part choice;
// with allowUnknown true the valid subset is written.
func (s *Session) ApplyCell(ctx context.Context, row, col int, value string, allowUnknown bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyCellLocked(ctx, row, col, value, allowUnknown); err != nil {
		return err
	}
	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	s.hub.Publish()
	return nil
}

func (s *Session) applyCellLocked(ctx context.Context, row, col int, value string, allowUnknown bool) error {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= s.filter.RangeDays {
		return ErrOutOfRange
	}
	memberID := s.rows[row].Member.ID
	day := s.filter.RangeStart.AddDate(0, 0, col)

	entries, dropped := codec.Decode(value)
	if dropped > 0 {
		s.log.Info("dropped malformed cell segments",
			zap.Int("dropped", dropped),
			zap.String("member", memberID.Hex()),
			zap.Time("day", day))
	}

	if len(entries) == 0 {
		_, err := s.store.DeleteByMemberDay(ctx, memberID, day)
		return err
	}

	if err := validate.CheckCapacity(entries); err != nil {
		return err
	}

	valid, err := validate.Entries(ctx, s.registry, entries)
	if err != nil {
		var unknown *validate.UnknownShotsError
		if !errors.As(err, &unknown) {
			return err
		}
		if !allowUnknown {
			return err
		}
		s.log.Info("writing cell without unknown shots",
			zap.Strings("unknown", unknown.Names),
			zap.String("member", memberID.Hex()))
	}
	if len(valid) == 0 {
		// Everything the coordinator typed was unknown; leave the cell
		// as it was rather than clearing it.
		return nil
	}

	// Work landing on a weekend day is tagged extra only when the grid
	// currently marks that day as working.
	_, working := s.workingWeekends[models.DayKey(day)]
	weekendExtra := cells.IsWeekend(day) && working

	if _, err := s.store.DeleteByMemberDay(ctx, memberID, day); err != nil {
		return err
	}
	for _, e := range valid {
		a := models.Allocation{
			MemberID:     memberID,
			Kind:         models.AllocationWork,
			ShotName:     e.Shot,
			ShowName:     e.ShowName,
			Day:          models.DayKey(day),
			Weight:       e.Weight,
			WeekendExtra: weekendExtra,
		}
		if _, err := s.store.Create(ctx, a); err != nil {
			return fmt.Errorf("create allocation %q: %w", e.Shot, err)
		}
	}
	return nil
}

// SetLeave replaces a cell with a full-day leave record, or clears the
// leave when on is false. Leave displaces any work on the day.
func (s *Session) SetLeave(ctx context.Context, row, col int, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= len(s.rows) || col < 0 || col >= s.filter.RangeDays {
		return ErrOutOfRange
	}
	memberID := s.rows[row].Member.ID
	day := s.filter.RangeStart.AddDate(0, 0, col)

	if _, err := s.store.DeleteByMemberDay(ctx, memberID, day); err != nil {
		return err
	}
	if on {
		_, err := s.store.Create(ctx, models.Allocation{
			MemberID: memberID,
			Kind:     models.AllocationLeave,
			Day:      models.DayKey(day),
			Weight:   cells.FullDay,
		})
		if err != nil {
			return err
		}
	}
	if err := s.refreshLocked(ctx); err != nil {
		return err
	}
	s.hub.Publish()
	return nil
}

// Selection gestures. Coordinates are (row, col) in the current layout.

func (s *Session) Click(c selection.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Click(c)
}

func (s *Session) ToggleSelect(c selection.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Toggle(c)
}

func (s *Session) ExtendSelect(c selection.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Extend(c)
}

func (s *Session) BeginDrag(c selection.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.BeginDrag(c)
}

func (s *Session) DragOver(c selection.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.DragOver(c)
}

func (s *Session) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.EndDrag()
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Clear()
}

// Selected returns the selected cells in row-major order.
func (s *Session) Selected() []selection.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Cells()
}

// CopySelection captures the encoded value of every selected cell.
func (s *Session) CopySelection() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.sel.Cells()
	s.clip.Copy(cs, func(c selection.Cell) string {
		return s.cellValueLocked(c.Row, c.Col)
	})
	return len(cs)
}

// PasteBroadcast writes the single copied value into every selected
// cell. Cells that fail validation are skipped and reported; the rest
// still settle.
func (s *Session) PasteBroadcast(ctx context.Context, allowUnknown bool) (int, []CellFailure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.clip.BroadcastValue()
	if !ok {
		return 0, nil, ErrNothingToPaste
	}

	applied := 0
	var failures []CellFailure
	for _, c := range s.sel.Cells() {
		if err := s.applyCellLocked(ctx, c.Row, c.Col, value, allowUnknown); err != nil {
			failures = append(failures, CellFailure{Cell: c, Err: err})
			continue
		}
		applied++
	}
	if applied > 0 {
		if err := s.refreshLocked(ctx); err != nil {
			return applied, failures, err
		}
		s.hub.Publish()
	}
	return applied, failures, nil
}

// Fill propagates the source cell's current value across the day
// columns between source and target (fill-handle drag). The source
// column itself is never rewritten, so a drag that returns to the
// source changes nothing. An empty source propagates nothing.
func (s *Session) Fill(ctx context.Context, row, sourceCol, targetCol int, allowUnknown bool) (int, []CellFailure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.cellValueLocked(row, sourceCol)
	cols := fill.Targets(value, sourceCol, targetCol)

	applied := 0
	var failures []CellFailure
	for _, col := range cols {
		if err := s.applyCellLocked(ctx, row, col, value, allowUnknown); err != nil {
			failures = append(failures, CellFailure{Cell: selection.Cell{Row: row, Col: col}, Err: err})
			continue
		}
		applied++
	}
	if applied > 0 {
		if err := s.refreshLocked(ctx); err != nil {
			return applied, failures, err
		}
		s.hub.Publish()
	}
	return applied, failures, nil
}
