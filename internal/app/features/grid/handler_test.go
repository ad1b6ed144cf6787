package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gridsession "github.com/dalemusser/crewgrid/internal/app/grid"
	"github.com/dalemusser/crewgrid/internal/app/grid/bulk"
	memberstore "github.com/dalemusser/crewgrid/internal/app/store/members"
	"github.com/dalemusser/crewgrid/internal/app/system/confirm"
	"github.com/dalemusser/crewgrid/internal/app/system/notify"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeAlloc implements both the session's AllocationStore and the bulk
// engine's Store against an in-memory map.
type fakeAlloc struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Allocation
	seq  int
}

func newFakeAlloc() *fakeAlloc {
	return &fakeAlloc{byID: make(map[primitive.ObjectID]models.Allocation)}
}

func (f *fakeAlloc) Create(_ context.Context, a models.Allocation) (models.Allocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	a.ID = primitive.NewObjectID()
	a.Day = models.DayKey(a.Day)
	a.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Millisecond)
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAlloc) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeAlloc) DeleteByMemberDay(_ context.Context, memberID primitive.ObjectID, day time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.DayKey(day)
	var n int64
	for id, a := range f.byID {
		if a.MemberID == memberID && a.Day.Equal(key) {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeAlloc) ListByMemberDay(_ context.Context, memberID primitive.ObjectID, day time.Time) ([]models.Allocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.DayKey(day)
	var out []models.Allocation
	for _, a := range f.byID {
		if a.MemberID == memberID && a.Day.Equal(key) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlloc) ListRange(_ context.Context, start time.Time, days int, memberIDs []primitive.ObjectID) ([]models.Allocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	from := models.DayKey(start)
	until := from.AddDate(0, 0, days)
	want := make(map[primitive.ObjectID]bool, len(memberIDs))
	for _, id := range memberIDs {
		want[id] = true
	}
	var out []models.Allocation
	for _, a := range f.byID {
		if len(want) > 0 && !want[a.MemberID] {
			continue
		}
		if a.Day.Before(from) || !a.Day.Before(until) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeMembers struct {
	list []models.Member
}

func (f *fakeMembers) List(_ context.Context, _ memberstore.Filter) ([]models.Member, error) {
	return f.list, nil
}

type fakeRegistry map[string]string

func (f fakeRegistry) LookupShot(_ context.Context, name string) (string, bool, error) {
	show, ok := f[name]
	return show, ok, nil
}

// client replays cookies between requests so every call lands in the
// same grid session.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	// Last write wins per cookie name, like a browser jar.
	for _, ck := range rec.Result().Cookies() {
		replaced := false
		for i, old := range c.cookies {
			if old.Name == ck.Name {
				c.cookies[i] = ck
				replaced = true
				break
			}
		}
		if !replaced {
			c.cookies = append(c.cookies, ck)
		}
	}
	return rec
}

func newTestClient(t *testing.T, members ...models.Member) (*client, *fakeAlloc, *Handler) {
	t.Helper()
	store := newFakeAlloc()
	reg := fakeRegistry{"sh010": "ShowA", "sh020": "ShowA"}
	hub := notify.NewHub(zap.NewNop())
	mgr := gridsession.NewManager(store, &fakeMembers{list: members}, reg, hub, zap.NewNop())
	prefs := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	h := NewHandler(mgr, bulk.NewEngine(store, zap.NewNop()), store,
		confirm.NewLedger(confirm.DefaultTTL), hub, prefs, zap.NewNop())
	return &client{t: t, router: Routes(h)}, store, h
}

func testMember(name string) models.Member {
	return models.Member{ID: primitive.NewObjectID(), FullName: name, Department: "comp", Active: true}
}

func setRange(t *testing.T, c *client) {
	t.Helper()
	rec := c.do(http.MethodPut, "/filter", filterRequest{
		RangeStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		RangeDays:  7,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set filter: %d %s", rec.Code, rec.Body.String())
	}
}

func TestServeSnapshot(t *testing.T) {
	c, _, _ := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	rec := c.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.RangeDays != 7 || len(snap.Days) != 7 {
		t.Fatalf("range: %d days, %d listed", snap.RangeDays, len(snap.Days))
	}
	if len(snap.Rows) != 1 || snap.Rows[0].FullName != "Ada" {
		t.Fatalf("rows = %+v", snap.Rows)
	}
	if len(snap.Rows[0].Cells) != 7 {
		t.Fatalf("row has %d cells", len(snap.Rows[0].Cells))
	}
}

func TestWriteCellRoundTrip(t *testing.T) {
	c, _, _ := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010/sh020"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var snap snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	cell := snap.Rows[0].Cells[0]
	if cell.Value != "sh010/sh020" || cell.Status != "full" {
		t.Fatalf("cell = %+v", cell)
	}
}

func TestWriteCellOverCapacity(t *testing.T) {
	c, store, _ := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010:0.8/sh020:0.5"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if len(store.byID) != 0 {
		t.Fatalf("rejected write reached the store: %d docs", len(store.byID))
	}
}

func TestWriteCellUnknownShots(t *testing.T) {
	c, _, _ := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010:0.5/zz999:0.5"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body struct {
		Unknown []string `json:"unknown_shots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Unknown) != 1 || body.Unknown[0] != "zz999" {
		t.Fatalf("unknown_shots = %v", body.Unknown)
	}

	// Retrying with allow_unknown keeps the valid part.
	rec = c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010:0.5/zz999:0.5", AllowUnknown: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("partial accept status = %d", rec.Code)
	}
	var snap snapshotResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if got := snap.Rows[0].Cells[0].Value; got != "sh010:0.5" {
		t.Fatalf("cell = %q", got)
	}
}

func TestCopyPasteBroadcast(t *testing.T) {
	c, _, _ := newTestClient(t, testMember("Ada"), testMember("Ben"))
	setRange(t, c)

	if rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010"}); rec.Code != http.StatusOK {
		t.Fatalf("seed: %d", rec.Code)
	}

	if rec := c.do(http.MethodPost, "/selection/click", gestureRequest{Row: 0, Col: 0}); rec.Code != http.StatusOK {
		t.Fatalf("click: %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/copy", nil); rec.Code != http.StatusOK {
		t.Fatalf("copy: %d", rec.Code)
	}

	c.do(http.MethodPost, "/selection/click", gestureRequest{Row: 0, Col: 1})
	c.do(http.MethodPost, "/selection/extend", gestureRequest{Row: 1, Col: 2})

	rec := c.do(http.MethodPost, "/paste", pasteRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("paste: %d %s", rec.Code, rec.Body.String())
	}
	var res writeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Applied != 4 || len(res.Failures) != 0 {
		t.Fatalf("result = %+v, want 4 applied", res)
	}
}

func TestPasteWithoutCopyConflicts(t *testing.T) {
	c, _, _ := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	rec := c.do(http.MethodPost, "/paste", pasteRequest{})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestFillEndpoint(t *testing.T) {
	c, _, _ := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	if rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010:0.5"}); rec.Code != http.StatusOK {
		t.Fatalf("seed: %d", rec.Code)
	}

	rec := c.do(http.MethodPost, "/fill", fillRequest{Row: 0, SourceCol: 0, TargetCol: 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("fill: %d", rec.Code)
	}
	var res writeResult
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Applied != 3 {
		t.Fatalf("applied = %d, want 3", res.Applied)
	}

	// Dragging back onto the source changes nothing.
	rec = c.do(http.MethodPost, "/fill", fillRequest{Row: 0, SourceCol: 0, TargetCol: 0})
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Applied != 0 {
		t.Fatalf("applied = %d, want 0", res.Applied)
	}
}

func TestBulkReassignFlow(t *testing.T) {
	ada := testMember("Ada")
	ben := testMember("Ben")
	c, store, _ := newTestClient(t, ada, ben)
	setRange(t, c)

	if rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010"}); rec.Code != http.StatusOK {
		t.Fatalf("seed: %d", rec.Code)
	}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	req := reassignRequest{From: ada.ID.Hex(), To: ben.ID.Hex(), Days: []time.Time{day}}

	// Execute without a token is refused.
	if rec := c.do(http.MethodPost, "/bulk/reassign", req); rec.Code != http.StatusForbidden {
		t.Fatalf("tokenless execute = %d, want 403", rec.Code)
	}

	rec := c.do(http.MethodPost, "/bulk/reassign/preview", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: %d %s", rec.Code, rec.Body.String())
	}
	var prev bulkPreview
	if err := json.Unmarshal(rec.Body.Bytes(), &prev); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if prev.Affected != 1 || prev.Token == "" {
		t.Fatalf("preview = %+v", prev)
	}

	req.Token = prev.Token
	rec = c.do(http.MethodPost, "/bulk/reassign", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("execute: %d %s", rec.Code, rec.Body.String())
	}
	var res bulkResult
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Created != 1 || res.Deleted != 1 || res.Partial {
		t.Fatalf("result = %+v", res)
	}
	got, _ := store.ListByMemberDay(context.Background(), ben.ID, day)
	if len(got) != 1 {
		t.Fatalf("target has %d allocations", len(got))
	}

	// The token is single use.
	rec = c.do(http.MethodPost, "/bulk/reassign", req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("token replay = %d, want 403", rec.Code)
	}
}

func TestBulkTokenScopeMismatch(t *testing.T) {
	ada := testMember("Ada")
	ben := testMember("Ben")
	c, _, _ := newTestClient(t, ada, ben)
	setRange(t, c)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	req := reassignRequest{From: ada.ID.Hex(), To: ben.ID.Hex(), Days: []time.Time{day}}
	rec := c.do(http.MethodPost, "/bulk/reassign/preview", req)
	var prev bulkPreview
	_ = json.Unmarshal(rec.Body.Bytes(), &prev)

	// Same token, different days: refused.
	req.Token = prev.Token
	req.Days = []time.Time{day.AddDate(0, 0, 1)}
	if rec := c.do(http.MethodPost, "/bulk/reassign", req); rec.Code != http.StatusForbidden {
		t.Fatalf("scope mismatch = %d, want 403", rec.Code)
	}
}

func TestCopyWeekFlow(t *testing.T) {
	ada := testMember("Ada")
	c, store, _ := newTestClient(t, ada)
	setRange(t, c)

	if rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010"}); rec.Code != http.StatusOK {
		t.Fatalf("seed: %d", rec.Code)
	}

	src := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	dst := src.AddDate(0, 0, 7)
	req := copyWeekRequest{Member: ada.ID.Hex(), SourceWeek: src, TargetWeek: dst}

	rec := c.do(http.MethodPost, "/bulk/copyweek/preview", req)
	var prev bulkPreview
	_ = json.Unmarshal(rec.Body.Bytes(), &prev)
	if prev.Affected != 1 {
		t.Fatalf("preview affected = %d", prev.Affected)
	}

	req.Token = prev.Token
	rec = c.do(http.MethodPost, "/bulk/copyweek", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("execute: %d %s", rec.Code, rec.Body.String())
	}
	got, _ := store.ListByMemberDay(context.Background(), ada.ID, dst)
	if len(got) != 1 {
		t.Fatalf("target week has %d allocations", len(got))
	}
	// Source week intact.
	got, _ = store.ListByMemberDay(context.Background(), ada.ID, src)
	if len(got) != 1 {
		t.Fatalf("source week has %d allocations", len(got))
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	c, _, _ := newTestClient(t)

	rec := c.do(http.MethodPut, "/prefs", map[string]string{"col_width": "42", "panel": "collapsed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put prefs: %d", rec.Code)
	}

	rec = c.do(http.MethodGet, "/prefs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get prefs: %d", rec.Code)
	}
	var prefs map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &prefs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prefs["col_width"] != "42" || prefs["panel"] != "collapsed" {
		t.Fatalf("prefs = %v", prefs)
	}
	if _, leaked := prefs["sid"]; leaked {
		t.Fatal("session id leaked into the prefs payload")
	}

	// Empty value deletes the key.
	c.do(http.MethodPut, "/prefs", map[string]string{"panel": ""})
	rec = c.do(http.MethodGet, "/prefs", nil)
	prefs = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &prefs)
	if _, ok := prefs["panel"]; ok {
		t.Fatal("deleted pref still present")
	}
}

func TestWorkingWeekendsSurviveRestart(t *testing.T) {
	ada := testMember("Ada")
	c, store, h := newTestClient(t, ada)
	setRange(t, c)

	sat := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	rec := c.do(http.MethodPut, "/weekends", weekendRequest{Day: sat, Working: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("set weekend: %d", rec.Code)
	}

	// The prefs endpoint cannot clobber the stored flags.
	c.do(http.MethodPut, "/prefs", map[string]string{"weekends": ""})

	// A new process keeps no session state; the signed cookie re-seeds
	// the flags on first contact.
	hub := notify.NewHub(zap.NewNop())
	mgr := gridsession.NewManager(store, &fakeMembers{list: []models.Member{ada}},
		fakeRegistry{"sh010": "ShowA"}, hub, zap.NewNop())
	h2 := NewHandler(mgr, bulk.NewEngine(store, zap.NewNop()), store,
		confirm.NewLedger(confirm.DefaultTTL), hub, h.Prefs, zap.NewNop())
	c.router = Routes(h2)

	setRange(t, c)
	rec = c.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot: %d", rec.Code)
	}
	var snap snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !snap.Rows[0].Cells[5].Working {
		t.Fatal("working-weekend flag lost across restart")
	}
}

func TestWeekendWriteTaggedOnlyWhenFlagged(t *testing.T) {
	ada := testMember("Ada")
	c, store, _ := newTestClient(t, ada)
	setRange(t, c)

	sat := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	// Unflagged saturday: the write lands untagged.
	if rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 5, Value: "sh010"}); rec.Code != http.StatusOK {
		t.Fatalf("write: %d", rec.Code)
	}
	got, _ := store.ListByMemberDay(context.Background(), ada.ID, sat)
	if len(got) != 1 || got[0].WeekendExtra {
		t.Fatalf("unflagged weekend write = %+v, want untagged", got)
	}

	// Flag it and rewrite: now tagged.
	if rec := c.do(http.MethodPut, "/weekends", weekendRequest{Day: sat, Working: true}); rec.Code != http.StatusOK {
		t.Fatalf("set weekend: %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 5, Value: "sh010"}); rec.Code != http.StatusOK {
		t.Fatalf("rewrite: %d", rec.Code)
	}
	got, _ = store.ListByMemberDay(context.Background(), ada.ID, sat)
	if len(got) != 1 || !got[0].WeekendExtra {
		t.Fatalf("flagged weekend write = %+v, want tagged", got)
	}
}

func TestUnmountDiscardsSession(t *testing.T) {
	c, _, h := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	rec := c.do(http.MethodDelete, "/session", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unmount: %d", rec.Code)
	}
	if h.Sessions.Count() != 0 {
		t.Fatalf("%d sessions live after unmount", h.Sessions.Count())
	}

	// The next contact builds a fresh session with the default range.
	rec = c.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot: %d", rec.Code)
	}
	var snap snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.RangeDays != 14 {
		t.Fatalf("range days = %d, want the default after unmount", snap.RangeDays)
	}
}

type fakeDefaultViews struct {
	v   models.SavedView
	err error
}

func (f *fakeDefaultViews) GetDefault(_ context.Context, _ string) (models.SavedView, error) {
	return f.v, f.err
}

func TestDefaultViewAppliedToNewSession(t *testing.T) {
	c, _, h := newTestClient(t, testMember("Ada"))
	h.Views = &fakeDefaultViews{v: models.SavedView{
		Name:     "Default",
		ViewType: "grid",
		Default:  true,
		Filter: models.ViewFilter{
			Department: "comp",
			RangeStart: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
			RangeDays:  21,
		},
	}}

	rec := c.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap snapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.RangeDays != 21 {
		t.Fatalf("range days = %d, default view not applied", snap.RangeDays)
	}
	if !snap.RangeStart.Equal(time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("range start = %v", snap.RangeStart)
	}
}

func TestExportCSV(t *testing.T) {
	c, _, _ := newTestClient(t, testMember("Ada"))
	setRange(t, c)

	if rec := c.do(http.MethodPost, "/cells", cellWriteRequest{Row: 0, Col: 0, Value: "sh010"}); rec.Code != http.StatusOK {
		t.Fatalf("seed: %d", rec.Code)
	}

	rec := c.do(http.MethodGet, "/export.csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "sh010") {
		t.Fatalf("csv missing cell value:\n%s", rec.Body.String())
	}
}
