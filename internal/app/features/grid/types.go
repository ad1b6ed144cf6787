// internal/app/features/grid/types.go
package grid

import "time"

// filterRequest is the PUT /grid/filter payload. Zero values mean "no
// filter" for the string fields.
type filterRequest struct {
	Department  string    `json:"department"`
	Shift       string    `json:"shift"`
	Show        string    `json:"show"`
	Utilization string    `json:"utilization"`
	Search      string    `json:"search"`
	RangeStart  time.Time `json:"range_start"`
	RangeDays   int       `json:"range_days"`
}

// cellWriteRequest is the POST /grid/cells payload. AllowUnknown opts
// into writing the valid subset when some shot names are unregistered.
type cellWriteRequest struct {
	Row          int    `json:"row"`
	Col          int    `json:"col"`
	Value        string `json:"value"`
	AllowUnknown bool   `json:"allow_unknown"`
}

type leaveRequest struct {
	Row int  `json:"row"`
	Col int  `json:"col"`
	On  bool `json:"on"`
}

// gestureRequest addresses one cell for a selection gesture.
type gestureRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type pasteRequest struct {
	AllowUnknown bool `json:"allow_unknown"`
}

type fillRequest struct {
	Row          int  `json:"row"`
	SourceCol    int  `json:"source_col"`
	TargetCol    int  `json:"target_col"`
	AllowUnknown bool `json:"allow_unknown"`
}

type weekendRequest struct {
	Day     time.Time `json:"day"`
	Working bool      `json:"working"`
}

// reassignRequest names the bulk move: every allocation From holds on
// the listed days is recreated under To and deleted from From.
type reassignRequest struct {
	From string      `json:"from"`
	To   string      `json:"to"`
	Days []time.Time `json:"days"`
	// Token is required on execute; preview issues it.
	Token string `json:"token,omitempty"`
}

type copyWeekRequest struct {
	Member     string    `json:"member"`
	SourceWeek time.Time `json:"source_week"`
	TargetWeek time.Time `json:"target_week"`
	Token      string    `json:"token,omitempty"`
}

// cellJSON is one rendered cell in the snapshot response.
type cellJSON struct {
	Value   string  `json:"value"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
	OnLeave bool    `json:"on_leave,omitempty"`
	Weekend bool    `json:"weekend,omitempty"`
	Working bool    `json:"working,omitempty"` // weekend flagged as working
}

type rowJSON struct {
	MemberID   string     `json:"member_id"`
	FullName   string     `json:"full_name"`
	Department string     `json:"department"`
	Shift      string     `json:"shift,omitempty"`
	Average    float64    `json:"average"`
	Bucket     string     `json:"bucket"`
	Cells      []cellJSON `json:"cells"`
}

type snapshotResponse struct {
	RangeStart time.Time   `json:"range_start"`
	RangeDays  int         `json:"range_days"`
	Days       []time.Time `json:"days"`
	Rows       []rowJSON   `json:"rows"`
	Selected   []cellRef   `json:"selected,omitempty"`
}

type cellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// writeResult reports how a multi-cell write settled.
type writeResult struct {
	Applied  int           `json:"applied"`
	Failures []failureJSON `json:"failures,omitempty"`
}

type failureJSON struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Error string `json:"error"`
}

// bulkPreview is the preview response for either bulk operation; the
// token must be echoed back on execute within its TTL.
type bulkPreview struct {
	Affected int    `json:"affected"`
	Token    string `json:"token"`
}

type bulkResult struct {
	Created  int      `json:"created"`
	Deleted  int      `json:"deleted"`
	Failures []string `json:"failures,omitempty"`
	Partial  bool     `json:"partial"`
}
