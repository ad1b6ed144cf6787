// internal/app/features/grid/bulkops.go
package grid

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/crewgrid/internal/app/grid/bulk"
	"github.com/dalemusser/crewgrid/internal/app/system/timeouts"
	"github.com/dalemusser/crewgrid/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Both bulk operations are two-step: preview returns the affected count
// plus a single-use token, execute requires that token back within its
// TTL. The token scope fingerprints the exact request, so a token
// issued for one preview cannot confirm a different operation.

// ServeReassignPreview handles POST /grid/bulk/reassign/preview.
func (h *Handler) ServeReassignPreview(w http.ResponseWriter, r *http.Request) {
	var req reassignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	from, to, ok := h.reassignIDs(w, req)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	affected := 0
	for _, day := range req.Days {
		allocs, err := h.Alloc.ListByMemberDay(ctx, from, day)
		if err != nil {
			h.Log.Error("reassign preview failed", zap.Error(err))
			http.Error(w, "preview failed", http.StatusInternalServerError)
			return
		}
		affected += len(allocs)
	}

	token := h.Confirm.Issue(reassignScope(from, to, req.Days))
	writeJSON(w, http.StatusOK, bulkPreview{Affected: affected, Token: token.String()})
}

// ServeReassign handles POST /grid/bulk/reassign (the confirmed run).
func (h *Handler) ServeReassign(w http.ResponseWriter, r *http.Request) {
	var req reassignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	from, to, ok := h.reassignIDs(w, req)
	if !ok {
		return
	}
	if !h.redeem(w, req.Token, reassignScope(from, to, req.Days)) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	report := h.Bulk.Reassign(ctx, from, to, req.Days)
	h.Hub.Publish()
	writeJSON(w, http.StatusOK, bulkResultJSON(report))
}

// ServeCopyWeekPreview handles POST /grid/bulk/copyweek/preview.
func (h *Handler) ServeCopyWeekPreview(w http.ResponseWriter, r *http.Request) {
	var req copyWeekRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, ok := parseID(w, req.Member)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	affected := 0
	src := models.DayKey(req.SourceWeek)
	for offset := 0; offset < 7; offset++ {
		allocs, err := h.Alloc.ListByMemberDay(ctx, member, src.AddDate(0, 0, offset))
		if err != nil {
			h.Log.Error("week copy preview failed", zap.Error(err))
			http.Error(w, "preview failed", http.StatusInternalServerError)
			return
		}
		affected += len(allocs)
	}

	token := h.Confirm.Issue(copyWeekScope(member, req.SourceWeek, req.TargetWeek))
	writeJSON(w, http.StatusOK, bulkPreview{Affected: affected, Token: token.String()})
}

// ServeCopyWeek handles POST /grid/bulk/copyweek (the confirmed run).
func (h *Handler) ServeCopyWeek(w http.ResponseWriter, r *http.Request) {
	var req copyWeekRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, ok := parseID(w, req.Member)
	if !ok {
		return
	}
	if !h.redeem(w, req.Token, copyWeekScope(member, req.SourceWeek, req.TargetWeek)) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	report := h.Bulk.CopyWeekPattern(ctx, member, req.SourceWeek, req.TargetWeek)
	h.Hub.Publish()
	writeJSON(w, http.StatusOK, bulkResultJSON(report))
}

func (h *Handler) reassignIDs(w http.ResponseWriter, req reassignRequest) (from, to primitive.ObjectID, ok bool) {
	from, ok = parseID(w, req.From)
	if !ok {
		return
	}
	to, ok = parseID(w, req.To)
	if !ok {
		return
	}
	if from == to {
		http.Error(w, "source and target member are the same", http.StatusBadRequest)
		return from, to, false
	}
	if len(req.Days) == 0 {
		http.Error(w, "no days selected", http.StatusBadRequest)
		return from, to, false
	}
	return from, to, true
}

// redeem burns the confirm token and checks it was issued for exactly
// this operation.
func (h *Handler) redeem(w http.ResponseWriter, token, scope string) bool {
	id, err := uuid.Parse(token)
	if err != nil {
		http.Error(w, "missing or malformed confirm token", http.StatusForbidden)
		return false
	}
	got, ok := h.Confirm.Redeem(id)
	if !ok || got != scope {
		http.Error(w, "confirm token expired or does not match this operation", http.StatusForbidden)
		return false
	}
	return true
}

func reassignScope(from, to primitive.ObjectID, days []time.Time) string {
	scope := fmt.Sprintf("reassign|%s|%s", from.Hex(), to.Hex())
	for _, d := range days {
		scope += "|" + models.DayKey(d).Format("2006-01-02")
	}
	return scope
}

func copyWeekScope(member primitive.ObjectID, src, dst time.Time) string {
	return fmt.Sprintf("copyweek|%s|%s|%s",
		member.Hex(),
		models.DayKey(src).Format("2006-01-02"),
		models.DayKey(dst).Format("2006-01-02"))
}

func parseID(w http.ResponseWriter, hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		http.Error(w, "invalid member id", http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

func bulkResultJSON(report *bulk.Report) bulkResult {
	res := bulkResult{
		Created: report.Created,
		Deleted: report.Deleted,
		Partial: report.Partial(),
	}
	for _, f := range report.Failures {
		res.Failures = append(res.Failures, fmt.Sprintf("%s: %v", f.Day.Format("2006-01-02"), f.Err))
	}
	return res
}
