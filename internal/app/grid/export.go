package grid

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV streams the session's visible grid as CSV: one row per
// member with identity columns, one encoded value column per visible
// day, and a trailing per-day work total column set.
//
// Cell values use the same grammar the grid accepts on input, so an
// exported sheet reads back the way it was typed. Leave days render as
// "leave" since they have no encodable work entries.
func (s *Session) WriteCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cw := csv.NewWriter(w)
	days := s.daysLocked()

	header := []string{"Member", "Department", "Shift", "Avg MD/day"}
	for _, d := range days {
		header = append(header, d.Format("2006-01-02"))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for ri, row := range s.rows {
		rec := []string{
			row.Member.FullName,
			row.Member.Department,
			row.Member.Shift,
			fmt.Sprintf("%.2f", row.Average),
		}
		for ci := range days {
			cell, err := s.cellLocked(ri, ci)
			if err != nil {
				return err
			}
			value := s.cellValueLocked(ri, ci)
			if value == "" && cell.OnLeave {
				value = "leave"
			}
			rec = append(rec, value)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	// Footer: summed work weight per day column across visible rows.
	totals := []string{"Total", "", "", ""}
	for ci := range days {
		var sum float64
		for ri := range s.rows {
			cell, err := s.cellLocked(ri, ci)
			if err != nil {
				return err
			}
			sum += cell.Total
		}
		totals = append(totals, fmt.Sprintf("%.2f", sum))
	}
	if err := cw.Write(totals); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
