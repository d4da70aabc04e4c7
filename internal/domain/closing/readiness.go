package closing

import (
	"time"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

// IsDealReadyForClose: tiene fecha de cierre, ya llegó (día UTC) y no fue procesado.
func IsDealReadyForClose(deal *entity.Deal, now time.Time) bool {
	if deal == nil || deal.IsClosedProcessed() || deal.CloseAt == nil {
		return false
	}
	return !dayUTC(*deal.CloseAt).After(dayUTC(now))
}

// IsTermsheetReadyForClose: tiene fecha de completitud, ya llegó y no fue procesado.
func IsTermsheetReadyForClose(ts *entity.Termsheet, now time.Time) bool {
	if ts == nil || ts.IsClosedProcessed() || ts.CompletionDate == nil {
		return false
	}
	return !dayUTC(*ts.CompletionDate).After(dayUTC(now))
}

func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
