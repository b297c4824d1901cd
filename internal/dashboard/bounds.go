package dashboard

import (
	"time"

	"stockdash/internal/domain"
)

// Bounds are the limits and defaults of the page's date range picker.
type Bounds struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
	EndDate string `json:"end_date"`
}

// DateBounds returns picker bounds for the given moment: selectable dates run
// from minDate to yesterday, and the end date defaults to yesterday.
func DateBounds(minDate, now time.Time) Bounds {
	y, m, d := now.Date()
	yesterday := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Bounds{
		MinDate: minDate.Format(domain.DateLayout),
		MaxDate: yesterday.Format(domain.DateLayout),
		EndDate: yesterday.Format(domain.DateLayout),
	}
}
