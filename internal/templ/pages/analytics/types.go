package analytics

import (
	"github.com/DukeRupert/parkiez/internal/analytics"
	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

// PageData contains data for the analytics page.
type PageData struct {
	CurrentPath string
	CSRFToken   string
	Operator    string
	Flash       *shared.Flash
	Subjects    []string
	Charts      ChartsData
}

// ChartsData contains data for the analytics_charts partial.
type ChartsData struct {
	Selected domain.AttendantRecord
	Layout   string
	Charts   analytics.Charts
}

// NewChartsData builds the partial data from a computed view.
func NewChartsData(v analytics.View) ChartsData {
	return ChartsData{
		Selected: v.Selected,
		Layout:   v.Dimensions.Layout(),
		Charts:   v.Charts(),
	}
}
