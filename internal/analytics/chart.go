package analytics

// This file turns a View into Chart.js chart specs.

import (
	"github.com/samber/lo"

	"github.com/DukeRupert/parkiez/internal/domain"
)

// Series colours for the booking charts.
const (
	BookingsColor = "#8884d8"
	GridColor     = "#cccccc"
)

// ChartSpec is a chart configuration handed to the browser charting library.
// Its JSON shape follows the Chart.js configuration object.
type ChartSpec struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

// ChartData holds labels and datasets.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is one series.
type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor,omitempty"`
	BorderColor     string   `json:"borderColor,omitempty"`
	Tension         float64  `json:"tension,omitempty"`
}

// ChartOptions controls sizing. Responsive sizing is disabled so that the
// server-computed dimensions are authoritative.
type ChartOptions struct {
	Responsive          bool `json:"responsive"`
	MaintainAspectRatio bool `json:"maintainAspectRatio"`
}

// Charts groups the three chart specs rendered on the analytics screen.
type Charts struct {
	Occupancy  ChartSpec  `json:"occupancy"`
	Daily      ChartSpec  `json:"daily"`
	Monthly    ChartSpec  `json:"monthly"`
	Dimensions Dimensions `json:"dimensions"`
}

// Charts converts the view into chart specs.
func (v View) Charts() Charts {
	return Charts{
		Occupancy:  pieSpec(v.Distribution),
		Daily:      seriesSpec("line", v.Daily),
		Monthly:    seriesSpec("bar", v.Monthly),
		Dimensions: v.Dimensions,
	}
}

func pieSpec(slices []Slice) ChartSpec {
	return ChartSpec{
		Type: "pie",
		Data: ChartData{
			Labels: lo.Map(slices, func(s Slice, _ int) string { return s.Name }),
			Datasets: []ChartDataset{{
				Label:           "Parking",
				Data:            lo.Map(slices, func(s Slice, _ int) int { return s.Value }),
				BackgroundColor: lo.Map(slices, func(s Slice, _ int) string { return s.Color }),
			}},
		},
	}
}

func seriesSpec(kind string, points []domain.SeriesPoint) ChartSpec {
	ds := ChartDataset{
		Label: "Bookings",
		Data:  lo.Map(points, func(p domain.SeriesPoint, _ int) int { return p.Bookings }),
	}
	if kind == "line" {
		ds.BorderColor = BookingsColor
		ds.Tension = 0.4
	} else {
		ds.BackgroundColor = []string{BookingsColor}
	}
	return ChartSpec{
		Type: kind,
		Data: ChartData{
			Labels:   lo.Map(points, func(p domain.SeriesPoint, _ int) string { return p.Label }),
			Datasets: []ChartDataset{ds},
		},
	}
}
