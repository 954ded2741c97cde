// Package analytics serves the booking and occupancy statistics shown on the
// operator analytics screen.
//
// The dataset is static reference data and is never mutated after Default
// returns it, so a single Dataset is shared by all requests.
package analytics

import (
	"github.com/samber/lo"

	"github.com/DukeRupert/parkiez/internal/domain"
)

// Slice colours for the occupancy distribution.
const (
	OccupiedColor   = "#0088FE"
	UnoccupiedColor = "#00C49F"
)

// Slice is one segment of the two-slice occupancy distribution.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Dataset holds the per-attendant records and the booking time series.
type Dataset struct {
	records []domain.AttendantRecord
	daily   []domain.SeriesPoint
	monthly []domain.SeriesPoint
}

// Default returns the reference dataset displayed by the console.
func Default() *Dataset {
	return &Dataset{
		records: []domain.AttendantRecord{
			{Name: "John Doe", Bookings: 34, Occupied: 20, Unoccupied: 14},
			{Name: "Jane Smith", Bookings: 29, Occupied: 18, Unoccupied: 11},
			{Name: "Bob Johnson", Bookings: 12, Occupied: 6, Unoccupied: 6},
			{Name: "Alice Brown", Bookings: 45, Occupied: 30, Unoccupied: 15},
			{Name: "Charlie Green", Bookings: 8, Occupied: 3, Unoccupied: 5},
		},
		daily: []domain.SeriesPoint{
			{Label: "Mon", Bookings: 30},
			{Label: "Tue", Bookings: 45},
			{Label: "Wed", Bookings: 60},
			{Label: "Thu", Bookings: 50},
			{Label: "Fri", Bookings: 40},
			{Label: "Sat", Bookings: 30},
			{Label: "Sun", Bookings: 20},
		},
		monthly: []domain.SeriesPoint{
			{Label: "Jan", Bookings: 300},
			{Label: "Feb", Bookings: 400},
			{Label: "Mar", Bookings: 500},
			{Label: "Apr", Bookings: 600},
			{Label: "May", Bookings: 700},
			{Label: "Jun", Bookings: 800},
			{Label: "Jul", Bookings: 900},
			{Label: "Aug", Bookings: 1000},
			{Label: "Sep", Bookings: 1100},
			{Label: "Oct", Bookings: 1200},
			{Label: "Nov", Bookings: 1300},
			{Label: "Dec", Bookings: 1400},
		},
	}
}

// NewDataset builds a dataset from caller-supplied data. At least one record
// is required so that a default selection always exists.
func NewDataset(records []domain.AttendantRecord, daily, monthly []domain.SeriesPoint) (*Dataset, error) {
	if len(records) == 0 {
		return nil, domain.Invalid("analytics.NewDataset", "at least one attendant record is required")
	}
	return &Dataset{
		records: append([]domain.AttendantRecord(nil), records...),
		daily:   append([]domain.SeriesPoint(nil), daily...),
		monthly: append([]domain.SeriesPoint(nil), monthly...),
	}, nil
}

// Records returns a copy of the attendant records.
func (d *Dataset) Records() []domain.AttendantRecord {
	return append([]domain.AttendantRecord(nil), d.records...)
}

// Subjects returns the selectable attendant names in dataset order.
func (d *Dataset) Subjects() []string {
	return lo.Map(d.records, func(r domain.AttendantRecord, _ int) string {
		return r.Name
	})
}

// First returns the initial selection.
func (d *Dataset) First() domain.AttendantRecord {
	return d.records[0]
}

// Select returns the record named name.
func (d *Dataset) Select(name string) (domain.AttendantRecord, error) {
	rec, ok := lo.Find(d.records, func(r domain.AttendantRecord) bool {
		return r.Name == name
	})
	if !ok {
		return domain.AttendantRecord{}, domain.NotFound("analytics.Select", "attendant", name)
	}
	return rec, nil
}

// SelectOrFirst returns the record named name, or the first record when name
// is empty or unknown.
func (d *Dataset) SelectOrFirst(name string) domain.AttendantRecord {
	if rec, err := d.Select(name); err == nil {
		return rec
	}
	return d.First()
}

// Daily returns the seven-point daily booking series.
func (d *Dataset) Daily() []domain.SeriesPoint {
	return append([]domain.SeriesPoint(nil), d.daily...)
}

// Monthly returns the twelve-point monthly booking series.
func (d *Dataset) Monthly() []domain.SeriesPoint {
	return append([]domain.SeriesPoint(nil), d.monthly...)
}

// Distribution derives the occupied vs. unoccupied split for one record.
func Distribution(rec domain.AttendantRecord) []Slice {
	return []Slice{
		{Name: "Occupied", Value: rec.Occupied, Color: OccupiedColor},
		{Name: "Unoccupied", Value: rec.Unoccupied, Color: UnoccupiedColor},
	}
}

// View is everything the analytics screen needs for one render.
type View struct {
	Selected     domain.AttendantRecord `json:"selected"`
	Subjects     []string               `json:"subjects"`
	Distribution []Slice                `json:"distribution"`
	Daily        []domain.SeriesPoint   `json:"daily"`
	Monthly      []domain.SeriesPoint   `json:"monthly"`
	Dimensions   Dimensions             `json:"dimensions"`
}

// View builds the screen state for the selected record and viewport width.
func (d *Dataset) View(selected domain.AttendantRecord, viewportWidth int, layout LayoutConfig) View {
	return View{
		Selected:     selected,
		Subjects:     d.Subjects(),
		Distribution: Distribution(selected),
		Daily:        d.Daily(),
		Monthly:      d.Monthly(),
		Dimensions:   layout.Dimensions(viewportWidth),
	}
}
