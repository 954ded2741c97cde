package domain

// AttendantRecord holds the booking and occupancy totals of one attendant.
type AttendantRecord struct {
	Name       string `json:"name"`
	Bookings   int    `json:"bookings"`
	Occupied   int    `json:"occupied"`
	Unoccupied int    `json:"unoccupied"`
}

// SeriesPoint is one labelled value of a booking time series.
type SeriesPoint struct {
	Label    string `json:"label"`
	Bookings int    `json:"bookings"`
}
