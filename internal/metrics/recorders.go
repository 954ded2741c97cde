package metrics

import (
	"strconv"
	"time"
)

// Submission outcomes for AttendantSubmissionsTotal.
const (
	SubmissionCreated = "created"
	SubmissionInvalid = "invalid"
	SubmissionFailed  = "failed"
)

// BackendCall records a completed backend request. A status of 0 means the
// request never produced a response.
func BackendCall(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	BackendRequestsTotal.WithLabelValues(endpoint, label).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// AttendantSubmitted records the outcome of an add-attendant submission.
func AttendantSubmitted(result string) {
	AttendantSubmissionsTotal.WithLabelValues(result).Inc()
}

// AnalyticsViewed records a chart render in the given layout.
func AnalyticsViewed(layout string) {
	AnalyticsViewsTotal.WithLabelValues(layout).Inc()
}
