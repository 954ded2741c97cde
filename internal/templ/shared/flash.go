// Package shared holds view types used by several pages.
package shared

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash represents a one-shot message shown as a toast.
type Flash struct {
	Type    string // "success", "error", "warning" or "info"
	Message string
}

// Success returns a success flash.
func Success(message string) *Flash {
	return &Flash{Type: FlashSuccess, Message: message}
}

// Error returns an error flash.
func Error(message string) *Flash {
	return &Flash{Type: FlashError, Message: message}
}
