package dashboard

import "github.com/DukeRupert/parkiez/internal/templ/shared"

// PageData contains data for the operator dashboard.
type PageData struct {
	CurrentPath string
	CSRFToken   string
	Operator    string
	Flash       *shared.Flash
}
