package auth

import "github.com/DukeRupert/parkiez/internal/templ/shared"

// LoginPageData contains data for the login page
type LoginPageData struct {
	CurrentPath string
	Form        FormData
	Errors      map[string]string
	Flash       *shared.Flash
	CSRFToken   string
	ReturnTo    string
}

// FormData holds form field values for repopulation after validation errors.
// The password is never echoed back.
type FormData struct {
	Username string
}
