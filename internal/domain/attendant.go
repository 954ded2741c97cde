// Package domain contains core business types for the Parkiez operator console.
//
// This file defines the attendant registration input, the per-field
// validators and the form state that the registration screen is built on.
package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field identifies one input of the attendant registration form.
// The string values match the form field names and the backend JSON keys.
type Field string

const (
	FieldName      Field = "name"
	FieldPhoneNo   Field = "phoneNo"
	FieldParkingID Field = "parkingId"
	FieldPassword  Field = "password"
)

// AttendantFields lists the form fields in display order.
var AttendantFields = []Field{FieldName, FieldPhoneNo, FieldParkingID, FieldPassword}

// ParseField returns the Field named s, or false if s is not a form field.
func ParseField(s string) (Field, bool) {
	for _, f := range AttendantFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// AttendantInput is the payload sent to the backend to create an attendant.
type AttendantInput struct {
	Name      string `json:"name"`
	PhoneNo   string `json:"phoneNo"`
	ParkingID string `json:"parkingId"`
	Password  string `json:"password"`
}

// Value returns the current value of field f.
func (in AttendantInput) Value(f Field) string {
	switch f {
	case FieldName:
		return in.Name
	case FieldPhoneNo:
		return in.PhoneNo
	case FieldParkingID:
		return in.ParkingID
	case FieldPassword:
		return in.Password
	}
	return ""
}

// With returns a copy of the input with field f set to value.
func (in AttendantInput) With(f Field, value string) AttendantInput {
	switch f {
	case FieldName:
		in.Name = value
	case FieldPhoneNo:
		in.PhoneNo = value
	case FieldParkingID:
		in.ParkingID = value
	case FieldPassword:
		in.Password = value
	}
	return in
}

// ParkingOption is one parking area the operator can assign an attendant to.
type ParkingOption struct {
	ParkingID string `json:"parkingId"`
	Title     string `json:"title"`
}

// Label is the text shown in the parking selection control.
func (p ParkingOption) Label() string {
	return fmt.Sprintf("%s (ID: %s)", p.Title, p.ParkingID)
}

// =============================================================================
// Field Results
// =============================================================================

// FieldResult is the outcome of validating a single field value.
// The zero value is a valid result.
type FieldResult struct {
	reasons []string
}

// Valid returns a passing result.
func Valid() FieldResult {
	return FieldResult{}
}

// Fail returns a failing result with one or more reasons.
func Fail(reasons ...string) FieldResult {
	return FieldResult{reasons: append([]string(nil), reasons...)}
}

// IsValid reports whether the field passed validation.
func (r FieldResult) IsValid() bool {
	return len(r.reasons) == 0
}

// Reasons returns a copy of the failure reasons in rule order.
func (r FieldResult) Reasons() []string {
	return append([]string(nil), r.reasons...)
}

// Reason returns the failure reasons joined for display, or "" when valid.
func (r FieldResult) Reason() string {
	return strings.Join(r.reasons, "; ")
}

// =============================================================================
// Validation Errors
// =============================================================================

// ValidationErrors records the latest validation result per field.
// It is immutable: With returns a new record and leaves the receiver as is.
type ValidationErrors struct {
	results map[Field]FieldResult
}

// With returns a copy of e with the result for f replaced.
func (e ValidationErrors) With(f Field, r FieldResult) ValidationErrors {
	next := make(map[Field]FieldResult, len(e.results)+1)
	for k, v := range e.results {
		next[k] = v
	}
	next[f] = r
	return ValidationErrors{results: next}
}

// Checked reports whether f has been validated at least once.
func (e ValidationErrors) Checked(f Field) bool {
	_, ok := e.results[f]
	return ok
}

// Result returns the latest result for f. Unchecked fields are valid.
func (e ValidationErrors) Result(f Field) FieldResult {
	return e.results[f]
}

// Message returns the display message for f, or "" if f is valid or unchecked.
func (e ValidationErrors) Message(f Field) string {
	return e.results[f].Reason()
}

// HasErrors reports whether any checked field is invalid.
func (e ValidationErrors) HasErrors() bool {
	for _, r := range e.results {
		if !r.IsValid() {
			return true
		}
	}
	return false
}

// Messages returns the invalid fields keyed by form field name.
func (e ValidationErrors) Messages() map[string]string {
	out := make(map[string]string)
	for f, r := range e.results {
		if !r.IsValid() {
			out[string(f)] = r.Reason()
		}
	}
	return out
}

// =============================================================================
// Validators
// =============================================================================

const (
	MinNameLength     = 3
	MinPasswordLength = 8

	// PasswordSpecialChars is the set a password must draw at least one character from.
	PasswordSpecialChars = "!@#$%^&*"
)

var phoneNoPattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidateName requires at least three characters after trimming.
func ValidateName(name string) FieldResult {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < MinNameLength {
		return Fail("Name must be at least 3 characters long")
	}
	return Valid()
}

// ValidatePhoneNo requires exactly ten decimal digits.
func ValidatePhoneNo(phoneNo string) FieldResult {
	if !phoneNoPattern.MatchString(phoneNo) {
		return Fail("Phone number must be 10 digits")
	}
	return Valid()
}

// ValidateParkingID requires a non-blank parking selection.
func ValidateParkingID(parkingID string) FieldResult {
	if strings.TrimSpace(parkingID) == "" {
		return Fail("Parking Id is required")
	}
	return Valid()
}

// PasswordPolicy selects how many failing password rules are reported.
type PasswordPolicy int

const (
	// PasswordReportAll reports every failing rule in rule order.
	PasswordReportAll PasswordPolicy = iota
	// PasswordReportFirst reports only the first failing rule.
	PasswordReportFirst
)

// ParsePasswordPolicy parses "all" or "first".
func ParsePasswordPolicy(s string) (PasswordPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return PasswordReportAll, nil
	case "first":
		return PasswordReportFirst, nil
	}
	return PasswordReportAll, fmt.Errorf("password policy must be 'all' or 'first', got: %s", s)
}

func (p PasswordPolicy) String() string {
	if p == PasswordReportFirst {
		return "first"
	}
	return "all"
}

type passwordRule struct {
	ok      func(string) bool
	message string
}

var passwordRules = []passwordRule{
	{func(s string) bool { return utf8.RuneCountInString(s) >= MinPasswordLength }, "Password must be at least 8 characters long"},
	{func(s string) bool { return containsRange(s, 'A', 'Z') }, "Password must contain at least one uppercase letter"},
	{func(s string) bool { return containsRange(s, 'a', 'z') }, "Password must contain at least one lowercase letter"},
	{func(s string) bool { return containsRange(s, '0', '9') }, "Password must contain at least one number"},
	{func(s string) bool { return strings.ContainsAny(s, PasswordSpecialChars) }, "Password must contain at least one special character"},
}

func containsRange(s string, lo, hi rune) bool {
	for _, c := range s {
		if c >= lo && c <= hi {
			return true
		}
	}
	return false
}

// ValidatePassword checks length, upper, lower, digit and special-character
// rules, reporting failures according to policy.
func ValidatePassword(password string, policy PasswordPolicy) FieldResult {
	var reasons []string
	for _, rule := range passwordRules {
		if rule.ok(password) {
			continue
		}
		reasons = append(reasons, rule.message)
		if policy == PasswordReportFirst {
			break
		}
	}
	if len(reasons) == 0 {
		return Valid()
	}
	return Fail(reasons...)
}

// AttendantValidator validates attendant registration fields.
type AttendantValidator struct {
	Policy PasswordPolicy
}

// Field runs the validator for f only.
func (v AttendantValidator) Field(f Field, value string) FieldResult {
	switch f {
	case FieldName:
		return ValidateName(value)
	case FieldPhoneNo:
		return ValidatePhoneNo(value)
	case FieldParkingID:
		return ValidateParkingID(value)
	case FieldPassword:
		return ValidatePassword(value, v.Policy)
	}
	return Valid()
}

// All validates every field of in, regardless of earlier results.
func (v AttendantValidator) All(in AttendantInput) ValidationErrors {
	var errs ValidationErrors
	for _, f := range AttendantFields {
		errs = errs.With(f, v.Field(f, in.Value(f)))
	}
	return errs
}

// =============================================================================
// Form State
// =============================================================================

// FieldState drives the visual state of a form control.
type FieldState string

const (
	FieldStateNeutral FieldState = "neutral"
	FieldStateValid   FieldState = "valid"
	FieldStateInvalid FieldState = "invalid"
)

// AttendantForm is the state of the registration screen: the values entered
// so far and the latest validation result per field.
type AttendantForm struct {
	Input  AttendantInput
	Errors ValidationErrors
}

// NewAttendantForm returns an empty form.
func NewAttendantForm() AttendantForm {
	return AttendantForm{}
}

// Change sets field f and re-validates that field only. Results for other
// fields are carried over unchanged.
func (f AttendantForm) Change(v AttendantValidator, field Field, value string) AttendantForm {
	return AttendantForm{
		Input:  f.Input.With(field, value),
		Errors: f.Errors.With(field, v.Field(field, value)),
	}
}

// Submit re-validates every field and reports whether the form may be sent.
func (f AttendantForm) Submit(v AttendantValidator) (AttendantForm, bool) {
	errs := v.All(f.Input)
	return AttendantForm{Input: f.Input, Errors: errs}, !errs.HasErrors()
}

// State returns the display state of field: invalid when its latest result
// failed, valid when it holds a value that passed, neutral otherwise.
func (f AttendantForm) State(field Field) FieldState {
	if !f.Errors.Result(field).IsValid() {
		return FieldStateInvalid
	}
	if f.Input.Value(field) != "" {
		return FieldStateValid
	}
	return FieldStateNeutral
}
