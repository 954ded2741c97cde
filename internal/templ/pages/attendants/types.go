// Package attendants holds the view models of the add-attendant screen.
package attendants

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

// Input control classes. State classes are merged over the base so the
// state border colour wins.
const (
	fieldBaseClass    = "mt-1 block w-full rounded-md border border-gray-300 bg-white px-3 py-2 text-sm shadow-sm focus:outline-none focus:ring-2 focus:ring-indigo-500"
	fieldInvalidClass = "border-red-500 focus:ring-red-500"
	fieldValidClass   = "border-green-500 focus:ring-green-500"
)

// ParkingPlaceholder is the leading empty option of the parking select.
const ParkingPlaceholder = "Select Parking Area"

// NewPageData contains data for the add-attendant page.
type NewPageData struct {
	CurrentPath string
	CSRFToken   string
	Operator    string
	Flash       *shared.Flash
	Form        FormView
}

// FormView is the add-attendant form as rendered.
type FormView struct {
	Fields []FieldView
}

// Field returns the view of field f.
func (v FormView) Field(f domain.Field) FieldView {
	for _, fv := range v.Fields {
		if fv.Name == string(f) {
			return fv
		}
	}
	return FieldView{}
}

// FieldView is one labelled control with its validation state.
type FieldView struct {
	Name         string
	Label        string
	Type         string // text, tel, password or select
	Placeholder  string
	AutoComplete string
	Value        string
	Message      string
	State        domain.FieldState
	Class        string
	Options      []OptionView
}

// IsSelect reports whether the field renders as a select control.
func (f FieldView) IsSelect() bool {
	return f.Type == "select"
}

// Invalid reports whether the field failed its latest check.
func (f FieldView) Invalid() bool {
	return f.State == domain.FieldStateInvalid
}

// OptionView is one entry of a select control.
type OptionView struct {
	Value    string
	Label    string
	Selected bool
}

type fieldSpec struct {
	field        domain.Field
	label        string
	kind         string
	placeholder  string
	autoComplete string
}

var fieldSpecs = []fieldSpec{
	{domain.FieldName, "Name", "text", "Attendant name", "name"},
	{domain.FieldPhoneNo, "Phone Number", "tel", "10 digit phone number", "tel"},
	{domain.FieldParkingID, "Parking Area", "select", "", ""},
	{domain.FieldPassword, "Password", "password", "Password", "new-password"},
}

// NewFormView builds the form view from the form state and parking options.
func NewFormView(form domain.AttendantForm, parkings []domain.ParkingOption) FormView {
	fields := make([]FieldView, 0, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		fields = append(fields, NewFieldView(form, spec.field, parkings))
	}
	return FormView{Fields: fields}
}

// NewFieldView builds the view of a single field. Parking options are only
// used by the parking select.
func NewFieldView(form domain.AttendantForm, f domain.Field, parkings []domain.ParkingOption) FieldView {
	var spec fieldSpec
	for _, s := range fieldSpecs {
		if s.field == f {
			spec = s
		}
	}

	state := form.State(f)
	fv := FieldView{
		Name:         string(f),
		Label:        spec.label,
		Type:         spec.kind,
		Placeholder:  spec.placeholder,
		AutoComplete: spec.autoComplete,
		Value:        form.Input.Value(f),
		Message:      form.Errors.Message(f),
		State:        state,
		Class:        FieldClass(state),
	}
	if fv.IsSelect() {
		fv.Options = parkingOptions(parkings, fv.Value)
	}
	return fv
}

func parkingOptions(parkings []domain.ParkingOption, selected string) []OptionView {
	opts := make([]OptionView, 0, len(parkings)+1)
	opts = append(opts, OptionView{Value: "", Label: ParkingPlaceholder, Selected: selected == ""})
	for _, p := range parkings {
		opts = append(opts, OptionView{
			Value:    p.ParkingID,
			Label:    p.Label(),
			Selected: p.ParkingID == selected,
		})
	}
	return opts
}

// FieldClass returns the input classes for a display state.
func FieldClass(state domain.FieldState) string {
	switch state {
	case domain.FieldStateInvalid:
		return twmerge.Merge(fieldBaseClass, fieldInvalidClass)
	case domain.FieldStateValid:
		return twmerge.Merge(fieldBaseClass, fieldValidClass)
	default:
		return fieldBaseClass
	}
}
