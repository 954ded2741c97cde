// Package service contains the business logic layer.
//
// This file implements the attendant service: the parking list that feeds
// the registration form, per-field checks, and the validated submission to
// the Parkiez backend.
package service

import (
	"context"
	"log/slog"

	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/metrics"
)

// FailedToAddAttendant is shown when the backend gives no usable message.
const FailedToAddAttendant = "Failed to add attendant. Please try again."

// AttendantAdded is the success notification text.
const AttendantAdded = "Attendant Added Successfully"

// =============================================================================
// Interface Definition
// =============================================================================

// AttendantBackend is the subset of the backend client the service needs.
type AttendantBackend interface {
	ListParkings(ctx context.Context, operator *domain.Operator) ([]domain.ParkingOption, error)
	AddAttendant(ctx context.Context, operator *domain.Operator, in domain.AttendantInput) error
}

// AttendantService defines the operations behind the add-attendant screen.
type AttendantService interface {
	// ParkingOptions returns the operator's parking areas.
	// Failures are logged and yield an empty list.
	ParkingOptions(ctx context.Context, operator *domain.Operator) []domain.ParkingOption

	// Check applies an on-change edit: the field is updated and only that
	// field is re-validated.
	Check(form domain.AttendantForm, field domain.Field, value string) domain.AttendantForm

	// Create re-validates every field and, when all pass, issues exactly one
	// backend creation request.
	// Returns *domain.ValidationError without calling the backend when any
	// field fails. On success the returned form is reset.
	Create(ctx context.Context, operator *domain.Operator, form domain.AttendantForm) (domain.AttendantForm, error)
}

// =============================================================================
// Implementation
// =============================================================================

type attendantService struct {
	backend   AttendantBackend
	validator domain.AttendantValidator
	logger    *slog.Logger
}

// NewAttendantService creates a new AttendantService.
func NewAttendantService(
	backend AttendantBackend,
	policy domain.PasswordPolicy,
	logger *slog.Logger,
) AttendantService {
	return &attendantService{
		backend:   backend,
		validator: domain.AttendantValidator{Policy: policy},
		logger:    logger,
	}
}

func (s *attendantService) ParkingOptions(ctx context.Context, operator *domain.Operator) []domain.ParkingOption {
	parkings, err := s.backend.ListParkings(ctx, operator)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to fetch parking areas",
			"operator", usernameOf(operator),
			"error", err,
		)
		return []domain.ParkingOption{}
	}
	return parkings
}

func (s *attendantService) Check(form domain.AttendantForm, field domain.Field, value string) domain.AttendantForm {
	return form.Change(s.validator, field, value)
}

func (s *attendantService) Create(ctx context.Context, operator *domain.Operator, form domain.AttendantForm) (domain.AttendantForm, error) {
	const op = "AttendantService.Create"

	form, ok := form.Submit(s.validator)
	if !ok {
		metrics.AttendantSubmitted(metrics.SubmissionInvalid)
		return form, domain.NewValidationError(op, form.Errors)
	}

	if err := s.backend.AddAttendant(ctx, operator, form.Input); err != nil {
		metrics.AttendantSubmitted(metrics.SubmissionFailed)
		s.logger.WarnContext(ctx, "failed to add attendant",
			"operator", usernameOf(operator),
			"parking_id", form.Input.ParkingID,
			"error", err,
		)
		return form, err
	}

	metrics.AttendantSubmitted(metrics.SubmissionCreated)
	s.logger.InfoContext(ctx, "attendant added",
		"operator", usernameOf(operator),
		"parking_id", form.Input.ParkingID,
	)
	return domain.NewAttendantForm(), nil
}

// FailureMessage returns the text shown when an attendant submission fails:
// the backend's message when it sent one, otherwise FailedToAddAttendant.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if domain.ErrorCode(err) == domain.EINTERNAL {
		return FailedToAddAttendant
	}
	msg := domain.ErrorMessage(err)
	if msg == "" {
		return FailedToAddAttendant
	}
	return msg
}

func usernameOf(operator *domain.Operator) string {
	if operator == nil {
		return ""
	}
	return operator.Username
}
