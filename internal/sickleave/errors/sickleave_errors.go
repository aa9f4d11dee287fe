package sickleaveerrors

import (
	"net/http"

	"go-foresthr/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrTypeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"sick leave type is required",
		http.StatusBadRequest,
	)
	ErrNonPositiveDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrNoteRequired = apperror.New(
		apperror.CodeInvalidInput,
		"note is required",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrSickLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"sick leave not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid sick leave status transition",
		http.StatusConflict,
	)
	ErrCancelNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"only an administrator may cancel a sick leave",
		http.StatusForbidden,
	)
)
