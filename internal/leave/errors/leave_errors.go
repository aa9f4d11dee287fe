package leaveerrors

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
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
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
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusConflict,
	)
	ErrApprovalNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"your role may not decide leave requests",
		http.StatusForbidden,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrNonPositiveHours = apperror.New(
		apperror.CodeInvalidInput,
		"hours must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidResolutionType = apperror.New(
		apperror.CodeInvalidInput,
		"resolution type must be PAID, DEDUCTED or COMPENSATED",
		http.StatusBadRequest,
	)
	ErrDocumentDeadlinePassed = apperror.New(
		apperror.CodeDeadlinePassed,
		"the document delivery deadline has passed",
		http.StatusUnprocessableEntity,
	)
)
