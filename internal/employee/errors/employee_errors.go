package employeeerrors

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
	ErrInvalidTargetStatus = apperror.New(
		apperror.CodeInvalidInput,
		"unknown target status",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"the requested status transition is not allowed",
		http.StatusConflict,
	)
	ErrTransitionNotPermitted = apperror.New(
		apperror.CodeForbidden,
		"your role may not perform this status transition",
		http.StatusForbidden,
	)
	ErrNoCoveringAbsence = apperror.New(
		apperror.CodeInvalidState,
		"no approved leave or sick leave covers the current date",
		http.StatusConflict,
	)
	ErrDuplicateEmail = apperror.New(
		apperror.CodeConflict,
		"an employee with this email already exists",
		http.StatusConflict,
	)
)
