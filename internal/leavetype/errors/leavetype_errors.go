package leavetypeerrors

import (
	"net/http"

	"go-foresthr/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"a leave type with this code already exists",
		http.StatusConflict,
	)
	ErrInvalidResolutionType = apperror.New(
		apperror.CodeInvalidInput,
		"default_resolution_type must be PAID, DEDUCTED or COMPENSATED",
		http.StatusBadRequest,
	)
	ErrInvalidAbsenceStatus = apperror.New(
		apperror.CodeInvalidInput,
		"absence_status must be ON_VACATION or ON_LEAVE",
		http.StatusBadRequest,
	)
)
