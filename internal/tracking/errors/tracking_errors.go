package trackingerrors

import (
	"net/http"

	"go-foresthr/internal/shared/apperror"
)

var (
	ErrInvalidParentType = apperror.New(
		apperror.CodeInvalidInput,
		"parent type must be LEAVE or SICK_LEAVE",
		http.StatusBadRequest,
	)
)
