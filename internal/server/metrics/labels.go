package metrics

import (
	"errors"

	"github.com/dmitrijs2005/matchbox/internal/common"
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrorForbidden):
		return "forbidden"
	case errors.Is(err, common.ErrorInvalidState):
		return "invalid_state"
	case errors.Is(err, common.ErrorValidation):
		return "validation"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	default:
		return "error"
	}
}
