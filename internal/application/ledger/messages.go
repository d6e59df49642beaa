package ledger

import (
	"errors"

	"github.com/damon-houk/finance-tracker/internal/domain/service"
)

// Notice returns the user-facing notification for the outcome of op
func Notice(op Operation, err error) string {
	if err == nil {
		switch op {
		case OpCreate:
			return "Transaction added"
		case OpUpdate:
			return "Transaction updated"
		case OpRemove:
			return "Transaction deleted"
		default:
			return "Data refreshed"
		}
	}

	var validationErr *ValidationError
	var serverErr *ServerError
	switch {
	case errors.As(err, &validationErr):
		return "All fields must be filled in correctly: " + validationErr.Error()
	case errors.Is(err, ErrMissingID):
		return "No transaction selected"
	case errors.Is(err, ErrBusy):
		return "Another operation is still in progress, try again shortly"
	case errors.Is(err, ErrTimeout):
		return "The ledger service did not respond in time"
	case errors.As(err, &serverErr):
		if op == OpLoad {
			return "Failed to load data: " + serverErr.Message
		}
		if op == OpRemove {
			return "Failed to delete: " + serverErr.Message
		}
		return "Failed to save: " + serverErr.Message
	case op == OpLoad:
		return "Failed to load data. Make sure the ledger service is running"
	default:
		return service.TransportFailureMessage
	}
}
