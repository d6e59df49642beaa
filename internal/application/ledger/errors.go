package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/damon-houk/finance-tracker/internal/domain/service"
)

var (
	// ErrBusy is returned when a mutating operation is attempted while another is in flight
	ErrBusy = errors.New("another operation is in progress")

	// ErrTimeout is returned when the ledger service does not answer within the configured timeout
	ErrTimeout = errors.New("ledger service did not respond in time")

	// ErrMissingID is returned when an update or removal names no transaction
	ErrMissingID = errors.New("transaction id is required")

	// ErrConfirmationUnavailable is returned by Remove when no Confirmer was configured
	ErrConfirmationUnavailable = errors.New("removal requires a confirmation step")
)

type (
	// ServerError carries the message of a success=false envelope verbatim
	ServerError = service.ServerError
	// TransportError wraps network and decoding failures
	TransportError = service.TransportError
)

// ValidationError lists the draft fields that failed local validation.
// No request is sent while a draft has validation errors.
type ValidationError struct {
	Fields  []Field
	Reasons map[Field]string
}

func (e *ValidationError) add(field Field, reason string) {
	if e.Reasons == nil {
		e.Reasons = make(map[Field]string)
	}
	if _, seen := e.Reasons[field]; !seen {
		e.Fields = append(e.Fields, field)
	}
	e.Reasons[field] = reason
}

// Has reports whether field failed validation
func (e *ValidationError) Has(field Field) bool {
	_, ok := e.Reasons[field]
	return ok
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f, e.Reasons[f]))
	}
	sort.Strings(parts)
	return "invalid draft: " + strings.Join(parts, ", ")
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}
