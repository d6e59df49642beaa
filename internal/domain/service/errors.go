package service

import "fmt"

// TransportFailureMessage is shown when the ledger service could not be reached
// or answered with something that is not a valid envelope
const TransportFailureMessage = "Could not reach the ledger service"

// ServerError is returned when the ledger service answers with success=false
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// TransportError wraps network, status and decoding failures
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, TransportFailureMessage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
