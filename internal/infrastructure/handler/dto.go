package handler

import "github.com/damon-houk/finance-tracker/internal/domain/entity"

// Envelope wraps every response the ledger server sends
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// DeleteRequest is the body of delete.php
type DeleteRequest struct {
	ID entity.RecordID `json:"id"`
}

// CreateResponse carries the ID assigned to a new transaction
type CreateResponse struct {
	ID string `json:"id"`
}
