package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/damon-houk/finance-tracker/internal/application/service"
	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/damon-houk/finance-tracker/internal/domain/repository"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// maxRequestBytes bounds request bodies
const maxRequestBytes = 1 << 20

// LedgerHandler serves the envelope-based ledger contract
type LedgerHandler struct {
	service *service.LedgerService
	logger  logger.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service *service.LedgerService, log logger.Logger) *LedgerHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &LedgerHandler{
		service: service,
		logger:  log,
	}
}

// ReadTransactions handles GET /read.php?filter=all|income|expense
func (h *LedgerHandler) ReadTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter, err := entity.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		h.logger.Warn("Invalid filter", map[string]interface{}{
			"request_id": requestID,
			"filter":     r.URL.Query().Get("filter"),
		})
		h.fail(w, requestID, http.StatusBadRequest, "Filter must be all, income or expense")
		return
	}

	txs, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list transactions", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		h.fail(w, requestID, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	h.logger.Debug("Transactions listed", map[string]interface{}{
		"request_id": requestID,
		"filter":     filter,
		"count":      len(txs),
	})

	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Data: txs})
}

// ReadStats handles GET /stats.php
func (h *LedgerHandler) ReadStats(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		h.fail(w, requestID, http.StatusInternalServerError, "Failed to load statistics")
		return
	}

	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Data: stats})
}

// CreateTransaction handles POST /create.php
func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var tx entity.Transaction
	if !h.decode(w, r, requestID, &tx) {
		return
	}

	id, err := h.service.CreateTransaction(r.Context(), &tx)
	if err != nil {
		h.serviceError(w, requestID, "create", err)
		return
	}

	writeEnvelope(w, http.StatusCreated, Envelope{
		Success: true,
		Data:    CreateResponse{ID: id},
		Message: "Transaction created",
	})
}

// UpdateTransaction handles POST /update.php
func (h *LedgerHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var tx entity.Transaction
	if !h.decode(w, r, requestID, &tx) {
		return
	}

	if err := h.service.UpdateTransaction(r.Context(), &tx); err != nil {
		h.serviceError(w, requestID, "update", err)
		return
	}

	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: "Transaction updated"})
}

// DeleteTransaction handles POST /delete.php
func (h *LedgerHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req DeleteRequest
	if !h.decode(w, r, requestID, &req) {
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), string(req.ID)); err != nil {
		h.serviceError(w, requestID, "delete", err)
		return
	}

	writeEnvelope(w, http.StatusOK, Envelope{Success: true, Message: "Transaction deleted"})
}

// RegisterRoutes registers the ledger handler routes
func (h *LedgerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/read.php", h.ReadTransactions).Methods(http.MethodGet)
	router.HandleFunc("/stats.php", h.ReadStats).Methods(http.MethodGet)
	router.HandleFunc("/create.php", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/update.php", h.UpdateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/delete.php", h.DeleteTransaction).Methods(http.MethodPost)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusMethodNotAllowed, Envelope{Success: false, Message: "Method not allowed"})
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, Envelope{Success: false, Message: "Endpoint not found"})
	})

	h.logger.Info("Ledger routes registered", map[string]interface{}{
		"routes": []string{
			"GET /read.php",
			"GET /stats.php",
			"POST /create.php",
			"POST /update.php",
			"POST /delete.php",
		},
	})
}

func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, requestID string, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(dst); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		h.fail(w, requestID, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// serviceError maps service failures onto rejection envelopes
func (h *LedgerHandler) serviceError(w http.ResponseWriter, requestID, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTransaction):
		h.logger.Warn("Validation failed", map[string]interface{}{
			"request_id": requestID,
			"operation":  op,
			"error":      err.Error(),
		})
		msg := strings.TrimPrefix(err.Error(), service.ErrInvalidTransaction.Error()+": ")
		h.fail(w, requestID, http.StatusBadRequest, msg)
	case errors.Is(err, repository.ErrTransactionNotFound):
		h.logger.Warn("Transaction not found", map[string]interface{}{
			"request_id": requestID,
			"operation":  op,
			"error":      err.Error(),
		})
		h.fail(w, requestID, http.StatusNotFound, "Transaction not found")
	default:
		h.logger.Error("Unexpected error", map[string]interface{}{
			"request_id": requestID,
			"operation":  op,
			"error":      err.Error(),
		})
		h.fail(w, requestID, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func (h *LedgerHandler) fail(w http.ResponseWriter, requestID string, status int, message string) {
	h.logger.Debug("Sending rejection", map[string]interface{}{
		"request_id":  requestID,
		"status_code": status,
		"message":     message,
	})
	writeEnvelope(w, status, Envelope{Success: false, Message: message})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
