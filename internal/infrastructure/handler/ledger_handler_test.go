package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/finance-tracker/internal/application/service"
	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	"github.com/damon-houk/finance-tracker/internal/mocks"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *mocks.MockTransactionRepository) *mux.Router {
	log := logger.NewNoOpLogger()
	router := mux.NewRouter()
	NewLedgerHandler(service.NewLedgerService(repo, log), log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestReadTransactions(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	router := newTestRouter(repo)

	date, _ := entity.ParseDate("2024-01-05")
	repo.On("List", mock.Anything, entity.FilterIncome).Return([]entity.Transaction{{
		ID: "1", Type: entity.TypeIncome, Amount: decimal.NewFromInt(10), Category: "Gift",
		Description: "Cash", Date: date,
	}}, nil).Once()

	w, env := serve(router, http.MethodGet, "/read.php?filter=income", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, true, env["success"])
	data, ok := env["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, "2024-01-05", data[0].(map[string]interface{})["date"])
	repo.AssertExpectations(t)
}

func TestReadTransactionsEmptyListIsAnArray(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	router := newTestRouter(repo)
	repo.On("List", mock.Anything, entity.FilterAll).Return([]entity.Transaction{}, nil).Once()

	w, _ := serve(router, http.MethodGet, "/read.php", "")

	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestRepositoryFailureIsAnInternalError(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	router := newTestRouter(repo)
	repo.On("List", mock.Anything, entity.FilterAll).Return(nil, errors.New("disk full")).Twice()

	w, env := serve(router, http.MethodGet, "/stats.php", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "Failed to load statistics", env["message"])

	w, env = serve(router, http.MethodGet, "/read.php?filter=all", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, env["message"], "disk full")
}

func TestUpdateUsesIDFromBody(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	router := newTestRouter(repo)

	repo.On("Update", mock.Anything, mock.MatchedBy(func(tx *entity.Transaction) bool {
		return tx.ID == "77" && tx.Category == "Health"
	})).Return(nil).Once()

	w, env := serve(router, http.MethodPost, "/update.php", `{
		"id": 77, "type": "expense", "amount": "120000", "category": "Health",
		"description": "Dentist", "date": "2024-03-01"
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env["success"])
	repo.AssertExpectations(t)
}

func TestMalformedBody(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	router := newTestRouter(repo)

	w, env := serve(router, http.MethodPost, "/create.php", `{"type": "income",`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", env["message"])
	repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestDeleteRequestID(t *testing.T) {
	var req DeleteRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id": "abc"}`), &req))
	assert.Equal(t, entity.RecordID("abc"), req.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": 42}`), &req))
	assert.Equal(t, entity.RecordID("42"), req.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id": true}`), &req))
}
