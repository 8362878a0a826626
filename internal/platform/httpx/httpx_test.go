package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/georgemunganga/printa-pos/internal/apperr"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestError_PersistenceHidesCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	cause := errors.New(`pq: duplicate key value violates unique constraint "sales_pkey"`)
	err := fmt.Errorf("commit: %w", apperr.Persistence("sale_insert_failed", "failed to save sale", cause))

	rec := httptest.NewRecorder()
	Error(rec, err)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "failed to save sale", body["error"])
	assert.Equal(t, "sale_insert_failed", body["code"])
	assert.NotContains(t, body["error"], "pq:")

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "pq: duplicate key")
}

func TestError_ValidationShownInFull(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Validation("below_floor", "unit price cannot be below the selling price"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "unit price cannot be below the selling price", body["error"])
	assert.Equal(t, "validation", body["kind"])
}

func TestError_UnclassifiedIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decodeBody(t, rec)["error"])
}
