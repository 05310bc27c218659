package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/httperr"
	"github.com/BruksfildServices01/oficina-maquinas/internal/validators"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"client not found", domain.ErrClientNotFound(), http.StatusNotFound, "client_not_found"},
		{"wrapped part not found", fmt.Errorf("update: %w", domain.ErrPartNotFound()), http.StatusNotFound, "part_not_found"},
		{"storage", fmt.Errorf("%w: read @clientes: timeout", domain.ErrStorageUnavailable), http.StatusServiceUnavailable, "storage_unavailable"},
		{"corrupt", fmt.Errorf("%w: @pecas", domain.ErrCorruptCollection), http.StatusInternalServerError, "collection_corrupted"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)

			var body httperr.HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Len(t, c.Errors, 1)
		})
	}
}

func TestBindJSON_NegativeQuantity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validators.Register()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"nome":"Gaxeta","quantidade":-1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req PartRequest
	assert.False(t, bindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Quantidade não pode ser negativa")
}
