package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"занято"}`, rec.Body.String())
}

func TestRespondJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"room"}`))
	require.NoError(t, DecodeJSON(req, &p))
	assert.Equal(t, "room", p.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"room","extra":1}`))
	assert.Error(t, DecodeJSON(req, &p))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Error(t, DecodeJSON(req, &p))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	assert.Error(t, DecodeJSON(req, &p))
}

func TestDecodeOptionalJSON(t *testing.T) {
	type payload struct {
		Reason string `json:"reason"`
	}

	var p payload
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	assert.NoError(t, DecodeOptionalJSON(req, &p))

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"reason":"busy"}`))
	require.NoError(t, DecodeOptionalJSON(req, &p))
	assert.Equal(t, "busy", p.Reason)
}
