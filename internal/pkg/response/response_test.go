package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	meta := NewMeta(45, 2, 20)
	assert.Equal(t, 3, meta.Pages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	last := NewMeta(45, 3, 20)
	assert.False(t, last.HasNext)

	empty := NewMeta(0, 1, 20)
	assert.Equal(t, 0, empty.Pages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestValidationErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ValidationError(w, map[string]string{"name_uz": "This field is required"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "This field is required", resp.Error.Details["name_uz"])
}

func TestOKEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]int{"score": 74})

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 74, body.Data["score"])
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
