package errorhandler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/edumap/edumap-api/internal/pkg/logger"
)

func TestInternalHidesCause(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := logger.WithRequestID(logger.WithContext(context.Background(), &l), "req-1")

	w := httptest.NewRecorder()
	Internal(ctx, w, errors.New("pq: relation \"institutions\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
	assert.True(t, strings.Contains(buf.String(), `"request_id":"req-1"`))
	assert.True(t, strings.Contains(buf.String(), "relation"))
}

func TestHandleValidation(t *testing.T) {
	w := httptest.NewRecorder()
	HandleValidation(context.Background(), w, map[string]string{"type": "Invalid value"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
