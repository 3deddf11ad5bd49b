package rest

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, 201, Envelope{"data": "ok"}))

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":"ok"}`, rec.Body.String())
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Text string `json:"text"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"text":"a"}`))
	require.NoError(t, ReadJSON(req, &dst))
	assert.Equal(t, "a", dst.Text)

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"other":"a"}`))
	assert.Error(t, ReadJSON(req, &dst))
}
