package controllers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-courier/middleware"
	"go-courier/repository"

	"github.com/stretchr/testify/assert"
)

func TestWriteErrorLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, errors.New("socket closed"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/counter", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"error":"socket closed"`)
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := map[error]int{
		repository.ErrNotFound:          http.StatusNotFound,
		repository.ErrStatusLocked:      http.StatusConflict,
		repository.ErrAlreadyRegistered: http.StatusOK,
	}
	for err, status := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), discard, err)
		assert.Equal(t, status, rec.Code, err.Error())
	}
}

func TestNumberRejectsEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `" "`, `"NaN"`, `"abc"`} {
		var n number
		assert.Error(t, n.UnmarshalJSON([]byte(raw)), raw)
	}

	var n number
	assert.NoError(t, n.UnmarshalJSON([]byte(`"2.5"`)))
	assert.Equal(t, number(2.5), n)
}
