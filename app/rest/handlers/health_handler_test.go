package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_port "github.com/cattyman919/contact/app/mocks"
)

func TestHealthHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		heap       uint64
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all up",
			heap:       10 << 20,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"Success","statusCode":200,"data":{"database":"up","memory":"up"}}`,
		},
		{
			name:       "database down",
			dbErr:      errors.New("connection refused"),
			heap:       10 << 20,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"Error","statusCode":503,"data":{"database":"down","memory":"up"}}`,
		},
		{
			name:       "heap above limit",
			heap:       DefaultHeapLimit + 1,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"Error","statusCode":503,"data":{"database":"up","memory":"down"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			db := mock_port.NewMockHealthChecker(ctrl)
			db.EXPECT().HealthCheck(gomock.Any()).Return(tt.dbErr)

			h := NewHealthHandler(db, DefaultHeapLimit, testLogger())
			h.heapInUse = func() uint64 { return tt.heap }

			e := newTestEcho()
			e.GET("/api/v1/health", h.HealthCheck)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestReadHeapAlloc(t *testing.T) {
	assert.NotZero(t, readHeapAlloc())
}
