package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type recordedRequest struct {
	route  string
	status int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordRequest(route string, statusCode int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{route: route, status: statusCode})
}

func TestMetricsMiddleware(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped := MetricsMiddleware(recorder, "/v1/models")(handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	if len(recorder.requests) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(recorder.requests))
	}
	got := recorder.requests[0]
	if got.route != "/v1/models" || got.status != http.StatusTeapot {
		t.Errorf("recorded %+v, want /v1/models 418", got)
	}
}

func TestLoggingMiddleware_CapturesStatus(t *testing.T) {
	var inner *statusRecorder
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner, _ = w.(*statusRecorder)
		if GetStartTime(r.Context()).IsZero() {
			t.Error("start time should be set in context")
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad"))
	})

	w := httptest.NewRecorder()
	LoggingMiddleware(handler).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	if inner == nil {
		t.Fatal("handler should receive a status recorder")
	}
	if inner.statusCode != http.StatusBadRequest {
		t.Errorf("statusCode = %v, want %v", inner.statusCode, http.StatusBadRequest)
	}
	if inner.bytes != 3 {
		t.Errorf("bytes = %v, want 3", inner.bytes)
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("Status code = %v, want %v", w.Code, http.StatusBadRequest)
	}
}
