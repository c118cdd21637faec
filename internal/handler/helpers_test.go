package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kiwari-pos/console/internal/auth"
	"github.com/kiwari-pos/console/internal/middleware"
)

// --- Helpers ---

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeObject(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// asUser injects claims the way middleware.Authenticate would.
func asUser(claims *auth.Claims) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithClaims(r.Context(), claims)))
		})
	}
}

// --- Mock metrics ---

type recordedCall struct {
	label string
	err   error
}

type mockMetrics struct {
	mu       sync.Mutex
	statuses []recordedCall
	menu     []recordedCall
	images   []recordedCall
}

func (m *mockMetrics) StatusUpdate(status string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, recordedCall{status, err})
}

func (m *mockMetrics) MenuMutation(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menu = append(m.menu, recordedCall{op, err})
}

func (m *mockMetrics) ImageEncode(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = append(m.images, recordedCall{"", err})
}
