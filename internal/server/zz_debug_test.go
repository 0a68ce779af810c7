package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestZZDebugLimiter(t *testing.T) {
	mw := newRateLimitMiddleware(1, 2)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:55555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		fmt.Println("direct mw req", i, "code", rr.Code)
	}
}
