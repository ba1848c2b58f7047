package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stayhub-server/services"

	"github.com/kataras/iris/v12"
)

func TestWriteServiceErrorConcurrencyAborted(t *testing.T) {
	app := iris.New()
	app.Get("/aborted", func(ctx iris.Context) {
		writeServiceError(ctx, &services.ConcurrencyAbortedError{Err: errors.New("database is locked")})
	})
	app.Build()

	req := httptest.NewRequest(http.MethodGet, "/aborted", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Error != "concurrency_aborted" {
		t.Errorf("error code = %q, want concurrency_aborted", payload.Error)
	}
	if !payload.Retryable {
		t.Error("concurrency aborts must be marked retryable")
	}
}
