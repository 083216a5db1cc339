package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewAndWithErrors(t *testing.T) {
	fieldErrors := []FieldError{{Field: "name", Message: "required"}}
	p := New(http.StatusBadRequest, "bad-request", "Bad Request", "details").WithErrors(fieldErrors)

	if got, want := p.Type, BaseURI+"/bad-request"; got != want {
		t.Fatalf("unexpected type: got %q want %q", got, want)
	}
	if p.Status != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", p.Status)
	}
	if len(p.Errors) != 1 || p.Errors[0] != fieldErrors[0] {
		t.Fatalf("errors not set: %+v", p.Errors)
	}
}

func TestProblemWrite(t *testing.T) {
	resp := httptest.NewRecorder()
	p := BadRequest("invalid")
	p.Write(resp)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != ContentType {
		t.Fatalf("missing content type: %s", got)
	}

	var decoded Problem
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded.Title != "Bad Request" || decoded.Detail != "invalid" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestWithKind(t *testing.T) {
	resp := httptest.NewRecorder()
	BadGateway("inference-unavailable", "Inference Unavailable", "timeout").WithKind("TransportError", true).Write(resp)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", resp.Code)
	}
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded["kind"] != "TransportError" || decoded["retryable"] != true {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestServiceUnavailable(t *testing.T) {
	p := ServiceUnavailable("not configured")
	if p.Status != http.StatusServiceUnavailable || p.Type != BaseURI+"/service-unavailable" {
		t.Fatalf("unexpected problem: %+v", p)
	}
	if p.Retryable != nil {
		t.Fatalf("retryable should be omitted unless set")
	}
}
