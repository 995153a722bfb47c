package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError(t *testing.T) {
	cause := errors.New("boom")
	e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)

	if !errors.Is(e, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if e.Error() != "INTERNAL_ERROR: An internal error occurred: boom" {
		t.Fatalf("unexpected message %q", e.Error())
	}

	body := e.ToHTTPError()
	if body.Code != "INTERNAL_ERROR" || body.Message != "An internal error occurred" || body.Details != nil {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestAppError_WithDetail(t *testing.T) {
	base := NewDomainErrorSimple("LLM_CREDITS_EXHAUSTED", "Out of credits", http.StatusPaymentRequired)
	withURL := base.WithDetail("remediation_url", "https://example.com")

	if base.Details != nil {
		t.Fatalf("base must stay untouched")
	}
	if withURL.ToHTTPError().Details["remediation_url"] != "https://example.com" {
		t.Fatalf("missing detail")
	}
	if withURL.Error() != "LLM_CREDITS_EXHAUSTED: Out of credits" {
		t.Fatalf("unexpected message %q", withURL.Error())
	}
}
