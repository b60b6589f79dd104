package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, detailsOK: true},
		{code: CodeInvalidQuantity, status: http.StatusBadRequest, detailsOK: true},
		{code: CodeInvalidOptionSelection, status: http.StatusBadRequest, detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized},
		{code: CodeNotFound, status: http.StatusNotFound},
		{code: CodeConflict, status: http.StatusConflict},
		{code: CodeInconsistentCart, status: http.StatusInternalServerError},
		{code: CodeUpstreamUnavailable, status: http.StatusServiceUnavailable, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestHasCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("load menu: %w", UpstreamUnavailable("menu", stdErrors.New("timeout")))
	if !HasCode(err, CodeUpstreamUnavailable) {
		t.Fatalf("expected upstream code in chain")
	}
	if typed := As(err); typed == nil || !typed.Retryable() {
		t.Fatalf("upstream errors must be retryable")
	}
	if HasCode(nil, CodeNotFound) {
		t.Fatalf("nil error should not carry a code")
	}
}

func TestDomainConstructors(t *testing.T) {
	qty := InvalidQuantity(120, 1, 99)
	details, ok := qty.Details().(map[string]any)
	if !ok || details["quantity"] != 120 {
		t.Fatalf("unexpected details %#v", qty.Details())
	}

	nf := NotFound("menu item", "abc")
	if nf.Code() != CodeNotFound || nf.Message() != "menu item not found" {
		t.Fatalf("unexpected not found error %v", nf)
	}

	if InconsistentCart("two restaurants").Retryable() {
		t.Fatalf("integrity violations must not be retryable")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(CodeDependency, stdErrors.New("inner"), "db"))
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(dump.Chain))
	}
	if _, ok := dump.Fields()["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted for non-postgres errors")
	}
}
