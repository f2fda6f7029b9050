package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewRegisteredCode(t *testing.T) {
	err := New("E001")
	if err.Code != "E001" {
		t.Errorf("expected code E001, got %s", err.Code)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("expected runtime category, got %s", err.Category)
	}
	if !strings.Contains(err.Error(), "E001") {
		t.Errorf("error string should carry the code: %s", err.Error())
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Code != "E999" {
		t.Errorf("expected code E999, got %s", err.Code)
	}
	if err.Message != "unknown error" {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E041").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryConfig, "bad value %q", "x")
	if err.Code != "" {
		t.Errorf("Newf should not assign a code, got %s", err.Code)
	}
	if err.Error() != `bad value "x"` {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestFormatIncludesSuggestion(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("E002").Format()
	if !strings.Contains(out, "hint:") {
		t.Errorf("formatted output missing suggestion:\n%s", out)
	}
	if !strings.Contains(out, "E002") {
		t.Errorf("formatted output missing code:\n%s", out)
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("E001"); !ok {
		t.Error("E001 should be registered")
	}
	if _, ok := Lookup("E999"); ok {
		t.Error("E999 should not be registered")
	}
}
