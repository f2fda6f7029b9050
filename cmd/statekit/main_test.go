package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	ierrors "github.com/statekit-dev/statekit/internal/errors"
)

func TestFprintErrorUsesRegistryFormatForCodedErrors(t *testing.T) {
	ierrors.DisableColors()
	defer ierrors.EnableColors()

	var buf bytes.Buffer
	fprintError(&buf, ierrors.New("E001"))

	out := buf.String()
	if !strings.Contains(out, "E001") {
		t.Errorf("output missing error code:\n%s", out)
	}
	if !strings.Contains(out, "hint:") {
		t.Errorf("output missing fix suggestion:\n%s", out)
	}
}

func TestFprintErrorPlainForUncodedErrors(t *testing.T) {
	var buf bytes.Buffer
	fprintError(&buf, errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "Error:") || !strings.Contains(out, "boom") {
		t.Errorf("unexpected output: %q", out)
	}
}
