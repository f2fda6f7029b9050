package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/statekit-dev/statekit/pkg/store"
)

var errOpaque = errors.New("something broke")

func TestLoggingPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mw := Logging(logger)
	dispatch := mw(func(store.Action) error { return nil })

	if err := dispatch(tick{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "TICK") {
		t.Errorf("log should name the action type, got: %s", out)
	}
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("successful dispatch should log at debug, got: %s", out)
	}
}

func TestLoggingWarnsOnRejection(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mw := Logging(logger)
	dispatch := mw(func(store.Action) error { return errOpaque })

	if err := dispatch(tick{}); !errors.Is(err, errOpaque) {
		t.Fatalf("error should propagate, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("rejected dispatch should log at warn, got: %s", out)
	}
	if !strings.Contains(out, "something broke") {
		t.Errorf("log should include the error, got: %s", out)
	}
}

func TestOpenTelemetryPropagatesResult(t *testing.T) {
	mw := OpenTelemetry(
		WithStoreName("counter"),
		WithAttributeExtractor(func(store.Action) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	calls := 0
	dispatch := mw(func(store.Action) error {
		calls++
		return nil
	})

	if err := dispatch(tick{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("next should run once, ran %d times", calls)
	}

	dispatch = mw(func(store.Action) error { return errOpaque })
	if err := dispatch(tick{}); !errors.Is(err, errOpaque) {
		t.Fatalf("error should propagate through the span, got %v", err)
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	mw := OpenTelemetry(
		WithActionFilter(func(a store.Action) bool {
			return a.ActionType() != "TICK"
		}),
	)

	dispatch := mw(func(store.Action) error { return nil })
	if err := dispatch(tick{}); err != nil {
		t.Fatalf("filtered dispatch should still run, got %v", err)
	}
}
