package vectordb

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoggerRespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelWarn)

	log.Debug("should not appear")
	log.Info("should not appear either")
	log.Warn("this one shows", "key", "value")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("log output contains a below-threshold message: %q", out)
	}
	if !strings.Contains(out, "this one shows") {
		t.Errorf("log output missing expected message: %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("log output missing key=value pair: %q", out)
	}
}

func TestLoggerWithMergesKeyvals(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelDebug).With("request_id", "abc")
	log.Info("handled", "status", "ok")

	out := buf.String()
	if !strings.Contains(out, "request_id=abc") {
		t.Errorf("log output missing inherited keyval: %q", out)
	}
	if !strings.Contains(out, "status=ok") {
		t.Errorf("log output missing call-site keyval: %q", out)
	}
}

func TestLogErrorTagsOpAndKind(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelDebug)

	LogError(log, NewNotFound("catalog.GetChunk", "chunk-1"))

	out := buf.String()
	if !strings.Contains(out, "op=catalog.GetChunk") {
		t.Errorf("log output missing op field: %q", out)
	}
	if !strings.Contains(out, "kind=not_found") {
		t.Errorf("log output missing kind field: %q", out)
	}
}

func TestLogErrorSeverityFollowsKind(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelWarn)

	LogError(log, NewNotFound("catalog.GetChunk", "chunk-1"))
	if !strings.Contains(buf.String(), "chunk-1") {
		t.Errorf("Warn-level NotFound should pass a Warn-threshold logger: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("NotFound should log at Warn severity: %q", buf.String())
	}

	buf.Reset()
	LogError(log, errors.New("unmodeled failure"))
	if !strings.Contains(buf.String(), "unmodeled failure") {
		t.Errorf("non-*Error should still log at Error severity: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Errorf("non-*Error should log at Error severity: %q", buf.String())
	}
}

func TestLogErrorNilIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelDebug)
	LogError(log, nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) wrote output: %q", buf.String())
	}
}

func TestNopLoggerDiscardsEverything(t *testing.T) {
	log := NopLogger()
	log.Debug("x")
	log.Info("y")
	log.Warn("z")
	log.Error("w")
	if log.With("a", "b") == nil {
		t.Error("With() on NopLogger returned nil")
	}
}
