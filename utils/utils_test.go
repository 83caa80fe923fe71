package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFold(t *testing.T) {
	if got := Fold("Cámara FOTOGRÁFICA"); got != "camara fotografica" {
		t.Errorf("Fold = %q", got)
	}
}

func TestLowerES(t *testing.T) {
	if got := LowerES("CÁMARA"); got != "cámara" {
		t.Errorf("LowerES = %q, want cámara", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hola", 10); got != "hola" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("ñandú corre", 5); got != "ñandú..." {
		t.Errorf("Truncate = %q", got)
	}
}

func TestDirSink_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := MultiSink{DirSink{Dir: dir}}
	loc, err := sink.Put(context.Background(), "../civiceye_report_2026-10-18.json", "application/json", []byte("{}"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if filepath.Dir(loc) != dir {
		t.Errorf("file escaped export dir: %s", loc)
	}
	data, err := os.ReadFile(loc)
	if err != nil || string(data) != "{}" {
		t.Errorf("content = %q, %v", data, err)
	}
}

func TestNewLogger_RejectsBadLevel(t *testing.T) {
	if _, err := NewLogger("loud", ""); err == nil {
		t.Error("expected error for unknown level")
	}
	log, err := NewLogger("debug", "")
	if err != nil || log == nil {
		t.Fatalf("NewLogger: %v", err)
	}
}
