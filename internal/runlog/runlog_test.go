package runlog

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \| (INFO|WARN|ERROR|SUCCESS) \| .+$`)

func TestLoggerLineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	log, err := New(path, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Infof("fetching %d rows", 42)
	log.Warnf("csv export skipped")
	log.Errorf("boom")
	log.Successf("done")
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if !linePattern.MatchString(line) {
			t.Fatalf("line %d has wrong shape: %q", i, line)
		}
	}
	for i, level := range []string{"INFO", "WARN", "ERROR", "SUCCESS"} {
		if !strings.Contains(lines[i], " | "+level+" | ") {
			t.Fatalf("line %d missing level %s: %q", i, level, lines[i])
		}
	}
	if !strings.HasSuffix(lines[0], "fetching 42 rows") {
		t.Fatalf("message not formatted: %q", lines[0])
	}
}

func TestLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	for i := 0; i < 2; i++ {
		log, err := New(path, nil)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		log.Infof("run %d", i)
		log.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 2 {
		t.Fatalf("expected 2 lines across runs, got %d", got)
	}
}

func TestLoggerMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var mirror bytes.Buffer

	log, err := New(path, &mirror)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Infof("hello")
	log.Close()

	if !strings.Contains(mirror.String(), "| INFO | hello") {
		t.Fatalf("mirror missing line: %q", mirror.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	log.Infof("ignored")
	log.Errorf("ignored")
}

func TestLoggerCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log, err := New(path, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if log.Path() != "" {
		t.Fatalf("Path after Close = %q", log.Path())
	}
}
