package appender

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSinkWritesAndFlushes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "app.log")

	sink, err := NewFileSink(FileSinkConfig{Filename: path})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("line one\n")); err != nil {
		t.Fatal(err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "line one\n" {
		t.Fatalf("got %q", data)
	}
}

func TestFileSinkReopensExistingFileAndAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sink, err := NewFileSink(FileSinkConfig{Filename: path})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("appended\n")); err != nil {
		t.Fatal(err)
	}
	sink.Flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "existing\nappended\n" {
		t.Fatalf("got %q", data)
	}
}

func TestFileSinkRotatesOnMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	sink, err := NewFileSink(FileSinkConfig{Filename: path, MaxSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	// This write would push the file past MaxSize, forcing a rotation
	// before the bytes land in the fresh current file.
	if _, err := sink.Write([]byte("next")); err != nil {
		t.Fatal(err)
	}
	sink.Flush()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 2 {
		t.Fatalf("got %d entries in %s, want at least 2 (current + one rotated backup)", len(entries), dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "next" {
		t.Fatalf("current file = %q, want %q", data, "next")
	}
}

func TestFileSinkKeepsWritingAcrossRotationsWithMaxBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	sink, err := NewFileSink(FileSinkConfig{Filename: path, MaxSize: 4, MaxBackups: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	// Two size-triggered rotations (the first write lands in the empty
	// file). Pruning runs in a background goroutine after each rotation,
	// so the final backup count is not asserted here; this checks that
	// every write still succeeds while rotation and pruning are active.
	for i := 0; i < 3; i++ {
		if _, err := sink.Write([]byte("abcde")); err != nil {
			t.Fatal(err)
		}
	}
	sink.Flush()
}
