package doctext

import (
	"context"
	"errors"
	"os"
	"testing"
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestExtractDocTempFileLifecycle(t *testing.T) {
	conv := &fakeConverter{text: "результат"}
	pipe := New(Config{Converter: conv})

	text, err := pipe.extractDoc(context.Background(), []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "результат" {
		t.Fatalf("got %q", text)
	}
	if !conv.existedDuringConvert {
		t.Fatal("temp file must exist while the converter runs")
	}
	if fileExists(conv.sawPath) {
		t.Fatalf("temp file %s must be removed after extraction", conv.sawPath)
	}
}

func TestExtractDocTempFileRemovedOnConverterFailure(t *testing.T) {
	conv := &fakeConverter{err: errors.New("converter exploded")}
	pipe := New(Config{Converter: conv})

	if _, err := pipe.extractDoc(context.Background(), []byte("payload")); err == nil {
		t.Fatal("expected converter error")
	}
	if conv.sawPath == "" {
		t.Fatal("converter was never called")
	}
	if fileExists(conv.sawPath) {
		t.Fatalf("temp file %s must be removed on the failure path too", conv.sawPath)
	}
}

func TestExecConverterNoCommandsAvailable(t *testing.T) {
	conv := &ExecConverter{Commands: []string{"definitely-not-a-real-command-xyz"}}
	if _, err := conv.Convert(context.Background(), "/nonexistent.doc"); err == nil {
		t.Fatal("expected error when no converter command is available")
	}
}
