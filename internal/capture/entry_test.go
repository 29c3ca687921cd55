package capture

import (
	"bytes"
	"context"
	"crypto/rand"
	"midistream/pkg/container"
	"os"
	"path/filepath"
	"testing"
)

func writeInput(t *testing.T, dir, name string, raw []byte) (path string) {
	t.Helper()
	path = filepath.Join(dir, name)
	err := os.WriteFile(path, raw, 0600)
	if err != nil {
		t.Fatalf("failed writing input file: %v", err)
	}
	return
}

func TestSession_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	// Running status stream: two note-ons sharing one status byte
	first := writeInput(t, dir, "keys.bin", []byte{0x90, 0x3C, 0x64, 0x3D, 0x64})
	// Program change plus a clock byte
	second := writeInput(t, dir, "pads.bin", []byte{0xC1, 0x05, 0xF8})
	outputPath := filepath.Join(dir, "capture.sealed")

	config := Config{
		Inputs: []Input{
			{Path: first, DisplayName: "keys"},
			{Path: second, DisplayName: "pads"},
		},
		OutputPath: outputPath,
	}

	key := make([]byte, container.KeyLen)
	rand.Read(key)

	ctx := context.Background()
	session, err := NewSession(ctx, config)
	if err != nil {
		t.Fatalf("failed creating session: %v", err)
	}

	err = session.Run(ctx, key)
	if err != nil {
		t.Fatalf("capture run failed: %v", err)
	}

	// The sealed container must open back to the serialized stream with
	// every message carrying an explicit status byte
	blob, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed reading sealed output: %v", err)
	}

	stream, err := container.OpenBytes(blob, key)
	if err != nil {
		t.Fatalf("failed opening sealed output: %v", err)
	}

	want := []byte{
		0x90, 0x3C, 0x64,
		0x90, 0x3D, 0x64,
		0xC1, 0x05,
		0xF8,
	}
	if !bytes.Equal(stream, want) {
		t.Fatalf("unexpected serialized stream: got % X, want % X", stream, want)
	}

	if session.Metrics.CompletedInputs.Load() != 2 {
		t.Errorf("expected 2 completed inputs, got %d", session.Metrics.CompletedInputs.Load())
	}
	if session.Metrics.InputBytes.Load() != 8 {
		t.Errorf("expected 8 input bytes, got %d", session.Metrics.InputBytes.Load())
	}
	if session.Metrics.SealedBytes.Load() != uint64(len(blob)) {
		t.Errorf("sealed byte metric %d does not match output size %d", session.Metrics.SealedBytes.Load(), len(blob))
	}
}

func TestSession_TrailingPartialDiscarded(t *testing.T) {
	dir := t.TempDir()

	// Complete note-on followed by a dangling status+data pair
	input := writeInput(t, dir, "truncated.bin", []byte{0x80, 0x3C, 0x40, 0x90, 0x3D})
	outputPath := filepath.Join(dir, "capture.sealed")

	config := Config{
		Inputs:     []Input{{Path: input}},
		OutputPath: outputPath,
	}

	key := make([]byte, container.KeyLen)
	rand.Read(key)

	ctx := context.Background()
	session, err := NewSession(ctx, config)
	if err != nil {
		t.Fatalf("failed creating session: %v", err)
	}

	err = session.Run(ctx, key)
	if err != nil {
		t.Fatalf("capture run failed: %v", err)
	}

	blob, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed reading sealed output: %v", err)
	}
	stream, err := container.OpenBytes(blob, key)
	if err != nil {
		t.Fatalf("failed opening sealed output: %v", err)
	}

	// Only the complete message survives
	want := []byte{0x80, 0x3C, 0x40}
	if !bytes.Equal(stream, want) {
		t.Fatalf("unexpected serialized stream: got % X, want % X", stream, want)
	}
}

func TestNewSession_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewSession(ctx, Config{OutputPath: "out"})
	if err == nil {
		t.Error("expected error for missing inputs, but got none")
	}

	_, err = NewSession(ctx, Config{Inputs: []Input{{Path: "in"}}})
	if err == nil {
		t.Error("expected error for missing output path, but got none")
	}
}
