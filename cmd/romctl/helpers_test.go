package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/romkit/internal/ebtext"
)

const testLayout = `
space: {bias: 0xC00000, threshold: 0x400000}
free:
  - [0x0800, 0x08FF]
modules:
  expanded_tables:
    free:
      - [0x1000, 0x10FF]
    targets:
      psi_names:
        size: 0x10
        refs:
          - {kind: split, offset: 0x100}
  misc_text:
    targets:
      continue:
        refs:
          - {kind: split, offset: 0x200}
    patches:
      bash: [0x300]
`

// testROM writes a 64 KiB image and the test layout to a temp dir, points
// --layout at it and returns the ROM path. Global flags are reset afterwards.
func testROM(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	rom := make([]byte, 0x10000)
	// psi_names: split pointer at 0x100 to $C01000, 16 bytes of contents.
	putSplit(rom, 0x100, 0xC01000)
	for i := range 0x10 {
		rom[0x1000+i] = byte(i + 1)
	}
	// continue: split pointer at 0x200 to $C00900.
	putSplit(rom, 0x200, 0xC00900)
	copy(rom[0x900:], mustEncode(t, "Go", 25, true))
	copy(rom[0x300:], mustEncode(t, "Bash", 16, false))

	romPath := filepath.Join(dir, "game.smc")
	if err := os.WriteFile(romPath, rom, 0o644); err != nil {
		t.Fatal(err)
	}
	lp := filepath.Join(dir, "layout.yml")
	if err := os.WriteFile(lp, []byte(testLayout), 0o644); err != nil {
		t.Fatal(err)
	}

	layoutPath = lp
	t.Cleanup(resetFlags)
	return romPath
}

func resetFlags() {
	verbose, quiet, jsonOut, noColor = false, false, false, false
	layoutPath, logFile = "", ""
	freeModules = nil
	ptrKind, ptrAdjust = "split", 0
	tablesDryRun, tablesOutput, tablesFiles = false, "", nil
	textSet, textDryRun, textOutput = nil, false, ""
}

func putSplit(rom []byte, off, a int) {
	rom[off+1], rom[off+2] = byte(a), byte(a>>8)
	rom[off+6], rom[off+7] = byte(a>>16), byte(a>>24)
}

func readSplit(rom []byte, off int) int {
	return int(rom[off+1]) | int(rom[off+2])<<8 | int(rom[off+6])<<16 | int(rom[off+7])<<24
}

func mustEncode(t *testing.T, s string, size int, nullTerminated bool) []byte {
	t.Helper()
	b, err := ebtext.EncodeField(s, size, nullTerminated)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func readROM(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertJSON decodes output into v
func assertJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
