package cmd

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	drifterrors "github.com/go-drift/containment/pkg/errors"
)

const scenarioYAML = `
name: demo
stacks:
  - {name: main, root: home}
steps:
  - action: show
  - {action: push, stack: main, unit: details, transition: cross-dissolve}
  - {action: push, stack: main, unit: details}
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { drifterrors.SetHandler(nil) })
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestTrace(t *testing.T) {
	out, _, err := execute(t, "trace", writeScenario(t))
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	for _, want := range []string{
		"scenario demo",
		"home.WillDisappear animated=true moving-from-parent=false",
		"details.DidAppear animated=true moving-to-parent=true",
		"error: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTrace_Strict(t *testing.T) {
	_, _, err := execute(t, "trace", "--strict", writeScenario(t))
	if err == nil || !strings.Contains(err.Error(), "1 step(s) failed") {
		t.Errorf("expected strict failure, got %v", err)
	}
}

func TestTrace_VerboseLogsIgnoredCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hide.yaml")
	yaml := "stacks:\n  - {name: main, root: home}\nsteps:\n  - action: hide\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := execute(t, "trace", "-v", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "ignored lifecycle call") {
		t.Errorf("expected sequencing diagnostics in verbose mode:\n%s", stderr)
	}
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}
	if out != "demo: 1 stack(s), 3 step(s)\n" {
		t.Errorf("output = %q", out)
	}

	if _, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSnapshot(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.png")
	if _, _, err := execute(t, "snapshot", writeScenario(t), "-o", output, "--scale", "0.5"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 240 {
		t.Errorf("snapshot size = %dx%d, want 160x240", b.Dx(), b.Dy())
	}
}
