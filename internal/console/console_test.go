package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsole_Prefixes(t *testing.T) {
	var buf bytes.Buffer
	c := NewWriter(&buf)

	c.Info("found %d models", 3)
	c.Warn("skipping %s", "chair.glb")
	c.Error("invalid input directory: %s", "/nope")
	c.Success("done")

	out := buf.String()
	for _, want := range []string{"ℹ️ found 3 models", "⚠️ skipping chair.glb", "🚨 invalid input directory: /nope", "✅ done"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLineProgress_PauseSuppressesUpdates(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriter(&buf).NewProgress()

	p.Start("Converting FBX files to GLB...")
	p.Pause()
	p.Update("hidden")
	p.Resume()
	p.Update("(1/1) robot.fbx")
	p.Cancel("cancelled")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("update while paused was printed:\n%s", out)
	}
	if !strings.Contains(out, "(1/1) robot.fbx") || !strings.Contains(out, "cancelled") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
