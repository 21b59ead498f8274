package conversion

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"conv3d/internal/console"
	"conv3d/internal/models"
)

type overwriteAnswers struct {
	answer bool
	err    error
	asked  []string
}

func (o *overwriteAnswers) Overwrite(path string) (bool, error) {
	o.asked = append(o.asked, path)
	return o.answer, o.err
}

type countingRecorder map[string]int

func (c countingRecorder) Observe(_ models.Format, result string, _ time.Duration) {
	c[result]++
}

// writeAdapter writes the output file and fails for inputs named in failOn.
func writeAdapter(failOn ...string) AdapterFunc {
	return func(ctx context.Context, in, out string) error {
		for _, f := range failOn {
			if filepath.Base(in) == f {
				return errors.New("corrupt model")
			}
		}
		return os.WriteFile(out, []byte("glb"), 0o644)
	}
}

func testRegistry(t *testing.T, a Adapter) *Registry {
	t.Helper()
	r, err := NewRegistry(map[models.Format]Adapter{
		models.GLTF: a, models.FBX: a, models.OBJ: a, models.GLB: a,
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func setupDirs(t *testing.T, names ...string) (string, string) {
	t.Helper()
	in := t.TempDir()
	out := filepath.Join(in, "_convert-3d-for-web")
	if err := os.MkdirAll(filepath.Join(out, "glb"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(in, n), []byte("model"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return in, out
}

func TestDispatcher_EmptyBatchIsNoop(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(testRegistry(t, writeAdapter()), &overwriteAnswers{}, console.NewWriter(&buf), nil, false)

	outcome, err := d.Run(context.Background(), models.OBJ, nil, "/in", "/out")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Attempted() != 0 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if !strings.Contains(buf.String(), "No OBJ models found") {
		t.Errorf("skip not reported:\n%s", buf.String())
	}
}

func TestDispatcher_OneFailureDoesNotStopBatch(t *testing.T) {
	inputs := []string{"a.fbx", "b.fbx", "c.fbx", "d.fbx"}
	in, out := setupDirs(t, inputs...)
	var buf bytes.Buffer
	rec := countingRecorder{}
	d := NewDispatcher(testRegistry(t, writeAdapter("b.fbx")), &overwriteAnswers{}, console.NewWriter(&buf), rec, false)

	outcome, err := d.Run(context.Background(), models.FBX, inputs, in, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.Errors) != 1 || len(outcome.Converted) != 3 {
		t.Fatalf("errors=%d converted=%d", len(outcome.Errors), len(outcome.Converted))
	}
	var fe *FileError
	if !errors.As(outcome.Errors[0], &fe) || filepath.Base(fe.Path) != "b.fbx" {
		t.Fatalf("unexpected error record: %v", outcome.Errors[0])
	}
	for i, want := range []string{"a.glb", "c.glb", "d.glb"} {
		if outcome.Converted[i] != filepath.Join(out, "glb", want) {
			t.Errorf("converted[%d] = %s", i, outcome.Converted[i])
		}
	}
	if rec[ResultConverted] != 3 || rec[ResultFailed] != 1 {
		t.Errorf("recorder = %v", rec)
	}
	if !strings.Contains(buf.String(), "Error converting") {
		t.Errorf("failure not reported:\n%s", buf.String())
	}
}

func TestDispatcher_DeclinedOverwriteIsSkipped(t *testing.T) {
	inputs := []string{"a.gltf", "b.gltf", "c.gltf"}
	in, out := setupDirs(t, inputs...)
	ctx := context.Background()
	var buf bytes.Buffer

	first := NewDispatcher(testRegistry(t, writeAdapter()), &overwriteAnswers{}, console.NewWriter(&buf), nil, false)
	if _, err := first.Run(ctx, models.GLTF, inputs, in, out); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	before, _ := os.ReadDir(filepath.Join(out, "glb"))

	prompt := &overwriteAnswers{answer: false}
	second := NewDispatcher(testRegistry(t, writeAdapter()), prompt, console.NewWriter(&buf), nil, false)
	outcome, err := second.Run(ctx, models.GLTF, inputs, in, out)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(prompt.asked) != 3 {
		t.Fatalf("expected a prompt per existing file, got %d", len(prompt.asked))
	}
	if len(outcome.Skipped) != 3 || len(outcome.Converted) != 0 || len(outcome.Errors) != 0 {
		t.Fatalf("outcome = %+v", outcome)
	}
	after, _ := os.ReadDir(filepath.Join(out, "glb"))
	if len(after) != len(before) {
		t.Fatalf("files changed: %d -> %d", len(before), len(after))
	}
	if outcome.Attempted() != len(inputs) {
		t.Fatalf("Attempted = %d", outcome.Attempted())
	}
}

func TestDispatcher_ForceOverwriteDoesNotAsk(t *testing.T) {
	inputs := []string{"a.obj"}
	in, out := setupDirs(t, inputs...)
	if err := os.WriteFile(filepath.Join(out, "glb", "a.glb"), []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	prompt := &overwriteAnswers{}
	var buf bytes.Buffer
	d := NewDispatcher(testRegistry(t, writeAdapter()), prompt, console.NewWriter(&buf), nil, true)

	outcome, err := d.Run(context.Background(), models.OBJ, inputs, in, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(prompt.asked) != 0 || len(outcome.Converted) != 1 {
		t.Fatalf("asked=%v outcome=%+v", prompt.asked, outcome)
	}
}

func TestDispatcher_InterruptStopsBatch(t *testing.T) {
	inputs := []string{"a.obj", "b.obj", "c.obj"}
	in, out := setupDirs(t, inputs...)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	adapter := AdapterFunc(func(ctx context.Context, in, out string) error {
		calls++
		cancel()
		return ctx.Err()
	})
	var buf bytes.Buffer
	d := NewDispatcher(testRegistry(t, adapter), &overwriteAnswers{}, console.NewWriter(&buf), nil, false)

	_, err := d.Run(ctx, models.OBJ, inputs, in, out)
	if !errors.Is(err, models.ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("adapter called %d times after interrupt", calls)
	}
	if !strings.Contains(buf.String(), "cancelled") {
		t.Errorf("cancellation not shown:\n%s", buf.String())
	}
}

func TestDispatcher_ComponentOutputPath(t *testing.T) {
	in, out := setupDirs(t)
	glb := filepath.Join(out, "glb", "chair.glb")
	if err := os.WriteFile(glb, []byte("glb"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(out, "tsx"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	var buf bytes.Buffer
	d := NewDispatcher(testRegistry(t, writeAdapter()), &overwriteAnswers{}, console.NewWriter(&buf), nil, false)

	outcome, err := d.Run(context.Background(), models.GLB, []string{glb}, in, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.Converted) != 1 || outcome.Converted[0] != filepath.Join(out, "tsx", "chair.tsx") {
		t.Fatalf("converted = %v", outcome.Converted)
	}
}

func TestNewRegistry_RequiresEveryFormat(t *testing.T) {
	_, err := NewRegistry(map[models.Format]Adapter{models.GLTF: GLTFAdapter{}})
	if err == nil {
		t.Fatal("expected incomplete registry to be rejected")
	}
	r, err := DefaultRegistry(Tools{FBX2GLTF: "FBX2glTF", OBJ2GLTF: "obj2gltf", GLTFJSX: "gltfjsx"}, &ExecRunner{}, true)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	if _, err := r.Adapter(models.TSX); err == nil {
		t.Fatal("TSX has no converter")
	}
}
