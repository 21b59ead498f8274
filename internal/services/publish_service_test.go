package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

type fakePutter struct {
	keys  []string
	fail  string
	types []string
}

func (f *fakePutter) FPutObject(ctx context.Context, bucket, object, file string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if filepath.Base(file) == f.fail {
		return minio.UploadInfo{}, errors.New("connection reset")
	}
	f.keys = append(f.keys, object)
	f.types = append(f.types, opts.ContentType)
	return minio.UploadInfo{Bucket: bucket, Key: object}, nil
}

func writeFiles(t *testing.T, root string, rel ...string) []string {
	t.Helper()
	var out []string
	for _, r := range rel {
		p := filepath.Join(root, r)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(p, []byte("glTF"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func TestPublish_KeysUnderRunID(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "glb/chair.glb", "glb-for-web/chair.glb")
	putter := &fakePutter{}
	runID := uuid.New()

	objs, err := NewPublishService(putter, "models").Publish(context.Background(), runID, root, files)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	want := []string{runID.String() + "/glb/chair.glb", runID.String() + "/glb-for-web/chair.glb"}
	for i := range want {
		if putter.keys[i] != want[i] || objs[i].StorageKey != want[i] {
			t.Errorf("key %d = %q, want %q", i, putter.keys[i], want[i])
		}
		if putter.types[i] != "model/gltf-binary" {
			t.Errorf("content type = %q", putter.types[i])
		}
	}
	if objs[0].Size != 4 || objs[0].RunID != runID {
		t.Errorf("unexpected record: %+v", objs[0])
	}
}

func TestPublish_StopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	files := writeFiles(t, root, "glb/a.glb", "glb/b.glb", "glb/c.glb")
	putter := &fakePutter{fail: "b.glb"}

	objs, err := NewPublishService(putter, "models").Publish(context.Background(), uuid.New(), root, files)
	if err == nil {
		t.Fatal("expected upload error")
	}
	if len(objs) != 1 {
		t.Fatalf("published %d objects before failure", len(objs))
	}
}
