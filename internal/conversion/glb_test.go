package conversion

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
)

const sampleGLTF = `{
  "asset": {"version": "2.0"},
  "buffers": [
    {"byteLength": 4, "uri": "data:application/octet-stream;base64,AAECAw=="},
    {"byteLength": 2, "uri": "extra.bin"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 4},
    {"buffer": 1, "byteOffset": 0, "byteLength": 2}
  ],
  "images": [{"uri": "wood%20grain.png"}]
}`

func TestPackGLB_EmbedsBuffersAndImages(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "table.gltf")
	files := map[string][]byte{
		input:                                []byte(sampleGLTF),
		filepath.Join(dir, "extra.bin"):      {9, 8},
		filepath.Join(dir, "wood grain.png"): []byte("PNGDATA"),
	}
	for p, data := range files {
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	output := filepath.Join(dir, "table.glb")
	if err := PackGLB(input, output); err != nil {
		t.Fatalf("PackGLB: %v", err)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("glTF")) {
		t.Fatal("output is not a GLB container")
	}

	doc, err := gltf.Open(output)
	if err != nil {
		t.Fatalf("gltf.Open: %v", err)
	}
	if len(doc.Buffers) != 1 || doc.Buffers[0].URI != "" {
		t.Fatalf("expected one embedded buffer, got %+v", doc.Buffers)
	}
	data := doc.Buffers[0].Data
	if !bytes.Equal(data[0:4], []byte{0, 1, 2, 3}) {
		t.Errorf("first buffer not at offset 0: %v", data[0:4])
	}
	second := doc.BufferViews[1]
	if second.Buffer != 0 || second.ByteOffset != 4 || !bytes.Equal(data[4:6], []byte{9, 8}) {
		t.Errorf("second buffer view not rebased: %+v", second)
	}

	img := doc.Images[0]
	if img.URI != "" || img.BufferView == nil || img.MimeType != "image/png" {
		t.Fatalf("image not embedded: %+v", img)
	}
	view := doc.BufferViews[*img.BufferView]
	if view.ByteOffset%4 != 0 {
		t.Errorf("image view not aligned: %d", view.ByteOffset)
	}
	got := data[view.ByteOffset : view.ByteOffset+view.ByteLength]
	if string(got) != "PNGDATA" {
		t.Errorf("image bytes = %q", got)
	}
}

func TestPackGLB_MissingResource(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.gltf")
	doc := `{"asset":{"version":"2.0"},"buffers":[{"byteLength":8,"uri":"missing.bin"}]}`
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := PackGLB(input, filepath.Join(dir, "broken.glb")); err == nil {
		t.Fatal("expected error for missing buffer file")
	}
}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		"a.PNG":                       "image/png",
		"b.jpeg":                      "image/jpeg",
		"data:image/webp;base64,AAAA": "image/webp",
		"c.bin":                       "application/octet-stream",
	}
	for in, want := range cases {
		if got := mimeType(in); got != want {
			t.Errorf("mimeType(%q) = %q, want %q", in, got, want)
		}
	}
}
