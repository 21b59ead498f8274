package conversion

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// PackGLB reads a .gltf document with its external or data-URI resources
// and writes a self-contained .glb: all buffers are merged into the binary
// chunk and images are embedded as buffer views.
func PackGLB(inputPath, outputPath string) error {
	doc, err := gltf.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "could not read glTF document")
	}
	if err := embedResources(doc, filepath.Dir(inputPath)); err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, outputPath); err != nil {
		return errors.Wrap(err, "could not write GLB")
	}
	return nil
}

func embedResources(doc *gltf.Document, resourceDir string) error {
	var merged []byte
	offsets := make([]uint32, len(doc.Buffers))
	for i, b := range doc.Buffers {
		if uint32(len(b.Data)) < b.ByteLength {
			return errors.Errorf("buffer %d has %d bytes, expected %d", i, len(b.Data), b.ByteLength)
		}
		merged = pad4(merged)
		offsets[i] = uint32(len(merged))
		merged = append(merged, b.Data[:b.ByteLength]...)
	}
	for _, bv := range doc.BufferViews {
		if int(bv.Buffer) >= len(offsets) {
			return errors.Errorf("buffer view references missing buffer %d", bv.Buffer)
		}
		bv.ByteOffset += offsets[bv.Buffer]
		bv.Buffer = 0
	}

	for i, img := range doc.Images {
		if img.BufferView != nil || img.URI == "" {
			continue
		}
		data, err := imageData(img, resourceDir)
		if err != nil {
			return errors.Wrapf(err, "image %d", i)
		}
		merged = pad4(merged)
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
			Buffer:     0,
			ByteOffset: uint32(len(merged)),
			ByteLength: uint32(len(data)),
		})
		merged = append(merged, data...)
		if img.MimeType == "" {
			img.MimeType = mimeType(img.URI)
		}
		img.BufferView = gltf.Index(uint32(len(doc.BufferViews) - 1))
		img.URI = ""
	}

	if len(merged) == 0 {
		doc.Buffers = nil
		return nil
	}
	merged = pad4(merged)
	doc.Buffers = []*gltf.Buffer{{ByteLength: uint32(len(merged)), Data: merged}}
	return nil
}

func imageData(img *gltf.Image, dir string) ([]byte, error) {
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	name, err := url.PathUnescape(img.URI)
	if err != nil {
		name = img.URI
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, errors.Wrap(err, "could not read texture")
	}
	return data, nil
}

func mimeType(uri string) string {
	if strings.HasPrefix(uri, "data:") {
		if i := strings.Index(uri, ";"); i > len("data:") {
			return uri[len("data:"):i]
		}
		return ""
	}
	switch strings.ToLower(filepath.Ext(uri)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".ktx2":
		return "image/ktx2"
	}
	return "application/octet-stream"
}

// pad4 aligns b to 4 bytes as required for GLB buffer views.
func pad4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}
