package imagemeta

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
}

// pngChunk builds a raw PNG chunk: length, type, data, CRC.
func pngChunk(chunkType string, data []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(chunkType)
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	binary.Write(&buf, binary.BigEndian, crc.Sum32())

	return buf.Bytes()
}

// writePNGWithText encodes a PNG and splices the given raw chunks in after
// the IHDR chunk (signature + IHDR is always the first 33 bytes).
func writePNGWithText(t *testing.T, path string, chunks ...[]byte) {
	t.Helper()

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}

	data := img.Bytes()
	var out bytes.Buffer
	out.Write(data[:33])
	for _, c := range chunks {
		out.Write(c)
	}
	out.Write(data[33:])

	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}
}

func TestProbe_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	writePNG(t, path, 12, 8)

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Failed to probe: %v", err)
	}

	if info.Width != 12 || info.Height != 8 {
		t.Errorf("Dimensions = %dx%d, want 12x8", info.Width, info.Height)
	}
	if info.Format != "PNG" {
		t.Errorf("Format = %q, want %q", info.Format, "PNG")
	}
	if info.Mode != "RGBA" {
		t.Errorf("Mode = %q, want %q", info.Mode, "RGBA")
	}
}

func TestProbe_GIFIsPaletted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.gif")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	if err := gif.Encode(f, image.NewNRGBA(image.Rect(0, 0, 3, 3)), nil); err != nil {
		f.Close()
		t.Fatalf("Failed to encode gif: %v", err)
	}
	f.Close()

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Failed to probe: %v", err)
	}
	if info.Format != "GIF" {
		t.Errorf("Format = %q, want %q", info.Format, "GIF")
	}
	if info.Mode != "P" {
		t.Errorf("Mode = %q, want %q", info.Mode, "P")
	}
}

func TestProbe_Unreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := Probe(path); err == nil {
		t.Error("Expected error for corrupt image, got nil")
	}

	if _, err := Probe(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing image, got nil")
	}
}

func TestProbe_PNGTextChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")

	text := append([]byte("parameters"), 0)
	text = append(text, []byte("steps: 20, cfg: 7")...)

	// iTXt: keyword, compression flag+method, empty language tag and
	// translated keyword, then the text.
	itxt := append([]byte("Comment"), 0, 0, 0, 0, 0)
	itxt = append(itxt, []byte("hello world")...)

	writePNGWithText(t, path,
		pngChunk("tEXt", text),
		pngChunk("iTXt", itxt),
	)

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Failed to probe: %v", err)
	}

	if got := info.Fields["parameters"]; got != "steps: 20, cfg: 7" {
		t.Errorf("Fields[parameters] = %q, want %q", got, "steps: 20, cfg: 7")
	}
	if got := info.Fields["Comment"]; got != "hello world" {
		t.Errorf("Fields[Comment] = %q, want %q", got, "hello world")
	}
}

func TestIsGenerationField(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"parameters", true},
		{"Parameters", true},
		{"sd-parameters", true},
		{"prompt", true},
		{"UserComment", true},
		{"workflow", true},
		{"Software", false},
		{"DateTimeOriginal", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsGenerationField(tt.name); got != tt.want {
			t.Errorf("IsGenerationField(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGenerationParameters(t *testing.T) {
	params, ok := GenerationParameters(map[string]string{
		"Software":   "editor",
		"parameters": "steps: 20",
	})
	if !ok || params != "steps: 20" {
		t.Errorf("GenerationParameters = %q, %v; want %q, true", params, ok, "steps: 20")
	}

	if _, ok := GenerationParameters(map[string]string{"Software": "editor"}); ok {
		t.Error("Expected no generation parameters")
	}

	if _, ok := GenerationParameters(map[string]string{"prompt": "   "}); ok {
		t.Error("Blank value must not count as generation parameters")
	}
}
