package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestPrepareDownscalesOversizedImage(t *testing.T) {
	data := encodePNG(t, 64, 32)

	scan, err := Prepare(bytes.NewReader(data), 32)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if scan.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want image/jpeg", scan.MIME)
	}

	out, err := jpeg.Decode(bytes.NewReader(scan.Data))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	bounds := out.Bounds()
	if bounds.Dx() != 32 || bounds.Dy() != 16 {
		t.Errorf("output bounds = %dx%d, want 32x16", bounds.Dx(), bounds.Dy())
	}
}

func TestPrepareTallImageScalesHeight(t *testing.T) {
	data := encodePNG(t, 20, 80)

	scan, err := Prepare(bytes.NewReader(data), 40)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	out, err := jpeg.Decode(bytes.NewReader(scan.Data))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	bounds := out.Bounds()
	if bounds.Dx() != 10 || bounds.Dy() != 40 {
		t.Errorf("output bounds = %dx%d, want 10x40", bounds.Dx(), bounds.Dy())
	}
}

func TestPrepareKeepsSmallImageDimensions(t *testing.T) {
	data := encodePNG(t, 16, 16)

	scan, err := Prepare(bytes.NewReader(data), 2048)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	out, err := jpeg.Decode(bytes.NewReader(scan.Data))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 16 {
		t.Errorf("small image was resized to %v", out.Bounds())
	}
}

func TestPreparePDFPassesThrough(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%fake document body\n%%EOF")

	scan, err := Prepare(bytes.NewReader(pdf), 2048)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if scan.MIME != "application/pdf" {
		t.Errorf("MIME = %q, want application/pdf", scan.MIME)
	}
	if !bytes.Equal(scan.Data, pdf) {
		t.Error("PDF bytes were modified")
	}
}

func TestPrepareRejectsUnsupportedFormat(t *testing.T) {
	gif := []byte("GIF89a" + strings.Repeat("\x00", 32))

	_, err := Prepare(bytes.NewReader(gif), 2048)
	if err == nil {
		t.Fatal("Prepare() accepted a GIF")
	}
	if !strings.Contains(err.Error(), "unsupported scan format") {
		t.Errorf("error = %v", err)
	}
}

func TestScanFilename(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		original string
		want     string
	}{
		{"image gets jpg ext", "image/jpeg", "IMG_2041.HEIC.png", "IMG_2041.HEIC.jpg"},
		{"pdf keeps pdf ext", "application/pdf", "da2062-scan.pdf", "da2062-scan.pdf"},
		{"strips directories", "image/jpeg", "/tmp/scans/front.png", "front.jpg"},
		{"empty falls back", "image/jpeg", "", "scan.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scan{MIME: tt.mime}
			if got := s.Filename(tt.original); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.original, got, tt.want)
			}
		})
	}
}
