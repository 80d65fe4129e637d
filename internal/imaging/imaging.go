// Package imaging prepares DA 2062 scans for upload. Phone photos of a
// hand receipt routinely run 10+ MB; the OCR pipeline needs nowhere near
// that, so oversized images are downscaled and re-encoded before they
// leave the client.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// JPEGQuality is the compression quality for re-encoded scans.
const JPEGQuality = 85

// allowedMIME mirrors the upload formats the server accepts.
var allowedMIME = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/tiff":      true,
	"image/bmp":       true,
	"application/pdf": true,
}

// Scan is an upload-ready document.
type Scan struct {
	Data []byte
	MIME string
}

// Prepare sniffs the input format, downscales images whose longest side
// exceeds maxDim, and re-encodes them as JPEG. PDFs pass through untouched
// since the server rasterizes those itself.
func Prepare(r io.Reader, maxDim int) (*Scan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan: %w", err)
	}

	// Sniff the real type from bytes, not the file extension.
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported scan format %s (need JPEG, PNG, TIFF, BMP, or PDF)", detected)
	}

	if detected == "application/pdf" {
		return &Scan{Data: data, MIME: detected}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode scan: %w", err)
	}

	img = downscale(img, maxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode scan: %w", err)
	}
	return &Scan{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// Filename rewrites the extension of the original filename to match the
// prepared payload.
func (s *Scan) Filename(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" || base == "." {
		base = "scan"
	}
	if s.MIME == "application/pdf" {
		return base + ".pdf"
	}
	return base + ".jpg"
}

// downscale resizes so neither dimension exceeds maxDim, preserving aspect
// ratio. Returns the image unchanged when it already fits.
func downscale(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}
