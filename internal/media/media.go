// Package media normaliza imagens antes de irem para a CDN.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	MaxWidth    = 1600
	WebPQuality = 80
	MaxBytes    = 20 << 20
)

var ErrUnsupported = errors.New("unsupported media type")

var folders = map[string]bool{
	"suppliers":  true,
	"categories": true,
	"highlights": true,
}

func IsValidFolder(folder string) bool {
	return folders[folder]
}

func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func IsVideo(contentType string) bool {
	return contentType == "video/mp4" || contentType == "video/webm"
}

// ObjectKey gera <folder>/<uuid><ext>.
func ObjectKey(folder, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(folder, uuid.NewString()+ext)
}

// ToWebP decodifica jpeg/png/webp, reduz para MaxWidth e recodifica em WebP.
func ToWebP(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	img := Fit(src, MaxWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit reduz proporcionalmente imagens mais largas que maxWidth.
func Fit(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxWidth {
		return src
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
