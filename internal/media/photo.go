package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	MaxUploadBytes = 10 << 20
	MaxDimension   = 1024
	WebPQuality    = 80
	ContentType    = "image/webp"
)

var (
	ErrTooLarge    = errors.New("image exceeds 10 MiB")
	ErrUnsupported = errors.New("unsupported image format")
)

// Processed is a photo ready for storage.
type Processed struct {
	Data   []byte
	Width  int
	Height int
}

// ProcessPhoto decodes a JPEG or PNG, bounds its longest side to
// MaxDimension and re-encodes it as WebP.
func ProcessPhoto(r io.Reader) (*Processed, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrUnsupported
	}
	if format != "jpeg" && format != "png" {
		return nil, ErrUnsupported
	}

	img := Fit(src, MaxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	b := img.Bounds()
	return &Processed{
		Data:   buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// Fit scales src down so its longest side is at most max. Smaller images
// are returned unchanged.
func Fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	nw, nh := max, max
	if w >= h {
		nh = h * max / w
	} else {
		nw = w * max / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// HorsePhotoKey names the object holding a horse photo.
func HorsePhotoKey(horseID string) string {
	return fmt.Sprintf("horses/%s/%s.webp", horseID, uuid.NewString())
}
