package filemgr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var jpegQualities = []int{85, 75, 65, 55, 45}

// Normalize downsizes a photo so its longest side is at most MaxDimension and re-encodes
// it as JPEG, lowering quality until it fits TargetBytes or the qualities run out.
// Photos already within both limits, and GIFs, are returned unchanged.
func Normalize(f File) (File, error) {
	if f.ContentType == "image/gif" {
		return f, nil
	}

	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return File{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidMIME, f.Name, err)
	}

	b := img.Bounds()
	oversized := b.Dx() > MaxDimension || b.Dy() > MaxDimension
	if !oversized && len(f.Data) <= TargetBytes {
		return f, nil
	}
	if oversized {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var out []byte
	for _, q := range jpegQualities {
		out, err = encodeJPEG(img, q)
		if err != nil {
			return File{}, err
		}
		if len(out) <= TargetBytes {
			break
		}
	}

	name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ".jpg"
	return File{Name: name, ContentType: "image/jpeg", Data: out}, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
