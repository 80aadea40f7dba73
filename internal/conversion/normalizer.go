package conversion

import (
	"bytes"
	"image"
	"image/color"
	"mime"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// registers the webp decoder with image.Decode
	_ "golang.org/x/image/webp"
)

const (
	MaxDimension    = 1200
	PrimaryQuality  = 80
	FallbackQuality = 70
	// MaxEncodedBytes is the size above which a second, lower quality pass runs.
	MaxEncodedBytes = 2 << 20

	OutputContentType = "image/jpeg"
)

// ErrUnsupportedType is returned for any declared MIME type outside AllowedContentTypes.
var ErrUnsupportedType = errors.New("unsupported image type")

// AllowedContentTypes are the upload types accepted by the gallery.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IsAllowedContentType reports whether a declared content type, parameters
// ignored, is one the normalizer accepts.
func IsAllowedContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return AllowedContentTypes[strings.ToLower(mediaType)]
}

// Result is a normalized image ready for storage.
type Result struct {
	Data    []byte
	Width   int
	Height  int
	Quality int
}

// Normalizer bounds uploads to a maximum display size and re-encodes them as JPEG.
type Normalizer struct {
	MaxDimension    int
	Quality         int
	FallbackQuality int
	MaxBytes        int

	encode func(img image.Image, quality int) ([]byte, error)
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		MaxDimension:    MaxDimension,
		Quality:         PrimaryQuality,
		FallbackQuality: FallbackQuality,
		MaxBytes:        MaxEncodedBytes,
		encode:          encodeJPEG,
	}
}

// Normalize decodes data, fits it inside MaxDimension x MaxDimension without
// upscaling and encodes it as JPEG. When the first encoding exceeds MaxBytes
// the resized JPEG is re-encoded exactly once at FallbackQuality; that result
// is kept whatever its size.
func (n *Normalizer) Normalize(data []byte, contentType string) (*Result, error) {
	if !IsAllowedContentType(contentType) {
		return nil, errors.Wrapf(ErrUnsupportedType, "content type %q", contentType)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}

	resized := imaging.Fit(img, n.MaxDimension, n.MaxDimension, imaging.Lanczos)
	resized = flattenOnWhite(resized)
	bounds := resized.Bounds()

	out, err := n.encode(resized, n.Quality)
	if err != nil {
		return nil, errors.Wrap(err, "encoding jpeg")
	}
	result := &Result{Data: out, Width: bounds.Dx(), Height: bounds.Dy(), Quality: n.Quality}
	if len(out) <= n.MaxBytes {
		return result, nil
	}

	firstPass, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, errors.Wrap(err, "decoding first pass jpeg")
	}
	out, err = n.encode(firstPass, n.FallbackQuality)
	if err != nil {
		return nil, errors.Wrap(err, "re-encoding jpeg")
	}
	result.Data = out
	result.Quality = n.FallbackQuality
	return result, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flattenOnWhite composites translucent images over white, JPEG has no alpha.
func flattenOnWhite(img *image.NRGBA) *image.NRGBA {
	if img.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
