package metadata

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"

	"plant-gallery/internal/utils"
)

// ErrNoGPS is returned by GPS lookups when the image carries no usable position.
var ErrNoGPS = errors.New("no gps position in exif")

// GPS is the raw position block of an image, before any conversion.
type GPS struct {
	Latitude     utils.DMS
	LatitudeRef  string
	Longitude    utils.DMS
	LongitudeRef string
}

// Decimal returns the signed decimal latitude and longitude.
func (g GPS) Decimal() (lat, lon float64) {
	return utils.DMSToDecimal(g.Latitude, g.LatitudeRef), utils.DMSToDecimal(g.Longitude, g.LongitudeRef)
}

// Metadata is what the gallery keeps from an image's EXIF block.
type Metadata struct {
	GPS *GPS
	// DateTaken is DateTimeOriginal as written by the camera, e.g. "2023:05:01 10:20:30".
	DateTaken *string
}

// decodeEXIF is swapped in tests to reach the panic guard.
var decodeEXIF = func(data []byte) (*exif.Exif, error) {
	return exif.Decode(bytes.NewReader(data))
}

func decodePanicError(r any) error {
	return errors.Errorf("exif decode panicked: %v", r)
}

// Extractor reads capture metadata from raw upload bytes.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract parses the EXIF block of data. Images without EXIF, or with a
// block goexif cannot parse, produce an error; callers treat that as
// "no metadata".
func (e *Extractor) Extract(data []byte) (meta *Metadata, err error) {
	// goexif indexes into tag payloads without bounds checks on some
	// malformed inputs
	defer func() {
		if r := recover(); r != nil {
			meta, err = nil, decodePanicError(r)
		}
	}()

	x, err := decodeEXIF(data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding exif")
	}

	meta = &Metadata{}
	if taken, ok := stringTag(x, exif.DateTimeOriginal); ok {
		meta.DateTaken = &taken
	} else if taken, ok := stringTag(x, exif.DateTime); ok {
		meta.DateTaken = &taken
	}

	if gps, err := readGPS(x); err == nil {
		meta.GPS = gps
	}
	return meta, nil
}

func readGPS(x *exif.Exif) (*GPS, error) {
	lat, err := dmsTag(x, exif.GPSLatitude)
	if err != nil {
		return nil, err
	}
	lon, err := dmsTag(x, exif.GPSLongitude)
	if err != nil {
		return nil, err
	}
	latRef, _ := stringTag(x, exif.GPSLatitudeRef)
	lonRef, _ := stringTag(x, exif.GPSLongitudeRef)

	return &GPS{
		Latitude:     lat,
		LatitudeRef:  latRef,
		Longitude:    lon,
		LongitudeRef: lonRef,
	}, nil
}

func dmsTag(x *exif.Exif, name exif.FieldName) (utils.DMS, error) {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return utils.DMS{}, ErrNoGPS
	}

	var parts [3]float64
	for i := range parts {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return utils.DMS{}, errors.Wrapf(err, "reading %s component %d", name, i)
		}
		if den == 0 {
			return utils.DMS{}, errors.Errorf("%s component %d has zero denominator", name, i)
		}
		parts[i] = float64(num) / float64(den)
	}
	return utils.DMS{Degrees: parts[0], Minutes: parts[1], Seconds: parts[2]}, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return "", false
	}
	val, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	val = strings.TrimRight(val, "\x00 ")
	return val, val != ""
}
