package utils

import "strings"

// DMS is a coordinate in degrees, minutes and seconds as stored by EXIF.
type DMS struct {
	Degrees float64
	Minutes float64
	Seconds float64
}

// DMSToDecimal converts a DMS triple into signed decimal degrees.
// Southern and western hemisphere references (S, W) flip the sign.
// Values are not range-checked.
func DMSToDecimal(dms DMS, ref string) float64 {
	decimal := dms.Degrees + dms.Minutes/60 + dms.Seconds/3600
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		return -decimal
	}
	return decimal
}
