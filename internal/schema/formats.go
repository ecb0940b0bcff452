package schema

import (
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	registerOnce sync.Once
	positionKey  = regexp.MustCompile(`^-?[0-9]+_-?[0-9]+$`)
)

// jpegDataURLFormatChecker accepts base64 JPEG data URLs
type jpegDataURLFormatChecker struct{}

// IsFormat validates the data URL prefix and a non-empty payload
func (c jpegDataURLFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	const prefix = "data:image/jpeg;base64,"
	return strings.HasPrefix(s, prefix) && len(s) > len(prefix)
}

// positionKeyFormatChecker accepts grid position keys such as "150_250"
type positionKeyFormatChecker struct{}

// IsFormat validates an ix_iy key
func (c positionKeyFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	return ok && positionKey.MatchString(s)
}

func registerFormats() {
	registerOnce.Do(func() {
		gojsonschema.FormatCheckers.Add("jpeg_data_url", jpegDataURLFormatChecker{})
		gojsonschema.FormatCheckers.Add("position_key", positionKeyFormatChecker{})
	})
}
