package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Line breaks and other control characters that must never reach a mail header
	controlRegex = regexp.MustCompile(`[\x00-\x1f\x7f]+`)
)

// New returns a validator that reports fields by their JSON name.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// CollapseControl replaces runs of control characters with a single space.
// Used on values that end up in mail headers.
func CollapseControl(s string) string {
	return strings.TrimSpace(controlRegex.ReplaceAllString(s, " "))
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
