package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// URL-safe lowercase slug, same charset the content importer produces.
	slugRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("slug", Slug)
}

// Slug validates that a string is a URL-safe lowercase slug
func Slug(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // optional, pair with required when needed
	}
	return slugRegex.MatchString(val)
}

// IsValidSlug checks slug format outside of struct validation
func IsValidSlug(s string) bool {
	return s != "" && slugRegex.MatchString(s)
}

// IsValidUUID checks that a path or query parameter is a UUID before it
// reaches a query.
func IsValidUUID(s string) bool {
	return uuidRegex.MatchString(s)
}
