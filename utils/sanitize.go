package utils

import "github.com/microcosm-cc/bluemonday"

// Profile descriptions, posts and comments are plain text, so every tag is stripped.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML from user-supplied text to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
