package shared

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase normalizes a display label for listings. cases.Caser
// carries mutable transform state and is not safe for concurrent use,
// so a fresh caser is built per call instead of sharing one across
// request goroutines.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
