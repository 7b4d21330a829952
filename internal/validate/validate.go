package validate

import "fmt"

// Request field limits.
const (
	MaxPathLength     = 4096
	MaxPlatformLength = 32
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

// Path checks a media path taken from a URL or query string.
func Path(s string) string     { return checkLen(s, MaxPathLength, "path") }
func Platform(s string) string { return checkLen(s, MaxPlatformLength, "platform") }
