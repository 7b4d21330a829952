package platform

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Platform is the client operating system category used to narrow the
// list of external players.
type Platform string

const (
	Windows Platform = "Windows"
	MacOS   Platform = "MacOS"
	Linux   Platform = "Linux"
	Android Platform = "Android"
	IOS     Platform = "iOS"
	Unknown Platform = "Unknown"
)

// All lists the known platforms, Unknown last.
var All = []Platform{Windows, MacOS, Linux, Android, IOS, Unknown}

// Parse maps a platform name to a Platform, ignoring case.
// Unrecognised names yield Unknown.
func Parse(s string) Platform {
	s = strings.TrimSpace(s)
	for _, p := range All {
		if strings.EqualFold(s, string(p)) {
			return p
		}
	}
	return Unknown
}

// Detect derives the platform from a User-Agent header value.
func Detect(userAgent string) Platform {
	if strings.TrimSpace(userAgent) == "" {
		return Unknown
	}
	ua := useragent.New(userAgent)
	name := ua.Platform()
	os := ua.OS()

	switch {
	case strings.Contains(os, "Android"):
		return Android
	case name == "iPhone" || name == "iPad" || name == "iPod" ||
		strings.Contains(os, "iPhone OS") || strings.Contains(os, "CPU OS"):
		return IOS
	case name == "Macintosh" || strings.Contains(os, "Mac OS X"):
		return MacOS
	case name == "Windows" || strings.HasPrefix(os, "Windows"):
		return Windows
	case name == "Linux" || name == "X11" || strings.Contains(os, "Linux") || strings.Contains(os, "CrOS"):
		return Linux
	}
	return Unknown
}

// FromRequest returns the platform for r. An explicit ?platform= query
// parameter wins over the User-Agent header.
func FromRequest(r *http.Request) Platform {
	if override := r.URL.Query().Get("platform"); override != "" {
		return Parse(override)
	}
	return Detect(r.Header.Get("User-Agent"))
}
