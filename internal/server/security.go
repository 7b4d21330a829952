package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/playerlink/playerlink/internal/httputil"
)

type SecurityConfig struct {
	BaseURL               string
	StorageEndpoint       string
	AssetBase             string
	AllowedFrameAncestors string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := hasHTTPS(cfg.BaseURL)

	storageSuffix := sourceSuffix(cfg.StorageEndpoint)
	imageSuffix := storageSuffix + sourceSuffix(cspOrigin(cfg.AssetBase))

	frameAncestors := "'self'"
	if cfg.AllowedFrameAncestors != "" {
		frameAncestors += " " + cfg.AllowedFrameAncestors
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.GenerateNonce()
			ctx := httputil.ContextWithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			if cfg.AllowedFrameAncestors == "" {
				w.Header().Set("X-Frame-Options", "SAMEORIGIN")
			}
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), autoplay=(self), fullscreen=(self), picture-in-picture=(self)")

			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data:%s; media-src 'self' data:%s; script-src 'self' 'nonce-%s'; style-src 'self' 'nonce-%s'; connect-src 'self'%s; frame-ancestors %s;",
				imageSuffix, storageSuffix, nonce, nonce, storageSuffix, frameAncestors,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sourceSuffix(source string) string {
	if source == "" {
		return ""
	}
	return " " + source
}

// cspOrigin reduces an absolute URL to scheme://host. Relative bases are
// already covered by 'self'.
func cspOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func hasHTTPS(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}
