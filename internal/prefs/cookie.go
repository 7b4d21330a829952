package prefs

import (
	"context"
	"net/http"
	"time"
)

const cookieMaxAge = 365 * 24 * time.Hour

// CookieStore keeps preferences in browser cookies named after their key.
// It is bound to a single request: reads come from the request, writes go
// to the response and are visible to later reads on the same store.
type CookieStore struct {
	r       *http.Request
	w       http.ResponseWriter
	secure  bool
	pending map[string]string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{r: r, w: w, secure: secure, pending: make(map[string]string)}
}

func (c *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	if v, ok := c.pending[key]; ok {
		return v, true, nil
	}
	cookie, err := c.r.Cookie(key)
	if err != nil {
		return "", false, nil
	}
	return cookie.Value, true, nil
}

func (c *CookieStore) Set(_ context.Context, key, value string) error {
	c.pending[key] = value
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(cookieMaxAge),
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
