package httpx

import (
	"net/http"
	"net/url"
	"time"
)

// SetCookie writes a cookie for the whole site. Values are URL-escaped. A ttl
// of zero or less makes a session cookie.
func SetCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if ttl > 0 {
		c.Expires = time.Now().Add(ttl)
		c.MaxAge = int(ttl / time.Second)
	}

	http.SetCookie(w, c)
}

// GetCookie returns the unescaped value of the named cookie.
func GetCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value, true
	}

	return value, true
}

// DeleteCookie expires the named cookie.
func DeleteCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}
