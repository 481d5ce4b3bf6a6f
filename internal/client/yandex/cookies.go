package yandex

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"
)

const cookieHeader = "Cookie"

// CookieJar accumulates cookies from every response of a session regardless of their domain.
// The passport, music and storage hosts share one set of session cookies,
// which net/http/cookiejar would split by domain.
type CookieJar struct {
	mu      sync.RWMutex
	cookies map[string]string
}

// NewCookieJar creates an empty jar.
func NewCookieJar() *CookieJar {
	return &CookieJar{cookies: make(map[string]string)}
}

// Absorb merges the Set-Cookie headers of the response into the jar.
// Expired or deleted cookies are removed.
func (j *CookieJar) Absorb(resp *http.Response) {
	if resp == nil {
		return
	}

	received := resp.Cookies()
	if len(received) == 0 {
		return
	}

	now := time.Now()

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, cookie := range received {
		if cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && cookie.Expires.Before(now)) {
			delete(j.cookies, cookie.Name)

			continue
		}

		j.cookies[cookie.Name] = cookie.Value
	}
}

// Set stores a single cookie.
func (j *CookieJar) Set(name, value string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.cookies[name] = value
}

// Get returns the value of the named cookie.
func (j *CookieJar) Get(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	value, ok := j.cookies[name]

	return value, ok
}

// Len returns the number of stored cookies.
func (j *CookieJar) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.cookies)
}

// Attach writes all cookies to the request's Cookie header, sorted by name.
// Requests get no header while the jar is empty.
func (j *CookieJar) Attach(req *http.Request) {
	j.mu.RLock()

	pairs := make([]string, 0, len(j.cookies))
	for name, value := range j.cookies {
		// String drops cookies with invalid names.
		if pair := (&http.Cookie{Name: name, Value: value}).String(); pair != "" {
			pairs = append(pairs, pair)
		}
	}

	j.mu.RUnlock()

	if len(pairs) == 0 {
		return
	}

	slices.Sort(pairs)
	req.Header.Set(cookieHeader, strings.Join(pairs, "; "))
}
