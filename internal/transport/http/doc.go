// Package http provides http.RoundTripper decorators used by the Yandex Music client:
// request/response dumping with credential redaction, User-Agent injection,
// client-side request rate limiting and HTTP or SOCKS5 proxies.
package http
