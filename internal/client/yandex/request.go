package yandex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

const (
	headerAuthorization = "Authorization"
	headerDevice        = "X-Yandex-Music-Device"
	headerRetpath       = "X-Retpath-Y"
	headerAccept        = "Accept"
	headerContentType   = "Content-Type"

	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

//nolint:gochecknoglobals // Pre-compiled pattern used as a constant.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// BaseURLs are the hosts endpoints are resolved against.
type BaseURLs struct {
	Music       string
	Passport    string
	PassportAPI string
	Adfox       string
}

// RequestBuilder turns endpoint templates into ready HTTP requests.
// It performs no I/O.
type RequestBuilder struct {
	bases    map[Base]*url.URL
	retpath  string
	deviceID string
	jar      *CookieJar
}

// NewRequestBuilder creates a builder sharing the given cookie jar.
// The device id is used for requests made before authorization.
func NewRequestBuilder(bases BaseURLs, jar *CookieJar, deviceID string) (*RequestBuilder, error) {
	parsed := make(map[Base]*url.URL, 4) //nolint:mnd // Number of known bases.

	for base, raw := range map[Base]string{
		BaseMusic:       bases.Music,
		BasePassport:    bases.Passport,
		BasePassportAPI: bases.PassportAPI,
		BaseAdfox:       bases.Adfox,
	} {
		if raw == "" {
			continue
		}

		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL '%s': %w", raw, err)
		}

		parsed[base] = u
	}

	if jar == nil {
		jar = NewCookieJar()
	}

	return &RequestBuilder{
		bases:    parsed,
		retpath:  bases.Music,
		deviceID: deviceID,
		jar:      jar,
	}, nil
}

// Build creates the request for the endpoint. Every placeholder must have a value in params,
// otherwise a *MissingSubstitutionError naming all absent placeholders is returned.
// Extra params are ignored. A nil auth sends the request anonymously.
func (b *RequestBuilder) Build(
	ctx context.Context,
	endpoint Endpoint,
	params map[string]string,
	auth *AuthStorage,
) (*http.Request, error) {
	if missing := missingPlaceholders(endpoint, params); len(missing) > 0 {
		return nil, &MissingSubstitutionError{Endpoint: endpoint.Name, Names: missing}
	}

	target, err := b.resolve(endpoint, params)
	if err != nil {
		return nil, err
	}

	var (
		body        io.Reader = http.NoBody
		contentType string
	)

	if len(endpoint.Form) > 0 {
		form := make(url.Values, len(endpoint.Form))
		for key, value := range endpoint.Form {
			form.Set(key, substitute(value, params))
		}

		body = strings.NewReader(form.Encode())
		contentType = contentTypeForm
	}

	method := endpoint.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for '%s': %w", endpoint.Name, err)
	}

	req.Header.Set(headerAccept, contentTypeJSON)

	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}

	b.attachAuth(req, auth)

	return req, nil
}

func (b *RequestBuilder) resolve(endpoint Endpoint, params map[string]string) (*url.URL, error) {
	path := substitute(endpoint.Path, params)

	var target *url.URL

	if absolute, err := url.Parse(path); err == nil && absolute.Scheme != "" && absolute.Host != "" {
		target = absolute
	} else {
		base, ok := b.bases[endpoint.Base]
		if !ok {
			return nil, fmt.Errorf("%w: %d for '%s'", ErrUnknownBase, endpoint.Base, endpoint.Name)
		}

		// Placeholder values such as track keys are kept verbatim in the path.
		target = base.JoinPath(path)
	}

	if len(endpoint.Query) > 0 {
		query := target.Query()
		for key, value := range endpoint.Query {
			query.Set(key, substitute(value, params))
		}

		target.RawQuery = query.Encode()
	}

	return target, nil
}

func (b *RequestBuilder) attachAuth(req *http.Request, auth *AuthStorage) {
	b.jar.Attach(req)

	snapshot := auth.Snapshot()

	if snapshot.Token != "" {
		req.Header.Set(headerAuthorization, "OAuth "+snapshot.Token)
	}

	deviceID := snapshot.DeviceID
	if deviceID == "" {
		deviceID = b.deviceID
	}

	if deviceID != "" {
		req.Header.Set(headerDevice, deviceID)
	}

	if b.retpath != "" {
		req.Header.Set(headerRetpath, b.retpath)
	}
}

// missingPlaceholders returns the sorted, unique placeholder names without a parameter.
func missingPlaceholders(endpoint Endpoint, params map[string]string) []string {
	templates := make([]string, 0, 1+len(endpoint.Query)+len(endpoint.Form))
	templates = append(templates, endpoint.Path)

	for _, value := range endpoint.Query {
		templates = append(templates, value)
	}

	for _, value := range endpoint.Form {
		templates = append(templates, value)
	}

	var missing []string

	for _, template := range templates {
		for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
			name := match[1]
			if _, ok := params[name]; !ok && !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
		}
	}

	slices.Sort(missing)

	return missing
}

func substitute(template string, params map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(placeholder string) string {
		return params[placeholder[1:len(placeholder)-1]]
	})
}
