package assets

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultVirtualHost is the origin the embedded browser engine navigates
// against unless configured otherwise. The host is deliberately one that
// never resolves via real DNS, so requests that escape interception fail
// instead of leaking onto the network.
const DefaultVirtualHost = "https://0.0.0.0/"

// Origin is a validated scheme+host pair that intercepted request URIs
// are tested against. Membership is decided by scheme and host only, so
// every path under the origin belongs to it.
type Origin struct {
	scheme string
	host   string
	base   string
}

// ParseOrigin parses and validates an origin string such as
// "https://0.0.0.0/". The string must carry a scheme and a host and
// nothing else, although a bare "/" path is tolerated.
func ParseOrigin(rawurl string) (Origin, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return Origin{}, fmt.Errorf("invalid origin %q: %w", rawurl, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Origin{}, fmt.Errorf("invalid origin %q: scheme must be http or https", rawurl)
	}
	if u.Host == "" {
		return Origin{}, fmt.Errorf("invalid origin %q: no host", rawurl)
	}
	if u.Path != "" && u.Path != "/" {
		return Origin{}, fmt.Errorf("invalid origin %q: must not carry a path", rawurl)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return Origin{}, fmt.Errorf("invalid origin %q: must not carry a query or fragment", rawurl)
	}
	o := Origin{
		scheme: strings.ToLower(u.Scheme),
	}
	o.host = canonicalHost(strings.ToLower(u.Host), o.scheme)
	o.base = o.scheme + "://" + o.host + "/"
	return o, nil
}

// String returns the canonical origin with a trailing slash, e.g.
// "https://0.0.0.0/".
func (o Origin) String() string {
	return o.base
}

// Contains reports whether the given absolute URI lies inside the origin.
func (o Origin) Contains(rawuri string) bool {
	_, ok := o.RelativePath(rawuri)
	return ok
}

// RelativePath derives the origin-relative path of the given absolute
// URI, without a leading slash. The second return value reports origin
// membership; out-of-origin and unparseable URIs return false.
func (o Origin) RelativePath(rawuri string) (string, bool) {
	u, err := url.Parse(rawuri)
	if err != nil || !u.IsAbs() {
		return "", false
	}
	if strings.ToLower(u.Scheme) != o.scheme {
		return "", false
	}
	if canonicalHost(strings.ToLower(u.Host), o.scheme) != o.host {
		return "", false
	}
	return strings.TrimPrefix(u.Path, "/"), true
}

// Resolve joins an in-app path onto the origin, producing an absolute
// URI suitable for navigation.
func (o Origin) Resolve(path string) string {
	return o.base + strings.TrimPrefix(path, "/")
}

// canonicalHost strips the default port for the scheme so that
// "0.0.0.0:443" and "0.0.0.0" compare equal under https.
func canonicalHost(host, scheme string) string {
	switch scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	return host
}

// StripQuery removes everything from the first '?' onwards, leaving
// URIs without one unchanged. Lookup keys must ignore query strings even
// though the browser still sees the original URI.
func StripQuery(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}
