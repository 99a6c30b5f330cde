/*
The assets package implements the content side of the window host: the
virtual origin that the embedded browser engine navigates against, the
stores that content roots are served from, and the resolver that turns
an intercepted request URI into response bytes.

Resolution consults, in order, the reserved module manifest path, the
in-memory virtual file set supplied by the UI framework integration, and
the content root, substituting the configured host page for
extension-less document requests so that client-side routes reload
correctly. A hot reload override registry gets the final say over
whatever was resolved. Paths that stay unresolved are reported as
unanswered rather than as errors; the embedded engine then fails the
request on its own, which is the desired behavior for an origin that
does not really exist.
*/
package assets

import (
	"errors"
	"net/http"
	"path"
	"strings"
)

// ModulesManifestPath is the reserved path that the UI framework probes
// for its JS initializer manifest. It is answered before any file
// lookup because the framework expects it to exist even without a
// backing file.
const ModulesManifestPath = "_framework/blazor.modules.json"

// FileSet is an in-memory set of virtual files consulted before the
// content root, supplied by the UI framework integration. Lookup
// reports ok=false for entries the set cannot or will not answer, which
// sends resolution onwards to the content root. An empty contentType is
// derived from the name and data.
type FileSet interface {
	Lookup(name string) (data []byte, contentType string, ok bool)
}

// Result source labels, recorded per request for diagnostics.
const (
	SourceManifest = "manifest"
	SourceOverlay  = "overlay"
	SourceStore    = "store"
	SourceHostPage = "hostpage"
	SourceOverride = "override"
)

// Result is a synthesized response.
type Result struct {
	Body    []byte
	Status  int
	Reason  string
	Headers map[string]string
	Source  string
}

// ResolverConfig carries the construction-time configuration of a
// Resolver. Store is required, everything else has usable defaults.
type ResolverConfig struct {
	Origin           Origin
	Store            Store
	HostPage         string
	HostPageFallback bool
	Overlay          FileSet
	Overrides        *Overrides
	ModulesManifest  []byte
}

// Resolver resolves intercepted request URIs against the virtual origin
// and the content root. All state is fixed at construction apart from
// the override registry, so resolution is safe from any goroutine
// without locking.
type Resolver struct {
	origin    Origin
	store     Store
	hostPage  string
	fallback  bool
	overlay   FileSet
	overrides *Overrides
	manifest  []byte
}

// NewResolver builds a Resolver from the given configuration.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Store == nil {
		return nil, errors.New("resolver needs a content store")
	}
	r := &Resolver{
		origin:    cfg.Origin,
		store:     cfg.Store,
		hostPage:  cfg.HostPage,
		fallback:  cfg.HostPageFallback,
		overlay:   cfg.Overlay,
		overrides: cfg.Overrides,
		manifest:  cfg.ModulesManifest,
	}
	if r.origin == (Origin{}) {
		origin, err := ParseOrigin(DefaultVirtualHost)
		if err != nil {
			return nil, err
		}
		r.origin = origin
	}
	if r.hostPage == "" {
		r.hostPage = "index.html"
	}
	hostPage, ok := CleanRequestPath(r.hostPage)
	if !ok || hostPage == "" {
		return nil, errors.New("resolver host page is not a usable path")
	}
	r.hostPage = hostPage
	if r.overrides == nil {
		r.overrides = NewOverrides()
	}
	if r.manifest == nil {
		r.manifest = []byte("[]")
	}
	return r, nil
}

// Origin returns the virtual origin the resolver serves.
func (r *Resolver) Origin() Origin {
	return r.origin
}

// Store returns the content store the resolver serves from.
func (r *Resolver) Store() Store {
	return r.store
}

// Overrides returns the hot reload override registry.
func (r *Resolver) Overrides() *Overrides {
	return r.overrides
}

// Resolve maps a request URI onto a synthesized response. It reports
// false for URIs outside the virtual origin and for paths that nothing
// could answer; such requests are left to the engine's default
// handling.
func (r *Resolver) Resolve(uri string, rc RequestContext) (*Result, bool) {
	// Lookups ignore the query string. The browser still sees the
	// original URI for navigation purposes.
	rel, ok := r.origin.RelativePath(StripQuery(uri))
	if !ok {
		return nil, false
	}
	rel, ok = CleanRequestPath(rel)
	if !ok {
		return nil, false
	}

	var res *Result
	switch {
	case rel == ModulesManifestPath:
		res = &Result{
			Body:    r.manifest,
			Status:  http.StatusOK,
			Reason:  http.StatusText(http.StatusOK),
			Headers: map[string]string{"Content-Type": "application/json"},
			Source:  SourceManifest,
		}
	default:
		if r.overlay != nil {
			if data, ctype, ok := r.overlay.Lookup(rel); ok {
				if ctype == "" {
					ctype = ContentType(rel, data)
				}
				res = &Result{
					Body:    data,
					Status:  http.StatusOK,
					Reason:  http.StatusText(http.StatusOK),
					Headers: map[string]string{"Content-Type": ctype},
					Source:  SourceOverlay,
				}
			}
		}
		if res == nil {
			res = r.resolveStore(rel, rc)
		}
	}

	if ov, ok := r.overrides.Lookup(rel); ok {
		res = applyOverride(rel, res, ov)
	}
	if res == nil {
		return nil, false
	}
	return res, true
}

func (r *Resolver) resolveStore(rel string, rc RequestContext) *Result {
	name := rel
	source := SourceStore
	if path.Ext(name) == "" && r.fallback && rc != ContextFetch {
		// An extension-less path is a client-side route, not an asset.
		// Fetches never fall back, a data request must 404 honestly.
		name = r.hostPage
		source = SourceHostPage
	}
	data, err := r.store.ReadFile(name)
	if err != nil {
		return nil
	}
	return &Result{
		Body:    data,
		Status:  http.StatusOK,
		Reason:  http.StatusText(http.StatusOK),
		Headers: map[string]string{"Content-Type": ContentType(name, data)},
		Source:  source,
	}
}

func applyOverride(rel string, res *Result, ov Override) *Result {
	out := &Result{
		Status:  http.StatusOK,
		Headers: map[string]string{},
		Source:  SourceOverride,
	}
	if res != nil {
		out.Body = res.Body
		out.Status = res.Status
		out.Reason = res.Reason
		for k, v := range res.Headers {
			out.Headers[k] = v
		}
	}
	if ov.Body != nil {
		out.Body = ov.Body
	}
	if ov.Status != 0 {
		out.Status = ov.Status
		out.Reason = ""
	}
	for k, v := range ov.Headers {
		out.Headers[k] = v
	}
	if ov.Reason != "" {
		out.Reason = ov.Reason
	}
	if out.Reason == "" {
		out.Reason = http.StatusText(out.Status)
	}
	if _, ok := out.Headers["Content-Type"]; !ok {
		out.Headers["Content-Type"] = ContentType(rel, out.Body)
	}
	return out
}

// CleanRequestPath canonicalizes an origin-relative request path for
// lookup. Backslashes count as separators, the path is resolved as if
// rooted so that ".." sequences cannot escape upwards, and volume or
// stream syntax is rejected outright. The empty result stands for the
// origin root.
func CleanRequestPath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.ContainsAny(name, ":\x00") {
		return "", false
	}
	return strings.TrimPrefix(path.Clean("/"+name), "/"), true
}
