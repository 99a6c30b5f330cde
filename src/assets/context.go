package assets

// RequestContext classifies what an intercepted request is for. Document
// requests come from top-level navigations, fetch requests from script
// (fetch/XHR), and everything else, such as stylesheets and images, is
// lumped together as other. Only document and other requests are
// eligible for host page fallback.
type RequestContext int

const (
	ContextOther RequestContext = iota
	ContextDocument
	ContextFetch
)

// ContextFromFetchDest maps the Sec-Fetch-Dest request header onto a
// RequestContext. Engines that do not send the header fall back to the
// Accept header, which is close enough to tell navigations from asset
// loads.
func ContextFromFetchDest(dest, accept string) RequestContext {
	switch dest {
	case "document", "iframe", "frame":
		return ContextDocument
	case "empty":
		return ContextFetch
	case "":
		// Older engines. A navigation advertises text/html first.
		if len(accept) >= 9 && accept[:9] == "text/html" {
			return ContextDocument
		}
		return ContextOther
	default:
		return ContextOther
	}
}

func (c RequestContext) String() string {
	switch c {
	case ContextDocument:
		return "document"
	case ContextFetch:
		return "fetch"
	default:
		return "other"
	}
}
