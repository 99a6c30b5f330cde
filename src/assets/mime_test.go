package assets

import (
	"strings"
	"testing"
)

func TestContentType(t *testing.T) {
	if got := ContentType("css/app.css", nil); !strings.HasPrefix(got, "text/css") {
		t.Fatalf("ContentType for .css = %q", got)
	}
	if got := ContentType("app.js", nil); !strings.Contains(got, "javascript") {
		t.Fatalf("ContentType for .js = %q", got)
	}
	if got := ContentType("manifest.json", nil); !strings.HasPrefix(got, "application/json") {
		t.Fatalf("ContentType for .json = %q", got)
	}

	// No useful extension, so the content decides.
	if got := ContentType("page", []byte("<!DOCTYPE html><html></html>")); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("ContentType for sniffed html = %q", got)
	}
	if got := ContentType("raw", []byte{0x00, 0x01, 0x02, 0x03}); !strings.HasPrefix(got, "application/octet-stream") {
		t.Fatalf("ContentType for binary = %q", got)
	}

	if got := ContentType("empty", nil); got != "application/octet-stream" {
		t.Fatalf("ContentType for empty unknown = %q", got)
	}
}
