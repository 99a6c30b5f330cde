package engine

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/porthole-app/porthole-go/src/assets"
)

type testHost struct {
	mutex    sync.Mutex
	requests []*Request
	respond  func(req *Request) *Response
}

func (h *testHost) ResourceRequested(req *Request, d *Deferral) {
	h.mutex.Lock()
	h.requests = append(h.requests, req)
	h.mutex.Unlock()
	if h.respond == nil {
		d.Complete(nil)
		return
	}
	d.Complete(h.respond(req))
}

func (h *testHost) MessageReceived(source, message string) {}

func (h *testHost) NavigationRequested(uri string) Decision { return DecisionInView }

func (h *testHost) NewWindowRequested(uri string) Decision { return DecisionExternal }

func (h *testHost) recorded() []*Request {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	out := make([]*Request, len(h.requests))
	copy(out, h.requests)
	return out
}

func startTestBridge(t *testing.T, host Host) *Bridge {
	t.Helper()
	b := NewBridge()
	if err := b.Start(assets.DefaultVirtualHost); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	b.SetHost(host)
	return b
}

func get(t *testing.T, rawurl string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", rawurl, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestBridge_ServesInterceptedContent(t *testing.T) {
	host := &testHost{respond: func(req *Request) *Response {
		if req.URI != "https://0.0.0.0/css/app.css?v=2" {
			return nil
		}
		return &Response{
			Status:  200,
			Reason:  "OK",
			Headers: map[string]string{"Content-Type": "text/css"},
			Body:    []byte("body{}"),
		}
	}}
	b := startTestBridge(t, host)

	resp := get(t, b.BaseURL()+"/css/app.css?v=2", map[string]string{"Sec-Fetch-Dest": "style"})
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatal("status:", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/css" {
		t.Fatal("content type:", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "body{}" {
		t.Fatal("body:", string(body))
	}

	// The host saw the virtual-origin URI with the query intact.
	recorded := host.recorded()
	if len(recorded) != 1 {
		t.Fatal("host saw", len(recorded), "requests")
	}
	if recorded[0].URI != "https://0.0.0.0/css/app.css?v=2" {
		t.Fatal("host saw URI:", recorded[0].URI)
	}
	if recorded[0].Context != assets.ContextOther {
		t.Fatal("host saw context:", recorded[0].Context)
	}
}

func TestBridge_UnansweredIs404(t *testing.T) {
	b := startTestBridge(t, &testHost{})

	resp := get(t, b.BaseURL()+"/missing.txt", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatal("status:", resp.StatusCode)
	}
}

func TestBridge_ContextMapping(t *testing.T) {
	host := &testHost{}
	b := startTestBridge(t, host)

	get(t, b.BaseURL()+"/page", map[string]string{"Sec-Fetch-Dest": "document"}).Body.Close()
	get(t, b.BaseURL()+"/data", map[string]string{"Sec-Fetch-Dest": "empty"}).Body.Close()
	get(t, b.BaseURL()+"/app.js", map[string]string{"Sec-Fetch-Dest": "script"}).Body.Close()

	recorded := host.recorded()
	if len(recorded) != 3 {
		t.Fatal("host saw", len(recorded), "requests")
	}
	want := []assets.RequestContext{assets.ContextDocument, assets.ContextFetch, assets.ContextOther}
	for i, rc := range want {
		if recorded[i].Context != rc {
			t.Fatalf("request %d context = %v, want %v", i, recorded[i].Context, rc)
		}
	}
}

func TestBridge_RewriteRestore(t *testing.T) {
	b := startTestBridge(t, &testHost{})
	base := b.BaseURL()

	rewritten := b.Rewrite("https://0.0.0.0/counter?x=1")
	if !strings.HasPrefix(rewritten, base) || !strings.HasSuffix(rewritten, "/counter?x=1") {
		t.Fatal("rewrite produced:", rewritten)
	}
	if got := b.Restore(rewritten); got != "https://0.0.0.0/counter?x=1" {
		t.Fatal("restore produced:", got)
	}

	// Out-of-origin URIs pass through both directions.
	if got := b.Rewrite("https://example.com/page"); got != "https://example.com/page" {
		t.Fatal("foreign rewrite produced:", got)
	}
	if got := b.Restore("https://example.com/page"); got != "https://example.com/page" {
		t.Fatal("foreign restore produced:", got)
	}
}

func TestBridge_NoHost(t *testing.T) {
	b := NewBridge()
	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest("GET", "/x", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatal("status without host:", rec.Code)
	}
}
