package engine

import (
	"sync"
	"testing"
)

func TestDeferral_CompletesOnce(t *testing.T) {
	var delivered []*Response
	d := NewDeferral(func(resp *Response) { delivered = append(delivered, resp) })

	first := &Response{Status: 200}
	d.Complete(first)
	d.Complete(&Response{Status: 500})
	d.Complete(nil)

	if len(delivered) != 1 {
		t.Fatal("deferral delivered", len(delivered), "times")
	}
	if delivered[0] != first {
		t.Fatal("deferral delivered the wrong response")
	}
}

func TestDeferral_NilResponse(t *testing.T) {
	var delivered bool
	var got *Response
	d := NewDeferral(func(resp *Response) { delivered, got = true, resp })

	d.Complete(nil)

	if !delivered {
		t.Fatal("nil completion was not delivered")
	}
	if got != nil {
		t.Fatal("nil completion delivered a response")
	}
}

func TestDeferral_ConcurrentCompletion(t *testing.T) {
	var mutex sync.Mutex
	var count int
	d := NewDeferral(func(*Response) {
		mutex.Lock()
		count++
		mutex.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Complete(&Response{Status: 200})
		}()
	}
	wg.Wait()

	if count != 1 {
		t.Fatal("deferral completed", count, "times under contention")
	}
}

func TestResponse_HeaderBlock(t *testing.T) {
	resp := &Response{
		Headers: map[string]string{
			"Content-Type":   "text/css",
			"Cache-Control":  "no-cache",
			"Content-Length": "6",
		},
	}
	want := "Cache-Control: no-cache\nContent-Length: 6\nContent-Type: text/css"
	if got := resp.HeaderBlock(); got != want {
		t.Fatalf("HeaderBlock = %q, want %q", got, want)
	}

	empty := &Response{}
	if got := empty.HeaderBlock(); got != "" {
		t.Fatalf("empty HeaderBlock = %q", got)
	}
}

func TestDecision_String(t *testing.T) {
	if DecisionInView.String() != "in-view" || DecisionExternal.String() != "external" || DecisionCancel.String() != "cancel" {
		t.Fatal("decision labels wrong")
	}
}
