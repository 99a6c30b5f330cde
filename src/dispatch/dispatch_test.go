package dispatch

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPost_Order(t *testing.T) {
	d := New(nil)
	var got []int
	done := make(chan struct{})

	for i := 0; i < 100; i++ {
		n := i
		d.Post(func() {
			got = append(got, n)
		})
	}
	d.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("posted work never ran")
	}
	if len(got) != 100 {
		t.Fatal("posted work lost:", len(got))
	}
	for i, n := range got {
		if n != i {
			t.Fatalf("posted work ran out of order: position %d got %d", i, n)
		}
	}
}

func TestInvoke_RunsAndWaits(t *testing.T) {
	d := New(nil)
	var before, after bool

	d.Post(func() { before = true })
	d.Invoke(func() { after = before })

	if !after {
		t.Fatal("invoke did not wait for previously posted work")
	}
}

func TestInvoke_PanicPropagates(t *testing.T) {
	d := New(nil)
	want := errors.New("boom")

	defer func() {
		if r := recover(); r != want {
			t.Fatalf("recovered %v, want original panic value", r)
		}
		// The dispatcher must survive a panicking work item.
		var alive bool
		d.Invoke(func() { alive = true })
		if !alive {
			t.Fatal("dispatcher dead after panic")
		}
	}()
	d.Invoke(func() { panic(want) })
	t.Fatal("invoke returned instead of panicking")
}

func TestInvokeErr(t *testing.T) {
	d := New(nil)
	want := errors.New("expected failure")

	if err := d.InvokeErr(func() error { return want }); err != want {
		t.Fatalf("got %v, want the original error", err)
	}
	if err := d.InvokeErr(func() error { return nil }); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}

func TestInvokeValue(t *testing.T) {
	d := New(nil)

	value, err := d.InvokeValue(func() (interface{}, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := value.(int); !ok || n != 42 {
		t.Fatalf("got %v, want 42", value)
	}

	want := errors.New("no value")
	if _, err := d.InvokeValue(func() (interface{}, error) { return nil, want }); err != want {
		t.Fatalf("got %v, want the original error", err)
	}
}

func TestPost_PanicHandler(t *testing.T) {
	caught := make(chan interface{}, 1)
	d := New(func(v interface{}) { caught <- v })

	d.Post(func() { panic("fire and forget") })

	select {
	case v := <-caught:
		if v != "fire and forget" {
			t.Fatalf("handler got %v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("panic handler never ran")
	}

	// The dispatcher keeps serving afterwards.
	var alive bool
	d.Invoke(func() { alive = true })
	if !alive {
		t.Fatal("dispatcher dead after handled panic")
	}
}

func TestInvoke_Serializes(t *testing.T) {
	d := New(nil)
	var count int

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Invoke(func() { count++ })
			}
		}()
	}
	wg.Wait()

	if count != 1000 {
		t.Fatal("racy increments observed:", count)
	}
}
