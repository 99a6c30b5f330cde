package components

import (
	"errors"
	"testing"
)

func TestCollection_AddRemove(t *testing.T) {
	c := NewCollection()

	counter, err := c.Add("Counter", "#counter", map[string]interface{}{"start": 1})
	if err != nil {
		t.Fatal(err)
	}
	if counter.ID == 0 {
		t.Fatal("component not assigned an id")
	}

	clock, err := c.Add("Clock", "#clock", nil)
	if err != nil {
		t.Fatal(err)
	}

	got := c.Components()
	if len(got) != 2 {
		t.Fatal("wrong component count:", len(got))
	}
	if got[0].Identity != "Counter" || got[1].Identity != "Clock" {
		t.Fatal("components out of mount order")
	}

	if _, err := c.Remove(counter.ID); err != nil {
		t.Fatal(err)
	}
	got = c.Components()
	if len(got) != 1 || got[0].ID != clock.ID {
		t.Fatal("wrong component left after removal")
	}

	if _, err := c.Remove(counter.ID); !errors.Is(err, ErrUnknownComponent) {
		t.Fatal("double removal did not report ErrUnknownComponent:", err)
	}
}

func TestCollection_SelectorInUse(t *testing.T) {
	c := NewCollection()

	if _, err := c.Add("Counter", "#app", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Add("Clock", "#app", nil); !errors.Is(err, ErrSelectorInUse) {
		t.Fatal("duplicate selector did not report ErrSelectorInUse:", err)
	}

	// Detaching frees the selector again.
	if _, err := c.RemoveBySelector("#app"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Add("Clock", "#app", nil); err != nil {
		t.Fatal("selector still blocked after removal:", err)
	}
}

func TestCollection_Validation(t *testing.T) {
	c := NewCollection()
	if _, err := c.Add("", "#app", nil); err == nil {
		t.Fatal("empty identity accepted")
	}
	if _, err := c.Add("Counter", "", nil); err == nil {
		t.Fatal("empty selector accepted")
	}
}

func TestCollection_WatchReplays(t *testing.T) {
	c := NewCollection()

	if _, err := c.Add("Counter", "#counter", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Add("Clock", "#clock", nil); err != nil {
		t.Fatal(err)
	}

	var changes []Change
	c.Watch(func(ch Change) { changes = append(changes, ch) })

	if len(changes) != 2 {
		t.Fatal("watcher did not see existing components:", len(changes))
	}
	if changes[0].Component.Selector != "#counter" || changes[1].Component.Selector != "#clock" {
		t.Fatal("replay out of mount order")
	}
	for _, ch := range changes {
		if ch.Operation != OperationAttach {
			t.Fatal("replay used operation:", ch.Operation)
		}
	}

	if _, err := c.RemoveBySelector("#counter"); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 3 || changes[2].Operation != OperationDetach {
		t.Fatal("watcher did not see detach")
	}
}

func TestCollection_SnapshotIsolated(t *testing.T) {
	c := NewCollection()
	if _, err := c.Add("Counter", "#counter", nil); err != nil {
		t.Fatal(err)
	}
	snapshot := c.Components()
	snapshot[0].Identity = "Mutated"
	if c.Components()[0].Identity != "Counter" {
		t.Fatal("snapshot mutation leaked into collection")
	}
}
