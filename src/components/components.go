/*
The components package tracks the UI components mounted into the host
document. The collection is an ordered set of mount descriptors that the
window manager observes and reflects into the live document over the
message channel, so host code can add and remove components at any time
without reloading the page.
*/
package components

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSelectorInUse is returned when adding a component to a selector
// that already has one mounted.
var ErrSelectorInUse = errors.New("selector already has a component")

// ErrUnknownComponent is returned when removing a component that is not
// in the collection.
var ErrUnknownComponent = errors.New("component not in collection")

// RootComponent describes one UI component mounted into the host
// document: the component identity as the framework knows it, the DOM
// selector it mounts at, and an optional parameter bag.
type RootComponent struct {
	ID         int                    `json:"id"`
	Identity   string                 `json:"identity"`
	Selector   string                 `json:"selector"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Operation says what happened to a component.
type Operation string

const (
	OperationAttach Operation = "attach"
	OperationDetach Operation = "detach"
)

// Change is one observed mutation of the collection.
type Change struct {
	Operation Operation
	Component RootComponent
}

// Collection is an observable ordered set of root components. Safe for
// concurrent use. Watchers are invoked in mutation order; they must not
// call back into the collection.
type Collection struct {
	mutex    sync.Mutex
	nextID   int
	items    []RootComponent
	watchers []func(Change)
}

func NewCollection() *Collection {
	return &Collection{nextID: 1}
}

// Add appends a component descriptor and notifies watchers. Each
// selector can hold at most one component at a time.
func (c *Collection) Add(identity, selector string, parameters map[string]interface{}) (RootComponent, error) {
	if identity == "" {
		return RootComponent{}, errors.New("component identity must not be empty")
	}
	if selector == "" {
		return RootComponent{}, errors.New("component selector must not be empty")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, item := range c.items {
		if item.Selector == selector {
			return RootComponent{}, fmt.Errorf("%w: %q", ErrSelectorInUse, selector)
		}
	}
	component := RootComponent{
		ID:         c.nextID,
		Identity:   identity,
		Selector:   selector,
		Parameters: parameters,
	}
	c.nextID++
	c.items = append(c.items, component)
	c.notify(Change{Operation: OperationAttach, Component: component})
	return component, nil
}

// Remove detaches the component with the given ID and notifies
// watchers.
func (c *Collection) Remove(id int) (RootComponent, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.notify(Change{Operation: OperationDetach, Component: item})
			return item, nil
		}
	}
	return RootComponent{}, fmt.Errorf("%w: id %d", ErrUnknownComponent, id)
}

// RemoveBySelector detaches whatever component is mounted at the given
// selector and notifies watchers.
func (c *Collection) RemoveBySelector(selector string) (RootComponent, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for i, item := range c.items {
		if item.Selector == selector {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.notify(Change{Operation: OperationDetach, Component: item})
			return item, nil
		}
	}
	return RootComponent{}, fmt.Errorf("%w: selector %q", ErrUnknownComponent, selector)
}

// Components returns a snapshot of the collection in mount order.
func (c *Collection) Components() []RootComponent {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	out := make([]RootComponent, len(c.items))
	copy(out, c.items)
	return out
}

// Watch registers a watcher and replays the current contents to it as
// attach changes, atomically with respect to other mutations, so the
// watcher observes every component exactly once no matter when it
// subscribes.
func (c *Collection) Watch(watcher func(Change)) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.watchers = append(c.watchers, watcher)
	for _, item := range c.items {
		watcher(Change{Operation: OperationAttach, Component: item})
	}
}

// notify runs under the collection mutex.
func (c *Collection) notify(change Change) {
	for _, watcher := range c.watchers {
		watcher(change)
	}
}
