package assets

import "sync"

// Override replaces the outcome of resolving one request path. A nil
// Body keeps the resolved bytes, a zero Status keeps the resolved status
// and Headers are merged over the resolved ones, so an override can
// retouch a response as well as replace it outright.
type Override struct {
	Body    []byte
	Status  int
	Reason  string
	Headers map[string]string
}

// Overrides is a registry of per-path overrides applied after normal
// resolution. It exists for hot reload style integrations that push
// updated content into a running window without touching the content
// root. Safe for concurrent use.
type Overrides struct {
	mutex sync.RWMutex
	byURI map[string]Override
}

func NewOverrides() *Overrides {
	return &Overrides{byURI: make(map[string]Override)}
}

// Set installs or replaces the override for a request path. The path is
// origin-relative without a leading slash, as produced by
// CleanRequestPath.
func (o *Overrides) Set(name string, ov Override) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.byURI[name] = ov
}

// Clear removes the override for a request path, if any.
func (o *Overrides) Clear(name string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	delete(o.byURI, name)
}

// Lookup returns the override for a request path, if one is installed.
func (o *Overrides) Lookup(name string) (Override, bool) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	ov, ok := o.byURI[name]
	return ov, ok
}

// Paths returns the currently overridden request paths.
func (o *Overrides) Paths() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	paths := make([]string, 0, len(o.byURI))
	for name := range o.byURI {
		paths = append(paths, name)
	}
	return paths
}
