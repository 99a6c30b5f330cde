package assets

import (
	"embed"
	"io/fs"
)

//go:embed placeholder
var placeholderFiles embed.FS

// Placeholder returns the built-in content shown when no content root
// has been configured, so that a bare porthole binary still brings up a
// window that explains itself.
func Placeholder() Store {
	sub, err := fs.Sub(placeholderFiles, "placeholder")
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}
	return NewFSStore(sub, "placeholder")
}
