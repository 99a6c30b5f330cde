package assets

import (
	"mime"
	"path"

	"github.com/gabriel-vasile/mimetype"
)

// ContentType derives the Content-Type for a served file. The extension
// is authoritative when it is a registered one, otherwise the content is
// sniffed. Extensionless empty files fall back to a byte stream.
func ContentType(name string, data []byte) string {
	if ext := path.Ext(name); ext != "" {
		if ctype := mime.TypeByExtension(ext); ctype != "" {
			return ctype
		}
	}
	if len(data) > 0 {
		return mimetype.Detect(data).String()
	}
	return "application/octet-stream"
}
