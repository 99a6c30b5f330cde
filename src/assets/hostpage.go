package assets

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EnsureBridgeScript guarantees that a served host page carries the
// given inline script. Engines inject the script natively before any
// document script runs, but a host page fetched outside the window,
// e.g. in an external browser pointed at the loopback bridge while
// debugging, would otherwise miss the window.external contract. The
// script is inserted as the first child of <head> so it still runs
// before the framework's own scripts. Pages already containing marker
// are returned unchanged, as is anything that cannot be parsed.
func EnsureBridgeScript(doc []byte, script, marker string) []byte {
	if marker != "" && bytes.Contains(doc, []byte(marker)) {
		return doc
	}
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return doc
	}
	head := findElement(root, atom.Head)
	if head == nil {
		return doc
	}
	node := &html.Node{Type: html.ElementNode, Data: "script", DataAtom: atom.Script}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: script})
	if head.FirstChild != nil {
		head.InsertBefore(node, head.FirstChild)
	} else {
		head.AppendChild(node)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return doc
	}
	return buf.Bytes()
}

func findElement(n *html.Node, name atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
