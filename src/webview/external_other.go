//go:build !windows
// +build !windows

package webview

import (
	"os/exec"
	"runtime"
)

// launchBrowser asks the desktop environment to open the URI with the
// default browser. The command is started and not waited on.
func launchBrowser(uri string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	return exec.Command(name, uri).Start()
}
