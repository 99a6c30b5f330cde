//go:build windows
// +build windows

package webview

import (
	"golang.org/x/sys/windows"
)

// launchBrowser opens the URI through the shell, which applies the
// user's protocol associations.
func launchBrowser(uri string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	target, err := windows.UTF16PtrFromString(uri)
	if err != nil {
		return err
	}
	return windows.ShellExecute(0, verb, target, nil, nil, windows.SW_SHOWNORMAL)
}
