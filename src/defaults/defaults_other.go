//go:build !linux && !darwin && !windows && !openbsd && !freebsd && !netbsd
// +build !linux,!darwin,!windows,!openbsd,!freebsd,!netbsd

package defaults

// Sane defaults for the other platforms. The "default" options may be
// may be replaced by the running configuration.
func GetDefaults() platformDefaultParameters {
	return platformDefaultParameters{
		// Admin
		DefaultAdminListen: "tcp://localhost:9090",

		// Configuration (used for portholectl)
		DefaultConfigFile: "/etc/porthole.conf",
	}
}
