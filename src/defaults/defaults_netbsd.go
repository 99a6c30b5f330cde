//go:build netbsd
// +build netbsd

package defaults

// Sane defaults for the BSD platforms. The "default" options may be
// may be replaced by the running configuration.
func GetDefaults() platformDefaultParameters {
	return platformDefaultParameters{
		// Admin
		DefaultAdminListen: "unix:///var/run/porthole.sock",

		// Configuration (used for portholectl)
		DefaultConfigFile: "/etc/porthole.conf",
	}
}
