//go:build windows
// +build windows

package defaults

// Sane defaults for the Windows platform. The "default" options may be
// may be replaced by the running configuration.
func GetDefaults() platformDefaultParameters {
	return platformDefaultParameters{
		// Admin
		DefaultAdminListen: "tcp://localhost:9090",

		// Configuration (used for portholectl)
		DefaultConfigFile: "C:\\Program Files\\Porthole\\porthole.conf",
	}
}
