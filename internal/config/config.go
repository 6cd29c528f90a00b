package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultThresholdsFile is empty; the engine defaults apply unless a file is given.
	DefaultThresholdsFile = ""
)
