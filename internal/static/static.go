package static

import _ "embed"

// APIMd contains the embedded API guide served to integrators.
//
//go:embed api.md
var APIMd string
