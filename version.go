// Package theo is the root of the theo boilerplate generator.
package theo

// Version is the current theo release.
const Version = "0.1.0"
