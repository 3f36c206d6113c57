// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Assistant overlay, MJPEG stream, operator console, frame pacer metrics
// 0.2.0 - Offline ephemeris, sprite resources, HTTP control surface
// 0.1.0 - Initial release: orientation state, sky compositor, USNO catalog
