// Package wire owns the message envelope and codec.
//
// Ownership boundary:
// - message envelope and type enum
// - JSON encode/decode entry points
// - acknowledgment payload helpers
package wire
