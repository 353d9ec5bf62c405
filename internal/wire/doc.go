// Package wire owns the raw-HID field kit wire contract.
//
// Ownership boundary:
// - tag/terminator/status constants
// - inbound report framing primitives
// - outbound response packet codec
package wire
