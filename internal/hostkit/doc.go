// Package hostkit is the host-side client for the field kit wire contract.
//
// Ownership boundary:
// - command/response exchange over an opened raw-HID device
// - info payload parsing
// - bootloader trigger semantics (disconnect counts as success)
package hostkit
