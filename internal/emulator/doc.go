// Package emulator hosts the device-side handler without hardware: an
// in-memory keyboard for development, integration tests, and the fieldkitd
// HTTP harness.
package emulator
