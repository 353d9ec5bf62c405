// Package handler owns the device-side field kit core.
//
// Ownership boundary:
// - command accumulation across tagged reports
// - command table and dispatch
// - response ordering against bootloader entry
package handler
