// Package flash orchestrates building and flashing firmware for one side
// of a (possibly split) keyboard.
//
// Ownership boundary:
// - side-lock resolution against the live device
// - flash command planning per detected features
// - build / bootloader-entry / deploy sequencing
package flash
