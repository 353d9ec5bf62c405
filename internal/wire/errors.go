package wire

import "errors"

var (
	ErrCommandTooLong = errors.New("wire: command does not fit in one report")
	ErrShortPacket    = errors.New("wire: short response packet")
	ErrEmptyCommand   = errors.New("wire: empty command")
)
