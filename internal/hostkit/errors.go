package hostkit

import "errors"

var (
	ErrNoResponse        = errors.New("hostkit: no response before deadline")
	ErrDeviceUnavailable = errors.New("hostkit: device unavailable")
	ErrCommandFailed     = errors.New("hostkit: command failed")
)
