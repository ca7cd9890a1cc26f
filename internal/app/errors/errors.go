package errors

import (
	"errors"
)

var (
	ErrFailedToReadConfig  = errors.New("failed to read config file")
	ErrFailedToParseConfig = errors.New("failed to parse config file")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidRespawn      = errors.New("respawn_duration_seconds must be greater than 0")
	ErrInvalidPort         = errors.New("port must be between 1 and 65535")

	ErrModuleNotFound        = errors.New("module not found in registry")
	ErrModuleInitFailed      = errors.New("module init failed")
	ErrModuleConfigRequired  = errors.New("module definition requires a name")
	ErrScheduleFieldRequired = errors.New("schedule requires hour and min fields")
	ErrInvalidScheduleField  = errors.New("schedule field must be '*' or an integer in range (hour 0-23, min 0-59)")

	ErrFailedToBindControl = errors.New("failed to bind control channel listener")
	ErrFailedToReadFrame   = errors.New("failed to read control frame")
	ErrUnexpectedFrameSize = errors.New("control frame must be exactly 1024 bytes")
	ErrNotAlivePacket      = errors.New("packet is not an Alive packet")

	ErrFailedToTerminateModule = errors.New("module worker did not terminate in time")
)

var (
	As  = errors.As
	Is  = errors.Is
	New = errors.New
)
