package models

import "fmt"

type Command string

const (
	CommandNone        Command = ""
	CommandReboot      Command = "reboot"
	CommandResetBlocks Command = "resetblocks"
	CommandTurboSync   Command = "turbosync"
)

func (c Command) String() string {
	if c == CommandNone {
		return "none"
	}
	return string(c)
}

// RemoteError is returned when a remote endpoint answers with a non-2xx status.
type RemoteError struct {
	Status int
	Reason string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Reason)
}
