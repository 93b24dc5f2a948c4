package core

import "errors"

// ErrTransportClosed is returned by simulated transports once shut down.
// It terminates Device.Run.
var ErrTransportClosed = errors.New("transport closed")

// ErrUnknownCommand is returned by CommandRegistry.Dispatch for bytes
// outside the registered alphabet. The dispatcher ignores it.
var ErrUnknownCommand = errors.New("unknown command")

type missingLineError string

func (e missingLineError) Error() string {
	return "board: " + string(e) + " not wired"
}

func errMissingLine(name string) error {
	return missingLineError(name)
}
