package server

import "errors"

var (
	// ErrServerAlreadyRunning is returned by Serve when the server has
	// already been started.
	ErrServerAlreadyRunning = errors.New("server is already running")
)
