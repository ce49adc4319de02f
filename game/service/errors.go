package service

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrConfigNotFound       = errors.New("configuration not found")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrInvalidMode          = errors.New("invalid mode")

	// ErrRealtimeSession is returned when a client tries to tick a session
	// that is driven by the server clock
	ErrRealtimeSession = errors.New("session is driven in realtime")
)
