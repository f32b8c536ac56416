package core

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrInvalidComponent  = errors.New("invalid component")
	ErrAlreadyAttached   = errors.New("component already has a parent")
	ErrIncompatibleChild = errors.New("child kind not allowed under parent")
	ErrInvalidGeometry   = errors.New("invalid geometry")
	ErrNotMotorMount     = errors.New("component is not a motor mount")
	ErrUnknownCluster    = errors.New("unknown cluster configuration")
)
