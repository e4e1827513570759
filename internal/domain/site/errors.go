package site

import "errors"

var (
	// ErrPathNotFound indicates an ancestor id in a target path did not
	// resolve. The pipeline treats it as a silent no-op: the source system
	// never reports this condition back to the caller.
	ErrPathNotFound = errors.New("target path not found")
	// ErrUnknownKind indicates an unrecognized structural level tag.
	ErrUnknownKind = errors.New("unknown item kind")
)
