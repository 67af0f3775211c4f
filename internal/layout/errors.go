package layout

import "errors"

var (
	// ErrDuplicateComponent indicates a component id already registered.
	ErrDuplicateComponent = errors.New("layout: component already exists")

	ErrUnknownEvent = errors.New("layout: no such event")

	// ErrAnimationActive indicates AnimateState was called while a previous
	// animation is still running.
	ErrAnimationActive = errors.New("layout: animation already running")

	ErrUnknownNode = errors.New("layout: unknown node")
)
