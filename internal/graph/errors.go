package graph

import (
	"errors"
	"fmt"
)

// ErrBrokenEdge indicates an edge endpoint that does not resolve to a node.
var ErrBrokenEdge = errors.New("graph: broken edge")

// BrokenEdgeError reports which edge failed to resolve.
type BrokenEdgeError struct {
	Index  int
	Source string
	Target string
}

func (e *BrokenEdgeError) Error() string {
	return fmt.Sprintf("graph: broken edge #%d %s -> %s", e.Index, e.Source, e.Target)
}

func (e *BrokenEdgeError) Unwrap() error {
	return ErrBrokenEdge
}
