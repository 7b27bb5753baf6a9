package render

import "errors"

// ErrDanglingEdge is returned when an edge refers to a node missing from the layout.
var ErrDanglingEdge = errors.New("edge refers to an unknown node")
