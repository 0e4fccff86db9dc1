package txtmesh

import "errors"

// Returned when a [Drawer] is created or reconfigured with invalid
// parameters. The underlying cause is kept in the error chain.
var ErrInvalidConfiguration = errors.New("txtmesh: invalid configuration")

// Returned when the mesh generator fails or returns no mesh. The
// generator error, if any, is kept in the error chain.
var ErrGenerationFailed = errors.New("txtmesh: mesh generation failed")

// Returned for text sizes that are not finite and strictly positive.
var ErrInvalidSize = errors.New("txtmesh: invalid text size")

// Returned when drawing with a pivot value outside the defined ones.
var ErrInvalidPivot = errors.New("txtmesh: invalid pivot")

// Returned when drawing after [Drawer.Close]().
var ErrClosed = errors.New("txtmesh: drawer closed")
