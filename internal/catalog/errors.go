package catalog

import "errors"

// ErrInvalidArgument marks malformed input: a negative count, a weight or
// measurement map whose keys are not exactly the known sources, or a
// negative weight. Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")
