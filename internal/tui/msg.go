package tui

import "github.com/papapumpkin/cosmic/internal/catalog"

// MsgWeightsFile carries weights read from a watched weight file. They
// replace the selected record's weights.
type MsgWeightsFile struct {
	Weights catalog.Weights
	Err     error
}
