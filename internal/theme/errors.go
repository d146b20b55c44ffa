package theme

import "errors"

// ErrInvalidColor is returned for a color that cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")
