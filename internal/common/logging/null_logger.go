package logging

import (
	"github.com/rs/zerolog"
)

// NullLogger discards everything written to it.
var NullLogger = FromZerolog(zerolog.Nop())
