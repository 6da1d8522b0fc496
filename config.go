// Completion: 100% - Configuration complete
package cppbe

import "github.com/xyproto/env/v2"

// Verbose gates the instruction-trace logging the emitter, allocator and
// object writer all share, mirroring the teacher's package-level
// VerboseMode flag.
var Verbose = env.Bool("CPPBE_VERBOSE")

// Options carries the backend settings that are environment-driven rather
// than IR-driven. Its only field is ShowTiming, read from
// CPPBE_SHOW_TIMING; there is no frame-pointer or EH-model setting.
type Options struct {
	ShowTiming bool
}

// DefaultOptions reads CPPBE_* environment variables the way the teacher's
// own CLI reads its flags through the same library, rather than inventing
// a bespoke parser for a handful of booleans.
func DefaultOptions() Options {
	return Options{
		ShowTiming: env.Bool("CPPBE_SHOW_TIMING"),
	}
}
