package utils

import "flag"

// MakePath returns the target Go package of an invocation.
// The first non-flag argument is the target package; it defaults to ".".
func MakePath() string {
	if args := flag.Args(); len(args) >= 1 {
		return args[0]
	}
	return "."
}
