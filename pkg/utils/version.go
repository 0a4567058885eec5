// Package utils provides bespoke, one off helpers for the reverie CLI
// that don't make sense to be their own package.
package utils

// Build metadata, injected at release time via -ldflags.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
