// Package errors provides the classified error type used across plugindocs.
//
// Every failure in a plugindocs run is fatal, so classification is not used to
// decide whether to continue. It exists to give the CLI a stable exit code and
// a readable message per failure domain (config, git, toolchain, extraction,
// plugin record building, filesystem).
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryGit, "clone failed").
//		WithContext("url", repoURL).
//		WithCause(originalErr).
//		Build()
package errors
