// Package git keeps the local checkout of the plugin source repository on
// the configured branch, using go-git.
package git
