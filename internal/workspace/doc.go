// Package workspace manages the directory the plugin source repository is
// checked out into, supporting both ephemeral (timestamped) and persistent
// (fixed-path) modes.
//
// Persistent mode keeps the checkout between runs so the next sync is a fetch
// and hard reset instead of a full clone. Ephemeral mode creates a timestamped
// directory (e.g. plugindocs-20261015-122336) that is removed after the run.
package workspace
