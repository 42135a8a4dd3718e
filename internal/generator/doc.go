// Package generator runs a plugin documentation build from repository sync to
// the navigation manifest.
//
// A run is strictly sequential:
//
//	sync → install → build → extract → load → generate → nav
//
// Any stage error aborts the run. Pages written before a failure stay on
// disk; the navigation file is only written once every page succeeded.
package generator
