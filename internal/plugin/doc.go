// Package plugin turns one module of a TypeDoc symbol tree into a Record,
// the flat description of a native plugin that pages and navigation are
// rendered from.
package plugin
