// Package web holds the embedded single-page front end.
package web

import "embed"

//go:embed static
var Assets embed.FS
