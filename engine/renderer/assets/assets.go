// Package assets embeds the WGSL programs the renderer compiles at startup.
package assets

import _ "embed"

// TriangleWGSL is the vertex and fragment program for the scaled triangle.
//
//go:embed triangle.wgsl
var TriangleWGSL string
