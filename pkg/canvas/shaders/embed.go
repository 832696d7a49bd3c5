// Package shaders provides the embedded default 2D shader sources.
package shaders

import _ "embed"

// Vertex is the default 2D vertex shader.
//
//go:embed default2d.vert
var Vertex string

// Fragment is the default 2D fragment shader.
//
//go:embed default2d.frag
var Fragment string
