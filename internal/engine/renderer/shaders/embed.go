// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// FixedVertexShader transforms and lights vertices the way a fixed-function
// pipeline does, and generates texture coordinates per stage.
//
//go:embed fixed.vert
var FixedVertexShader string

// FixedFragmentShader runs the texture stage cascade.
//
//go:embed fixed.frag
var FixedFragmentShader string
