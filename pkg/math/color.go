package math

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// White is opaque white.
var White = Color{1, 1, 1, 1}

// Add returns the component-wise sum of c and other.
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B, c.A + other.A}
}

// Scale returns c with every component multiplied by s.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}
