package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat4 is a 4x4 matrix as a flat 16-element array, laid out in the order
// the GPU consumes it: basis vectors in elements 0-2, 4-6 and 8-10,
// translation in elements 12-14.
type Mat4 struct {
	Data [16]float32
}
