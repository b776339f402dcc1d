// pkg/physics/vector.go
package physics

import "math"

// Vector2D represents a planar vector over the city grid (x, z axes)
type Vector2D struct {
	X float64
	Z float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Z: v.Z - other.Z,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Z: v.Z * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Z: v.Z / length,
	}
}

// Distance returns the Euclidean distance between two points
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// ChebyshevDistance returns the chessboard distance between two points,
// the metric used for building adjacency checks.
func (v Vector2D) ChebyshevDistance(other Vector2D) float64 {
	return math.Max(math.Abs(v.X-other.X), math.Abs(v.Z-other.Z))
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Z*other.Z
}

// FromAngle creates a vector from an angle (radians) and magnitude
func FromAngle(angle, magnitude float64) Vector2D {
	return Vector2D{
		X: math.Cos(angle) * magnitude,
		Z: math.Sin(angle) * magnitude,
	}
}

// Vector3 represents a full 3D position or velocity. Projectiles travel in
// three dimensions; everything else stays on the ground plane.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector3) Scale(factor float64) Vector3 {
	return Vector3{
		X: v.X * factor,
		Y: v.Y * factor,
		Z: v.Z * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return Vector3{
		X: v.X / length,
		Y: v.Y / length,
		Z: v.Z / length,
	}
}

// Planar projects the vector onto the ground plane
func (v Vector3) Planar() Vector2D {
	return Vector2D{X: v.X, Z: v.Z}
}

// PlanarDistance returns the ground-plane distance between two points
func (v Vector3) PlanarDistance(other Vector3) float64 {
	return v.Planar().Distance(other.Planar())
}
