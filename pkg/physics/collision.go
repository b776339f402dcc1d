// pkg/physics/collision.go
package physics

// Circle represents a circular collision footprint on the ground plane
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles overlap
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Box represents an axis-aligned vertical collision envelope: a square
// footprint centered on a tile plus a height. Buildings and structures use
// this shape for projectile impact tests.
type Box struct {
	Center Vector2D
	Half   float64 // half the footprint edge length
	Height float64
}

// ContainsPoint reports whether a 3D point lies inside the envelope.
func (b Box) ContainsPoint(p Vector3) bool {
	if p.Y < 0 || p.Y > b.Height {
		return false
	}
	return p.X >= b.Center.X-b.Half && p.X <= b.Center.X+b.Half &&
		p.Z >= b.Center.Z-b.Half && p.Z <= b.Center.Z+b.Half
}
