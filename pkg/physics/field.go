package physics

import "github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"

// InRange reports whether the disc overlaps the source's area of effect:
// the distance between centers is strictly less than the sum of the radii.
func (s *FieldSource) InRange(d *Disc) bool {
	reach := s.Radius + d.Radius
	return d.Center.DistanceSquaredTo(s.Center) < reach*reach
}

// ApplyForce pulls the disc toward the source center. The offset is scaled by
// 1/dist, so the pull depends on the source power and the disc radius only:
//
//	v' = v - (c_disc - c_source) * G * power * r_disc / dist
//
// A disc sitting exactly on the source center has no direction to be pulled
// in; the force is skipped and ApplyForce returns false.
func (s *FieldSource) ApplyForce(d *Disc) bool {
	offset := d.Center.Sub(s.Center)
	dist := offset.Len()
	if dist < geometry.Epsilon {
		return false
	}
	factor := s.G * s.Power * d.Radius / dist
	d.Velocity = d.Velocity.Sub(offset.Mul(factor))
	return true
}
