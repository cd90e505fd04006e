package physics

import "math"

// ResolveCollision runs a swept test of b1 against b2 over this frame's
// relative displacement. When the discs touch before the frame ends, both are
// moved to the instant of first contact and their velocities are exchanged
// along the line of centers, with the impulse on each disc scaled by the
// radius of the other one (radius stands in for mass). It reports whether a
// collision was resolved; on false neither disc is modified.
func ResolveCollision(b1, b2 *Disc) bool {
	c := b1.Center.Sub(b2.Center)
	movement := b2.Velocity.Sub(b1.Velocity)
	moveLen := movement.Len()
	sumRad := b1.Radius + b2.Radius
	gap := c.Len() - sumRad

	// cannot close the gap this frame
	if moveLen < gap {
		return false
	}

	dir, err := movement.Norm()
	if err != nil {
		// no relative motion: nothing to sweep
		return false
	}

	// moving apart or sideways
	d := c.Dot(dir)
	if d <= 0 {
		return false
	}

	f := c.LenSqr() - d*d
	sumRad2 := sumRad * sumRad
	// closest approach still misses
	if f >= sumRad2 {
		return false
	}

	t := sumRad2 - f
	if t < 0 {
		return false
	}
	distance := d - math.Sqrt(t)

	// contact lies beyond this frame's motion
	if moveLen < distance {
		return false
	}

	ratio := distance / moveLen
	p1 := b1.Center.Add(b1.Velocity.Mul(ratio))
	p2 := b2.Center.Add(b2.Velocity.Mul(ratio))

	n, err := p2.Sub(p1).Norm()
	if err != nil {
		return false
	}

	a1 := b1.Velocity.Dot(n)
	a2 := b2.Velocity.Dot(n)
	impulse := 2 * (a1 - a2) / sumRad

	b1.Center = p1
	b2.Center = p2
	b1.Velocity = b1.Velocity.Sub(n.Mul(impulse * b2.Radius))
	b2.Velocity = b2.Velocity.Add(n.Mul(impulse * b1.Radius))
	return true
}
