package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
)

const tolerance = 1e-9

func vec(x, y float64) geometry.Vector2D { return geometry.Vector2D{X: x, Y: y} }

func mustDisc(t *testing.T, cx, cy, r, vx, vy float64) *Disc {
	t.Helper()
	d, err := NewDisc(vec(cx, cy), r, vec(vx, vy))
	require.NoError(t, err)
	return d
}

func mustSource(t *testing.T, cx, cy, r, power float64) *FieldSource {
	t.Helper()
	s, err := NewFieldSource(vec(cx, cy), r, power)
	require.NoError(t, err)
	return s
}

func assertVec(t *testing.T, want, got geometry.Vector2D, msg string) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tolerance, "%s X", msg)
	assert.InDelta(t, want.Y, got.Y, tolerance, "%s Y", msg)
}

func TestNewDisc_Validation(t *testing.T) {
	tests := []struct {
		name    string
		radius  float64
		center  geometry.Vector2D
		wantErr error
	}{
		{"Zero", 0, vec(1, 1), ErrInvalidRadius},
		{"Negative", -3, vec(1, 1), ErrInvalidRadius},
		{"NaN", math.NaN(), vec(1, 1), ErrInvalidRadius},
		{"InfCenter", 2, vec(math.Inf(1), 1), ErrInvalidVector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDisc(tt.center, tt.radius, vec(0, 0))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	d := mustDisc(t, 5, 6, 2, 1, 1)
	assert.NotEmpty(t, d.ID)
}

func TestNewFieldSource_Validation(t *testing.T) {
	_, err := NewFieldSource(vec(1, 1), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidRadius)
	_, err = NewFieldSource(vec(1, 1), 10, 0)
	assert.ErrorIs(t, err, ErrInvalidPower)

	s := mustSource(t, 100, 100, 60, 1.5)
	assert.Equal(t, DefaultG, s.G)
	assert.Equal(t, geometry.Rect{X: 40, Y: 40, W: 120, H: 120}, s.Bounds())
}

func TestDisc_BoundsFollowCenter(t *testing.T) {
	d := mustDisc(t, 50, 60, 5, 0, 0)
	assert.Equal(t, geometry.Rect{X: 45, Y: 55, W: 10, H: 10}, d.Bounds())

	d.Center = vec(70, 20)
	b := d.Bounds()
	assert.Equal(t, geometry.Rect{X: 65, Y: 15, W: 10, H: 10}, b)
	assert.True(t, b.Center().Eq(d.Center))
}

func TestDisc_SameAs(t *testing.T) {
	a := mustDisc(t, 1, 2, 3, 0, 0)
	b := mustDisc(t, 1, 2, 9, 5, 5)
	c := mustDisc(t, 1, 2.5, 3, 0, 0)
	assert.True(t, a.SameAs(b), "same center means same disc")
	assert.False(t, a.SameAs(c))
}

func TestDisc_Advance(t *testing.T) {
	t.Run("BounceLeftWall", func(t *testing.T) {
		d := mustDisc(t, 10, 50, 10, -2, 0)
		d.Advance(200, 200)
		assert.Equal(t, vec(2, 0), d.Velocity)
		assert.Equal(t, 10.0, d.Center.X)
		assert.Equal(t, 50.0, d.Center.Y)
	})

	t.Run("BounceOneAxisOnly", func(t *testing.T) {
		d := mustDisc(t, 195, 100, 5, 3, -4)
		d.Advance(200, 200)
		assert.Equal(t, vec(-3, -4), d.Velocity)
		assert.Equal(t, vec(195, 96), d.Center)
	})

	t.Run("TouchingCountsAsHit", func(t *testing.T) {
		d := mustDisc(t, 100, 17, 5, 0, -12) // lands exactly on radius
		d.Advance(200, 200)
		assert.Equal(t, vec(0, 12), d.Velocity)
		assert.Equal(t, 17.0, d.Center.Y)
	})

	t.Run("FreeMotion", func(t *testing.T) {
		d := mustDisc(t, 100, 100, 5, 1.5, -2.5)
		d.Advance(200, 200)
		assert.Equal(t, vec(101.5, 97.5), d.Center)
		assert.Equal(t, vec(1.5, -2.5), d.Velocity)
		assert.Equal(t, geometry.RectAround(d.Center, 5), d.Bounds())
	})
}

func TestResolveCollision_HeadOnSwapsVelocities(t *testing.T) {
	a := mustDisc(t, 50, 100, 10, 3, 0)
	b := mustDisc(t, 75, 100, 10, -3, 0)

	require.True(t, ResolveCollision(a, b))

	assertVec(t, vec(-3, 0), a.Velocity, "a velocity")
	assertVec(t, vec(3, 0), b.Velocity, "b velocity")
	// contact after 5/6 of the frame
	assertVec(t, vec(52.5, 100), a.Center, "a center")
	assertVec(t, vec(72.5, 100), b.Center, "b center")
	assert.GreaterOrEqual(t, a.Center.DistanceTo(b.Center), a.Radius+b.Radius-tolerance)
	assert.Equal(t, geometry.RectAround(a.Center, a.Radius), a.Bounds())
}

func TestResolveCollision_Symmetric(t *testing.T) {
	cases := []struct {
		name   string
		d1, d2 [5]float64 // cx, cy, r, vx, vy
	}{
		{"HeadOn", [5]float64{50, 100, 10, 3, 0}, [5]float64{75, 100, 10, -3, 0}},
		{"Oblique", [5]float64{40, 40, 8, 4, 3}, [5]float64{60, 52, 12, -2, -1}},
		{"ChaseFromBehind", [5]float64{10, 10, 5, 6, 6}, [5]float64{22, 21, 7, 1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mk := func(p [5]float64) *Disc { return mustDisc(t, p[0], p[1], p[2], p[3], p[4]) }
			a1, b1 := mk(tc.d1), mk(tc.d2)
			a2, b2 := mk(tc.d1), mk(tc.d2)

			hit1 := ResolveCollision(a1, b1)
			hit2 := ResolveCollision(b2, a2)
			require.Equal(t, hit1, hit2)
			require.True(t, hit1, "fixture should collide")

			assertVec(t, a1.Center, a2.Center, "first disc center")
			assertVec(t, a1.Velocity, a2.Velocity, "first disc velocity")
			assertVec(t, b1.Center, b2.Center, "second disc center")
			assertVec(t, b1.Velocity, b2.Velocity, "second disc velocity")
		})
	}
}

func TestResolveCollision_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		d1, d2 [5]float64
	}{
		// separation 100 - 20 = 80 > |movement| = 2
		{"FarApart", [5]float64{10, 10, 10, 1, 0}, [5]float64{110, 10, 10, -1, 0}},
		{"MovingApart", [5]float64{50, 50, 10, -3, 0}, [5]float64{75, 50, 10, 3, 0}},
		{"ParallelMiss", [5]float64{50, 50, 5, 4, 0}, [5]float64{60, 80, 5, -4, 0}},
		{"StillAndOverlapping", [5]float64{50, 50, 10, 1, 1}, [5]float64{55, 50, 10, 1, 1}},
		{"GapTooWide", [5]float64{50, 50, 10, 2, 0}, [5]float64{75, 50, 10, -2.4, 0}},
		// gap 11.5 < |movement| 12 but first contact is 14 units away
		{"ContactBeyondFrame", [5]float64{50, 50, 5, 0, 0}, [5]float64{70, 58, 5, -12, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := mustDisc(t, tc.d1[0], tc.d1[1], tc.d1[2], tc.d1[3], tc.d1[4])
			b := mustDisc(t, tc.d2[0], tc.d2[1], tc.d2[2], tc.d2[3], tc.d2[4])
			beforeA, beforeB := *a, *b

			assert.False(t, ResolveCollision(a, b))
			assert.Equal(t, beforeA, *a, "first disc must be untouched")
			assert.Equal(t, beforeB, *b, "second disc must be untouched")
		})
	}
}

func TestResolveCollision_GlancingHit(t *testing.T) {
	// b slides past a, its path passing 15 units from a's center with radii summing to 20
	a := mustDisc(t, 100, 100, 10, 0, 0)
	b := mustDisc(t, 80, 115, 10, 8, 0)

	require.True(t, ResolveCollision(a, b))
	assert.InDelta(t, 20.0, a.Center.DistanceTo(b.Center), 1e-6)
	// a is pushed away from b along the contact normal, to the right and up
	assert.Greater(t, a.Velocity.X, 0.0)
	assert.Less(t, a.Velocity.Y, 0.0)
}

func TestFieldSource_InRange(t *testing.T) {
	s := mustSource(t, 100, 100, 50, 1)
	assert.True(t, s.InRange(mustDisc(t, 120, 100, 5, 0, 0)))
	assert.False(t, s.InRange(mustDisc(t, 155, 100, 5, 0, 0)), "exactly touching is out of range")
	assert.True(t, s.InRange(mustDisc(t, 154.9, 100, 5, 0, 0)))
}

func TestFieldSource_ApplyForce(t *testing.T) {
	s := mustSource(t, 100, 100, 60, 2)
	d := mustDisc(t, 110, 100, 4, 1, 1)

	require.True(t, s.ApplyForce(d))
	// factor = 0.5 * 2 * 4 / 10 = 0.4 ; v' = (1,1) - (10,0)*0.4
	assertVec(t, vec(-3, 1), d.Velocity, "velocity")
	assert.Equal(t, vec(110, 100), d.Center, "position is not changed by a field")
	assert.Equal(t, vec(100, 100), s.Center)
	assert.Equal(t, 2.0, s.Power)
}

func TestFieldSource_ApplyForceSamePullAtAnyDistance(t *testing.T) {
	s := mustSource(t, 0, 0, 100, 1)
	near := mustDisc(t, 10, 0, 1, 0, 0)
	far := mustDisc(t, 40, 0, 1, 0, 0)
	s.ApplyForce(near)
	s.ApplyForce(far)
	// offset*factor = G*p*r * offset/|offset| : same pull at any distance
	assert.InDelta(t, near.Velocity.X, far.Velocity.X, tolerance)
	assert.InDelta(t, -0.5, near.Velocity.X, tolerance)
}

func TestFieldSource_ApplyForceAtCenterIsGuarded(t *testing.T) {
	s := mustSource(t, 100, 100, 60, 2)
	d := mustDisc(t, 100, 100, 4, 1.5, -0.5)

	assert.NotPanics(t, func() {
		assert.False(t, s.ApplyForce(d))
	})
	assert.Equal(t, vec(1.5, -0.5), d.Velocity)
	assert.True(t, d.Velocity.IsFinite())
}

func BenchmarkResolveCollision(b *testing.B) {
	for i := 0; i < b.N; i++ {
		d1 := &Disc{Center: vec(50, 100), Radius: 10, Velocity: vec(3, 0)}
		d2 := &Disc{Center: vec(75, 100), Radius: 10, Velocity: vec(-3, 0)}
		ResolveCollision(d1, d2)
	}
}
