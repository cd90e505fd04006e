package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
)

func vec(x, y float64) geometry.Vector2D { return geometry.Vector2D{X: x, Y: y} }

func newTestState(t testing.TB, mutate func(*Config)) *State {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(cfg)
	}
	s, err := NewState(cfg)
	require.NoError(t, err)
	return s
}

func TestStep_TwoDiscsCollideOnce(t *testing.T) {
	s := newTestState(t, func(c *Config) { c.WorldWidth, c.WorldHeight = 200, 200 })
	a, err := s.AddDisc(vec(50, 100), 10, vec(3, 0))
	require.NoError(t, err)
	b, err := s.AddDisc(vec(75, 100), 10, vec(-3, 0))
	require.NoError(t, err)

	stats, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Frame)
	assert.Equal(t, 1, stats.Collisions)
	assert.Equal(t, 1, stats.Checks, "b already collided, it is not an initiator")
	assert.Equal(t, 2, stats.SlowChecks)
	assert.InDelta(t, 18.0, stats.Energy, 1e-9)
	assert.InDelta(t, -3.0, a.Velocity.X, 1e-9)
	assert.InDelta(t, 3.0, b.Velocity.X, 1e-9)

	total := stats.Collisions
	for i := 0; i < 10; i++ {
		stats, err = s.Step(context.Background())
		require.NoError(t, err)
		total += stats.Collisions
		assert.GreaterOrEqual(t, a.Center.DistanceTo(b.Center), a.Radius+b.Radius-1e-9,
			"discs overlap at frame %d", stats.Frame)
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, uint64(11), s.Frame())
}

func TestStep_FirstCollisionWinsAmongThree(t *testing.T) {
	s := newTestState(t, nil)
	a, err := s.AddDisc(vec(100, 100), 10, vec(3, 0))
	require.NoError(t, err)
	b, err := s.AddDisc(vec(123, 100), 10, vec(-3, 0))
	require.NoError(t, err)
	c, err := s.AddDisc(vec(100, 123), 10, vec(0, -3))
	require.NoError(t, err)

	stats, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Collisions)
	assert.Equal(t, 1, stats.Checks, "a meets b first, then b and c have no free candidate")
	assert.Equal(t, 6, stats.SlowChecks)

	assert.InDelta(t, -3.0, a.Velocity.X, 1e-9)
	assert.InDelta(t, 3.0, b.Velocity.X, 1e-9)
	// c was never resolved, it moved freely
	assert.Equal(t, vec(100, 120), c.Center)
	assert.Equal(t, vec(0, -3), c.Velocity)

	discs := s.Discs()
	for i := range discs {
		for j := i + 1; j < len(discs); j++ {
			assert.GreaterOrEqual(t, discs[i].Center.DistanceTo(discs[j].Center),
				discs[i].Radius+discs[j].Radius-1e-9, "discs %d and %d overlap", i, j)
		}
	}
}

func TestStep_WallBounce(t *testing.T) {
	s := newTestState(t, func(c *Config) { c.WorldWidth, c.WorldHeight = 200, 200 })
	d, err := s.AddDisc(vec(10, 50), 10, vec(-2, 0))
	require.NoError(t, err)

	stats, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Collisions)
	assert.Equal(t, vec(2, 0), d.Velocity)
	assert.Equal(t, vec(10, 50), d.Center)
}

func TestStep_FieldPullsDiscInRange(t *testing.T) {
	s := newTestState(t, func(c *Config) { c.WorldWidth, c.WorldHeight = 400, 400 })
	_, err := s.AddSource(vec(100, 100), 60, 2)
	require.NoError(t, err)
	d, err := s.AddDisc(vec(110, 100), 4, vec(1, 1))
	require.NoError(t, err)
	outside, err := s.AddDisc(vec(300, 300), 4, vec(1, 1))
	require.NoError(t, err)

	stats, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FieldHits)

	// the disc moves first, the field then acts from its new position
	assert.Equal(t, vec(111, 101), d.Center)
	dist := math.Sqrt(11*11 + 1*1)
	factor := 0.5 * 2 * 4 / dist
	assert.InDelta(t, 1-11*factor, d.Velocity.X, 1e-9)
	assert.InDelta(t, 1-1*factor, d.Velocity.Y, 1e-9)
	assert.Equal(t, vec(1, 1), outside.Velocity)
}

func TestStep_DiscOnSourceCenterIsSkipped(t *testing.T) {
	s := newTestState(t, nil)
	_, err := s.AddSource(vec(101, 100), 60, 2)
	require.NoError(t, err)
	d, err := s.AddDisc(vec(100, 100), 4, vec(1, 0))
	require.NoError(t, err)

	stats, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FieldHits)
	assert.Equal(t, vec(1, 0), d.Velocity)
}

func TestStep_EmptyWorld(t *testing.T) {
	s := newTestState(t, nil)
	stats, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Frame: 1}, stats)
}

func TestStep_SameSeedSameWorld(t *testing.T) {
	run := func() uint64 {
		s := newTestState(t, nil)
		require.NoError(t, s.Populate())
		for i := 0; i < 200; i++ {
			_, err := s.Step(context.Background())
			require.NoError(t, err)
		}
		return s.Snapshot(false).Fingerprint()
	}
	assert.Equal(t, run(), run())
}

func TestStep_ParallelFieldMatchesSequential(t *testing.T) {
	run := func(workers int) (uint64, int) {
		s := newTestState(t, func(c *Config) {
			c.Seed = 7
			c.InitialDiscs = IntRange{Min: 40, Max: 40}
			c.InitialSources = IntRange{Min: 6, Max: 6}
			c.FieldWorkers = workers
		})
		require.NoError(t, s.Populate())
		hits := 0
		for i := 0; i < 100; i++ {
			stats, err := s.Step(context.Background())
			require.NoError(t, err)
			hits += stats.FieldHits
		}
		return s.Snapshot(false).Fingerprint(), hits
	}
	seqPrint, seqHits := run(1)
	parPrint, parHits := run(4)
	assert.Equal(t, seqPrint, parPrint)
	assert.Equal(t, seqHits, parHits)
}

func TestStep_CancelledContext(t *testing.T) {
	s := newTestState(t, nil)
	d, err := s.AddDisc(vec(100, 100), 5, vec(2, 2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Step(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(0), s.Frame())
	assert.Equal(t, vec(100, 100), d.Center)
}

// Walls are only enforced on free moves, so a disc pushed by a collision may
// leave the world; the state must stay finite regardless.
func TestStep_StaysFinite(t *testing.T) {
	s := newTestState(t, func(c *Config) {
		c.InitialDiscs = IntRange{Min: 30, Max: 30}
		c.InitialSources = IntRange{Min: 0, Max: 0}
	})
	require.NoError(t, s.Populate())
	for i := 0; i < 300; i++ {
		_, err := s.Step(context.Background())
		require.NoError(t, err)
	}
	for _, d := range s.Discs() {
		assert.True(t, d.Center.IsFinite())
		assert.True(t, d.Velocity.IsFinite())
	}
}

func BenchmarkStep(b *testing.B) {
	s := newTestState(b, func(c *Config) {
		c.InitialDiscs = IntRange{Min: 200, Max: 200}
		c.InitialSources = IntRange{Min: 3, Max: 3}
	})
	if err := s.Populate(); err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Step(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
