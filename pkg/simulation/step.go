package simulation

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/physics"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/quadtree"
)

// Step advances the world by one frame:
//
//  1. rebuild the index from the discs
//  2. for each disc, resolve the first collision found among its candidates,
//     or let it move and bounce off the walls
//  3. rebuild the index from the moved discs
//  4. let every source pull the discs in its range
//
// A disc takes part in at most one collision per frame. ctx is only checked
// between phases.
func (s *State) Step(ctx context.Context) (Stats, error) {
	n := len(s.discs)
	stats := Stats{
		Frame:      s.frame + 1,
		Discs:      n,
		Sources:    len(s.sources),
		SlowChecks: n * (n - 1),
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if err := s.rebuildIndex(); err != nil {
		return stats, err
	}

	collided := make(map[*physics.Disc]struct{}, n)
	for _, d := range s.discs {
		if _, done := collided[d]; !done {
			for _, item := range s.tree.Retrieve(d) {
				other, ok := item.(*physics.Disc)
				if !ok || other == d || other.SameAs(d) {
					continue
				}
				if _, done := collided[other]; done {
					continue
				}
				stats.Checks++
				if physics.ResolveCollision(d, other) {
					collided[d] = struct{}{}
					collided[other] = struct{}{}
					stats.Collisions++
					break
				}
			}
			if _, hit := collided[d]; !hit {
				d.Advance(s.cfg.WorldWidth, s.cfg.WorldHeight)
			}
		}
		stats.Energy += d.Energy()
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if err := s.rebuildIndex(); err != nil {
		return stats, err
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	candidates, err := s.fieldCandidates(ctx)
	if err != nil {
		return stats, err
	}
	for i, src := range s.sources {
		for _, item := range candidates[i] {
			d, ok := item.(*physics.Disc)
			if !ok || !src.InRange(d) {
				continue
			}
			if src.ApplyForce(d) {
				stats.FieldHits++
			} else {
				s.logger.Debugf("skipped force of source %s: disc %s sits on its center", src.ID, d.ID)
			}
		}
	}

	s.frame = stats.Frame
	s.lastStats = stats
	return stats, nil
}

func (s *State) rebuildIndex() error {
	s.tree.Clear()
	for _, d := range s.discs {
		if err := s.tree.Insert(d); err != nil {
			return fmt.Errorf("failed to index disc %s: %w", d.ID, err)
		}
	}
	return nil
}

// fieldCandidates queries the index once per source. The tree is only read,
// so with more than one worker the queries run concurrently.
func (s *State) fieldCandidates(ctx context.Context) ([][]quadtree.Item, error) {
	out := make([][]quadtree.Item, len(s.sources))
	if s.cfg.FieldWorkers <= 1 || len(s.sources) < 2 {
		for i, src := range s.sources {
			out[i] = s.tree.Retrieve(src)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FieldWorkers)
	for i, src := range s.sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.tree.Retrieve(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("field candidates: %w", err)
	}
	return out, nil
}
