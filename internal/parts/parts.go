// Package parts holds the demo segments shipped with the player.
package parts

import (
	"fmt"
	"slices"

	"github.com/Faultbox/nucleus3d/internal/demo"
	"github.com/Faultbox/nucleus3d/internal/engine/gfx"
	"github.com/Faultbox/nucleus3d/internal/engine/scene"
	"github.com/Faultbox/nucleus3d/pkg/math"
)

// Options configures the scenes built by the stock parts.
type Options struct {
	Scene     scene.Config
	LODLevels int
	// Model is an optional N3M file placed in the shadows part.
	Model string
	// Only selects and orders the parts to register. Empty keeps all.
	Only []string
}

// Slot is a part with its default length in ms.
type Slot struct {
	Part     demo.Part
	Duration int64
}

// Builtin returns the stock parts in playing order.
func Builtin(ctx *gfx.Context, opts Options) ([]Slot, error) {
	if opts.LODLevels < 1 {
		opts.LODLevels = 1
	}
	shadows, err := NewShadows(ctx, opts)
	if err != nil {
		return nil, err
	}
	return []Slot{
		{Part: NewIntro(ctx, opts), Duration: 10_000},
		{Part: shadows, Duration: 30_000},
	}, nil
}

// Select returns the slots named in names, in that order. Empty names
// returns slots unchanged.
func Select(slots []Slot, names []string) ([]Slot, error) {
	if len(names) == 0 {
		return slots, nil
	}
	out := make([]Slot, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(slots, func(s Slot) bool { return s.Part.Name() == name })
		if i < 0 {
			return nil, fmt.Errorf("%s: %w", name, demo.ErrUnknownPart)
		}
		out = append(out, slots[i])
	}
	return out, nil
}

// Register adds the stock parts selected by opts.Only to tl back to back.
func Register(tl *demo.Timeline, ctx *gfx.Context, opts Options) error {
	all, err := Builtin(ctx, opts)
	if err != nil {
		return err
	}
	slots, err := Select(all, opts.Only)
	if err != nil {
		return err
	}
	for _, s := range slots {
		if err := tl.AddPartRelative(s.Part, 0, s.Duration); err != nil {
			return fmt.Errorf("registering %s: %w", s.Part.Name(), err)
		}
	}
	return nil
}

// clearFrame clears every buffer to c.
func clearFrame(ctx *gfx.Context, c math.Color) {
	ctx.Clear(gfx.ClearAll, c)
}

// seconds converts part time to the motion controllers' unit.
func seconds(ms int64) float32 { return float32(ms) / 1000 }
