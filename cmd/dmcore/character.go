package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dndai/dmcore/internal/reference"
	"github.com/dndai/dmcore/internal/world"
)

// buildCharacter constructs a level-1 character of the given class/race/
// background, enriched with hit die, saving throws, speed, and ability
// bonuses resolved from the D&D 5e reference API. A resolution failure
// (API unreachable, unknown name) is logged and the character falls back
// to world.NewCharacter's generic defaults rather than failing outright —
// reference data is an enrichment, not a hard dependency for play.
func buildCharacter(name, className, raceName, background string) *world.Character {
	class, ok := world.ParseCharacterClass(className)
	if !ok {
		class = world.Fighter
	}

	pc := world.NewCharacter(name)
	pc.Classes = []world.ClassLevel{{Class: class, Level: 1}}
	pc.HitPoints = world.NewHitPoints(class.HitDieSides() + 2)
	if background != "" {
		pc.Background = background
	}

	applyReferenceData(pc, className, raceName)
	return pc
}

func applyReferenceData(pc *world.Character, className, raceName string) {
	client, err := reference.New(&reference.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "reference client unavailable, using default character stats: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if info, err := client.GetClassInfo(ctx, className); err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve class %q, using default stats: %v\n", className, err)
	} else {
		reference.ApplyClass(pc, info)
	}

	if info, err := client.GetRaceInfo(ctx, raceName); err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve race %q, using default stats: %v\n", raceName, err)
	} else {
		reference.ApplyRace(pc, info)
	}
}
