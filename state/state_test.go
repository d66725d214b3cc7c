package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gravity/engine"
	"github.com/gekko3d/gravity/sim"
)

func sampleState() State {
	b1, _ := sim.NewBody(1, sim.NewVector3(1, 2, 3), sim.NewVector3(0, 1, 0), 10, 0.5)
	b2, _ := sim.NewBody(2, sim.NewVector3(-1, 0, 0), sim.ZeroVector, 5, 0.25)
	world := sim.NewBasicWorld([]*sim.Body{&b1, &b2}, true, false, sim.Viewport{
		TopLeft:     sim.NewVector3(-10, -10, -10),
		BottomRight: sim.NewVector3(10, 10, 10),
	})
	return FromWorld(world, engine.KindBarnesHut, engine.IntegratorLeapfrog, engine.OversamplerAdaptive, 0)
}

// §6 persisted state: Save followed by Load reproduces the bodies, the
// world flags and the selector kinds.
func TestState_SaveLoadRoundTrip(t *testing.T) {
	want := sampleState()
	path := filepath.Join(t.TempDir(), "state.yaml")

	require.NoError(t, Save(path, want), "Save should not fail")
	got, err := Load(path)
	require.NoError(t, err, "Load should not fail")

	require.Len(t, got.Bodies, len(want.Bodies), "body count should round-trip")
	for i := range want.Bodies {
		assert.Equal(t, want.Bodies[i], got.Bodies[i], "body %d should round-trip", i)
	}
	assert.Equal(t, want.ClosedBoundaries, got.ClosedBoundaries, "closed boundaries flag should round-trip")
	assert.Equal(t, want.ElasticCollisions, got.ElasticCollisions, "elastic collisions flag should round-trip")
	assert.Equal(t, want.EngineKind, got.EngineKind, "engine kind should round-trip")
	assert.Equal(t, want.IntegratorKind, got.IntegratorKind, "integrator kind should round-trip")
	assert.Equal(t, want.OversamplerKind, got.OversamplerKind, "oversampler kind should round-trip")
}

func TestState_WorldAndEngineRebuild(t *testing.T) {
	s := sampleState()
	world := s.World()
	require.Len(t, world.ActiveBodies(), 2, "both bodies should be active after rebuild")

	e := s.Engine()
	assert.NotNil(t, e.Strategy, "strategy should be wired")
	assert.NotNil(t, e.Integrator, "integrator should be wired")
	assert.NotNil(t, e.Oversampler, "oversampler should be wired")
	assert.NotNil(t, e.Resolver, "resolver should be wired")
}

func TestState_LoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(os.TempDir(), "does-not-exist-gravity-state.yaml"))
	assert.Error(t, err, "expected an error loading a missing file")
}
