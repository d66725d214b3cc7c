package engine

import (
	"github.com/gekko3d/gravity/sim/accel"
	"github.com/gekko3d/gravity/sim/collide"
	"github.com/gekko3d/gravity/sim/integrate"
	"github.com/gekko3d/gravity/sim/oversample"
)

// Kind enumerates the recognized engine strategy selections (§6: "the set
// of recognized engine kinds... includes at minimum Direct, AdaptiveBarnesHut,
// AdaptiveParticleMesh, AdaptiveFastMultipole").
type Kind int

const (
	KindDirect Kind = iota
	KindBarnesHut
	KindParticleMesh
	KindFastMultipole
)

// IntegratorKind enumerates the recognized integrator selections (§4.2).
type IntegratorKind int

const (
	IntegratorSemiImplicit IntegratorKind = iota
	IntegratorLeapfrog
	IntegratorRK4
	IntegratorWarmStartVerlet
)

// OversamplerKind enumerates the recognized oversampler selections (§4.3).
type OversamplerKind int

const (
	OversamplerStatic OversamplerKind = iota
	OversamplerAdaptive
)

// NewStrategy builds the acceleration strategy for a Kind, using its default
// tuning (adaptive θ, default grid size, default leaf capacity).
func NewStrategy(kind Kind) accel.Strategy {
	switch kind {
	case KindBarnesHut:
		return accel.NewBarnesHut()
	case KindParticleMesh:
		return accel.NewParticleMesh()
	case KindFastMultipole:
		return accel.NewFMM()
	default:
		return accel.NewDirect()
	}
}

// NewIntegrator builds the integrator for an IntegratorKind.
func NewIntegrator(kind IntegratorKind) integrate.Integrator {
	switch kind {
	case IntegratorLeapfrog:
		return integrate.NewLeapfrog()
	case IntegratorRK4:
		return integrate.NewRK4()
	case IntegratorWarmStartVerlet:
		return integrate.NewWarmStartVerlet()
	default:
		return integrate.NewSemiImplicit()
	}
}

// NewOversampler builds the oversampler for an OversamplerKind. n is only
// consulted for OversamplerStatic (§4.3's N).
func NewOversampler(kind OversamplerKind, n int) oversample.Oversampler {
	if kind == OversamplerAdaptive {
		return oversample.NewAdaptive()
	}
	return oversample.NewStatic(n)
}

// NewDirectEngine composes the reference O(N^2) engine: Direct kernel,
// Leapfrog integrator, single-substep oversampling, grid collision
// resolver.
func NewDirectEngine() *Engine {
	return New(accel.NewDirect(), integrate.NewLeapfrog(), oversample.NewStatic(1), collide.NewUniformGrid())
}

// NewAdaptiveBarnesHutEngine composes Barnes-Hut (adaptive θ) with Leapfrog
// and the CFL-like adaptive oversampler.
func NewAdaptiveBarnesHutEngine() *Engine {
	return New(accel.NewBarnesHut(), integrate.NewLeapfrog(), oversample.NewAdaptive(), collide.NewUniformGrid())
}

// NewAdaptiveParticleMeshEngine composes Particle-Mesh (default grid size)
// with Leapfrog and the adaptive oversampler.
func NewAdaptiveParticleMeshEngine() *Engine {
	return New(accel.NewParticleMesh(), integrate.NewLeapfrog(), oversample.NewAdaptive(), collide.NewUniformGrid())
}

// NewAdaptiveFMMEngine composes FMM (default leaf capacity) with Leapfrog
// and the adaptive oversampler.
func NewAdaptiveFMMEngine() *Engine {
	return New(accel.NewFMM(), integrate.NewLeapfrog(), oversample.NewAdaptive(), collide.NewUniformGrid())
}

// Compose builds an engine from the three selector enums plus a static N
// (ignored unless oversamplerKind is OversamplerStatic), wiring the uniform
// grid resolver (§6's "combinations with the listed integrators and
// oversamplers").
func Compose(strategyKind Kind, integratorKind IntegratorKind, oversamplerKind OversamplerKind, staticN int) *Engine {
	return New(
		NewStrategy(strategyKind),
		NewIntegrator(integratorKind),
		NewOversampler(oversamplerKind, staticN),
		collide.NewUniformGrid(),
	)
}
