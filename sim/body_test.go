package sim

import (
	"math"
	"testing"
)

func TestNewBody_Valid(t *testing.T) {
	b, err := NewBody(1, NewVector3(0, 0, 0), NewVector3(1, 0, 0), 5.0, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Active() {
		t.Errorf("freshly constructed body should be active")
	}
}

func TestNewBody_RejectsNonPositiveMass(t *testing.T) {
	if _, err := NewBody(1, ZeroVector, ZeroVector, 0, 1); err == nil {
		t.Errorf("expected DomainError for zero mass")
	}
	if _, err := NewBody(1, ZeroVector, ZeroVector, -1, 1); err == nil {
		t.Errorf("expected DomainError for negative mass")
	}
}

func TestNewBody_RejectsNegativeRadius(t *testing.T) {
	if _, err := NewBody(1, ZeroVector, ZeroVector, 1, -1); err == nil {
		t.Errorf("expected DomainError for negative radius")
	}
}

func TestNewBody_RejectsNonFiniteState(t *testing.T) {
	if _, err := NewBody(1, NewVector3(math.NaN(), 0, 0), ZeroVector, 1, 1); err == nil {
		t.Errorf("expected DomainError for NaN position")
	}
	if _, err := NewBody(1, ZeroVector, NewVector3(0, math.Inf(1), 0), 1, 1); err == nil {
		t.Errorf("expected DomainError for infinite velocity")
	}
}

func TestBody_AbsorbedReportsInactive(t *testing.T) {
	b, _ := NewBody(1, ZeroVector, ZeroVector, 1, 1)
	b.Absorbed = true
	if b.Active() {
		t.Errorf("absorbed body must report inactive")
	}
}
