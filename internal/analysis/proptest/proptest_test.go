package proptest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropTest_NullProportionIsZero(t *testing.T) {
	// Exactly half the trials succeeding sits on the null hypothesis,
	// so the smoothed statistic must come out to exactly zero.
	for _, n := range []int{2, 4, 10, 100, 1000} {
		z := PropTest(n/2, n)
		if z != 0 {
			t.Errorf("PropTest(%d, %d) = %g, want 0", n/2, n, z)
		}
	}
}

func TestPropTest_Direction(t *testing.T) {
	if z := PropTest(9, 10); z <= 0 {
		t.Errorf("expected positive z for 9/10 agreement, got %g", z)
	}
	if z := PropTest(1, 10); z >= 0 {
		t.Errorf("expected negative z for 1/10 agreement, got %g", z)
	}
}

func TestPropTest_ZeroTrials(t *testing.T) {
	// Smoothing keeps the degenerate case finite and exactly at the null.
	z := PropTest(0, 0)
	assert.Equal(t, 0.0, z)
}

func TestTwoPropTest_IdenticalProportionsAreZero(t *testing.T) {
	cases := []struct{ s, n int }{
		{0, 0}, {1, 2}, {5, 10}, {10, 10}, {0, 7}, {50, 200},
	}
	for _, tc := range cases {
		z := TwoPropTest(tc.s, tc.s, tc.n, tc.n)
		if z != 0 {
			t.Errorf("TwoPropTest(%d, %d, %d, %d) = %g, want 0", tc.s, tc.s, tc.n, tc.n, z)
		}
	}
}

func TestTwoPropTest_PooledProportionOneGuard(t *testing.T) {
	// All trials succeed in both groups after smoothing: pooled p == 1
	// would put a zero in the denominator; the guard short-circuits to 0.
	z := TwoPropTest(9, 4, 9, 4)
	assert.Equal(t, 0.0, z)
}

func TestTwoPropTest_Direction(t *testing.T) {
	// Group A far more agreeable than group B.
	z := TwoPropTest(18, 2, 20, 20)
	if z <= 0 {
		t.Fatalf("expected positive z, got %g", z)
	}
	// Symmetric flip negates the statistic.
	flipped := TwoPropTest(2, 18, 20, 20)
	assert.InDelta(t, -z, flipped, 1e-12)
}

func TestIsSignificant90(t *testing.T) {
	crit := CriticalValue90()
	assert.InDelta(t, 1.2816, crit, 1e-3)

	assert.False(t, IsSignificant90(0))
	assert.False(t, IsSignificant90(crit)) // strict inequality
	assert.True(t, IsSignificant90(crit+1e-9))
	assert.True(t, IsSignificant90(3))
	assert.False(t, IsSignificant90(-3))
}

func TestPropTest_Finite(t *testing.T) {
	for s := 0; s <= 20; s++ {
		for n := s; n <= 20; n++ {
			if z := PropTest(s, n); math.IsNaN(z) || math.IsInf(z, 0) {
				t.Fatalf("PropTest(%d, %d) not finite: %g", s, n, z)
			}
		}
	}
}
