// Package proptest provides the one- and two-sample proportion z-tests
// the opinion pipeline uses for significance decisions.
//
// Both tests apply Laplace smoothing (add one success, add one trial) so
// zero-count statements produce finite, conservative scores instead of
// NaN. The significance threshold is the exact one-tailed 90% normal
// quantile, applied uniformly across the codebase.
package proptest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// zCrit90 is the one-tailed 90%-confidence critical value, Phi^-1(0.90).
var zCrit90 = distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.90)

// PropTest runs a one-proportion z-test against the null p = 0.5.
// Smoothing adds one virtual trial per outcome, s' = successes+1 and
// t' = trials+2, so a proportion exactly at the null (including the
// zero-trial case) scores exactly zero:
//
//	z = 2 * sqrt(t') * (s'/t' - 0.5)
func PropTest(successes, trials int) float64 {
	s := float64(successes) + 1
	t := float64(trials) + 2
	return 2 * math.Sqrt(t) * (s/t - 0.5)
}

// TwoPropTest runs a Laplace-smoothed two-sample proportion z-test
// comparing group A against group B. Returns 0 when the pooled
// proportion is exactly 1, which would otherwise divide by zero.
func TwoPropTest(successesA, successesB, trialsA, trialsB int) float64 {
	sA := float64(successesA) + 1
	sB := float64(successesB) + 1
	nA := float64(trialsA) + 1
	nB := float64(trialsB) + 1

	pA := sA / nA
	pB := sB / nB
	pooled := (sA + sB) / (nA + nB)
	if pooled == 1 {
		return 0
	}

	denom := math.Sqrt(pooled * (1 - pooled) * (1/nA + 1/nB))
	if denom == 0 {
		return 0
	}
	return (pA - pB) / denom
}

// IsSignificant90 reports whether z clears the one-tailed 90% threshold.
func IsSignificant90(z float64) bool {
	return z > zCrit90
}

// CriticalValue90 exposes the threshold itself for reporting.
func CriticalValue90() float64 {
	return zCrit90
}
