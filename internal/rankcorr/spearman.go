// Package rankcorr computes Spearman's rank correlation between two ordinal
// rank sequences.
package rankcorr

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"sdnsurvey/internal/survey"
)

// Result is a Spearman coefficient with its two-sided significance.
type Result struct {
	N      int     `json:"n"`
	Rho    float64 `json:"rho"`
	PValue float64 `json:"p_value"`
}

// Spearman computes rho and its two-sided p-value for paired observations.
// Ties receive average ranks. The p-value uses Student's t with n-2 degrees
// of freedom.
//
// Both sequences must have the same length and at least three pairs. A
// constant sequence has zero rank variance, so rho is undefined and the call
// fails with survey.ErrDegenerate instead of returning a number.
func Spearman(x, y []float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, survey.Wrap(survey.ErrSchema, "rank correlation", "pair observations",
			fmt.Sprintf("sequence lengths differ: %d and %d", len(x), len(y)), nil)
	}
	n := len(x)
	if n < 3 {
		return Result{}, survey.Wrap(survey.ErrDegenerate, "rank correlation", "check input",
			fmt.Sprintf("need at least 3 pairs, got %d", n), nil)
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			return Result{}, survey.Wrap(survey.ErrSchema, "rank correlation", "check input",
				fmt.Sprintf("pair %d has a missing value; drop or impute before correlating", i), nil)
		}
	}

	rx := Ranks(x)
	ry := Ranks(y)
	rho, ok := pearson(rx, ry)
	if !ok {
		return Result{}, survey.Wrap(survey.ErrDegenerate, "rank correlation", "compute rho",
			fmt.Sprintf("one sequence is constant across %d pairs; Spearman's rho is undefined", n), nil)
	}
	return Result{N: n, Rho: rho, PValue: pValue(rho, n)}, nil
}

// SpearmanInts is Spearman over integer ranks.
func SpearmanInts(x, y []int) (Result, error) {
	fx := make([]float64, len(x))
	for i, v := range x {
		fx[i] = float64(v)
	}
	fy := make([]float64, len(y))
	for i, v := range y {
		fy[i] = float64(v)
	}
	return Spearman(fx, fy)
}

// Ranks assigns 1-based ranks to values, giving tied values the mean of the
// ranks they span.
func Ranks(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})
	ranks := make([]float64, len(values))
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && values[order[j]] == values[order[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}
	return ranks
}

func pearson(x, y []float64) (float64, bool) {
	n := float64(len(x))
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r)), true
}

func pValue(rho float64, n int) float64 {
	if math.Abs(rho) == 1 {
		return 0
	}
	df := float64(n - 2)
	t := rho * math.Sqrt(df/((1-rho)*(1+rho)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	return math.Min(1, p)
}
