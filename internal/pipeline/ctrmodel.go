package pipeline

import "math"

// benchmarkCTR is the expected click-through rate by integer ranking
// position, from industry averages. Index 0 is unused.
var benchmarkCTR = [11]float64{
	0,
	0.31,  // 1
	0.24,  // 2
	0.18,  // 3
	0.13,  // 4
	0.09,  // 5
	0.06,  // 6
	0.04,  // 7
	0.03,  // 8
	0.025, // 9
	0.02,  // 10
}

// ExpectedCTR returns the benchmark click-through rate for a ranking
// position. Non-integer positions within [1,10] are linearly interpolated
// between the neighboring integer benchmarks; positions beyond 10 decay as
// 0.02*10/position with a floor of 0.005. Positions below 1 clamp to the
// position-1 benchmark.
func ExpectedCTR(position float64) float64 {
	switch {
	case position <= 1:
		return benchmarkCTR[1]
	case position <= 10:
		lo := math.Floor(position)
		hi := math.Ceil(position)
		if lo == hi {
			return benchmarkCTR[int(lo)]
		}
		frac := position - lo
		return benchmarkCTR[int(lo)] + (benchmarkCTR[int(hi)]-benchmarkCTR[int(lo)])*frac
	default:
		return math.Max(0.005, 0.02*10/position)
	}
}

// CTRGap returns the unrealized click-through rate for a record: how far
// the observed CTR falls short of the positional benchmark, floored at 0.
func CTRGap(position, observedCTR float64) float64 {
	return math.Max(0, ExpectedCTR(position)-observedCTR)
}

// TrafficPotential estimates the additional clicks available if the CTR
// gap were closed, at current impression volume.
func TrafficPotential(impressions int64, ctrGap float64) int64 {
	return int64(math.Floor(float64(impressions) * ctrGap))
}
