// Package analytics runs the analytic routines behind each intent and
// dispatches the data requests they need.
package analytics

import "math"

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// linearFit fits y = intercept + slope*x over x = 0..len(ys)-1 by least
// squares and returns the residual standard error alongside. With fewer
// than 2 points the fit is degenerate and everything is zero.
func linearFit(ys []float64) (slope, intercept, stderr float64) {
	n := float64(len(ys))
	if n < 2 {
		if n == 1 {
			return 0, ys[0], 0
		}
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, mean(ys), 0
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n

	var rss float64
	for i, y := range ys {
		r := y - (intercept + slope*float64(i))
		rss += r * r
	}
	if n > 2 {
		stderr = math.Sqrt(rss / (n - 2))
	}
	return slope, intercept, stderr
}
