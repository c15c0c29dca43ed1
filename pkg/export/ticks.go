package export

import (
	"math"
	"strconv"
	"strings"
)

// scaleValue maps value from [srcMin, srcMax] onto [dstMin, dstMax].
func scaleValue(value, srcMin, srcMax, dstMin, dstMax float64) float64 {
	if srcMax == srcMin {
		return (dstMin + dstMax) / 2
	}
	return dstMin + (value-srcMin)*(dstMax-dstMin)/(srcMax-srcMin)
}

// calculateIntTicks returns whole-number ticks inside [min, max].
func calculateIntTicks(min, max float64, maxTicks int) []float64 {
	lo := int(math.Ceil(min))
	hi := int(math.Floor(max))
	if hi < lo {
		return nil
	}

	span := hi - lo
	step := 1
	if span > maxTicks {
		step = (span + maxTicks - 1) / maxTicks
		switch {
		case step < 5:
			step = 5
		case step < 10:
			step = 10
		default:
			magnitude := int(math.Pow(10, math.Floor(math.Log10(float64(step)))))
			step = ((step + magnitude - 1) / magnitude) * magnitude
		}
	}

	start := lo
	if r := lo % step; r != 0 {
		start = lo - r
		if start < lo {
			start += step
		}
	}

	ticks := make([]float64, 0, span/step+1)
	for t := start; t <= hi; t += step {
		ticks = append(ticks, float64(t))
	}
	return ticks
}

// calculateFloatTicks returns evenly spaced "nice" ticks covering [min, max].
func calculateFloatTicks(min, max float64, maxTicks int) []float64 {
	if max <= min {
		return []float64{min}
	}

	roughStep := (max - min) / float64(maxTicks)
	magnitude := math.Pow(10, math.Floor(math.Log10(roughStep)))
	residual := roughStep / magnitude

	var step float64
	switch {
	case residual <= 1.5:
		step = magnitude
	case residual <= 3:
		step = 2 * magnitude
	case residual <= 7:
		step = 5 * magnitude
	default:
		step = 10 * magnitude
	}

	var ticks []float64
	for tick := math.Ceil(min/step-1e-9) * step; tick <= max+step*1e-6; tick += step {
		ticks = append(ticks, roundToSignificant(tick, 6))
	}
	return ticks
}

// roundToSignificant rounds value to n significant figures.
func roundToSignificant(value float64, n int) float64 {
	if value == 0 {
		return 0
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(math.Abs(value)))-float64(n-1))
	return math.Round(value/magnitude) * magnitude
}

// formatTick renders a tick value without trailing zeros.
func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
