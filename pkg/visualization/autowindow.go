package visualization

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"mprviewer/internal/models"
)

// Percentile methods
const (
	// PercentileLinear interpolates linearly between the closest ranks,
	// index = p/100 * (n-1)
	PercentileLinear = "linear"
	// PercentileEmpirical uses the empirical distribution function
	PercentileEmpirical = "empirical"
)

// AutoWindowOptions controls the robust window estimate
type AutoWindowOptions struct {
	// Lower and Upper are percentiles in [0, 100]
	Lower, Upper float64
	// MinWidth is the smallest width returned, at least 1
	MinWidth float64
	// Method is PercentileLinear or PercentileEmpirical
	Method string
}

// DefaultAutoWindowOptions returns the 1st/99th percentile linear estimate
func DefaultAutoWindowOptions() AutoWindowOptions {
	return AutoWindowOptions{
		Lower:    1,
		Upper:    99,
		MinWidth: models.MinWindowWidth,
		Method:   PercentileLinear,
	}
}

// AutoWindow estimates a window from the intensity distribution of the whole
// volume. Level is the midpoint of the lower and upper percentiles and width
// their distance, never below MinWidth. Outlier voxels outside the percentile
// range do not move the window.
func AutoWindow(vol *models.Volume, opts AutoWindowOptions) models.WindowSettings {
	minWidth := math.Max(opts.MinWidth, models.MinWindowWidth)
	if vol == nil || len(vol.Data) == 0 {
		return models.WindowSettings{Level: 0, Width: minWidth}
	}

	sorted := make([]float64, len(vol.Data))
	copy(sorted, vol.Data)
	sort.Float64s(sorted)

	var lo, hi float64
	if opts.Method == PercentileEmpirical {
		lo = stat.Quantile(opts.Lower/100, stat.Empirical, sorted, nil)
		hi = stat.Quantile(opts.Upper/100, stat.Empirical, sorted, nil)
	} else {
		lo = Percentile(sorted, opts.Lower)
		hi = Percentile(sorted, opts.Upper)
	}

	return models.WindowSettings{
		Level: (lo + hi) / 2,
		Width: math.Max(hi-lo, minWidth),
	}
}

// Percentile returns the p-th percentile (p in [0, 100]) of sorted data,
// interpolating linearly between the closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	h := p / 100 * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
