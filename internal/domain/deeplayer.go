package domain

import (
	"fmt"
	"math"
)

// deepLayerLevels are the pressure levels (hPa) of the deep-layer mean and
// their weights in 1/900ths.
var deepLayerLevels = []struct {
	hPa    int
	weight float64
}{
	{1000, 75}, {850, 150}, {700, 175}, {500, 150}, {400, 100},
	{300, 75}, {250, 50}, {200, 50}, {150, 50}, {100, 25},
}

const deepLayerWeightTotal = 900.0

// DeepLayerMean collapses one wind component given per pressure level into
// the weighted deep-layer mean. Every level from 1000 to 100 hPa is required.
func DeepLayerMean(byLevel map[int]float64) (float64, error) {
	var sum float64
	for _, lv := range deepLayerLevels {
		v, ok := byLevel[lv.hPa]
		if !ok {
			return 0, fmt.Errorf("deep layer mean: missing %d hPa level", lv.hPa)
		}
		sum += v * lv.weight / deepLayerWeightTotal
	}
	return sum, nil
}

// WindVector returns the speed and the mathematical direction (degrees
// counter-clockwise from east) of a u/v pair.
func WindVector(u, v float64) (speed, dirDeg float64) {
	return math.Hypot(u, v), math.Atan2(v, u) * 180 / math.Pi
}

// DeepLayerSpeed combines per-level u and v into a steering-flow speed.
func DeepLayerSpeed(u, v map[int]float64) (float64, error) {
	mu, err := DeepLayerMean(u)
	if err != nil {
		return 0, fmt.Errorf("u component: %w", err)
	}
	mv, err := DeepLayerMean(v)
	if err != nil {
		return 0, fmt.Errorf("v component: %w", err)
	}
	speed, _ := WindVector(mu, mv)
	return speed, nil
}
