package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// FanMode selects which fan a VarianceScaling initializer divides by.
type FanMode int

// Fan modes.
const (
	FanIn FanMode = iota
	FanOut
	FanAvg
)

func (m FanMode) String() string {
	switch m {
	case FanIn:
		return "fan_in"
	case FanOut:
		return "fan_out"
	case FanAvg:
		return "fan_avg"
	default:
		return fmt.Sprintf("FanMode(%d)", int(m))
	}
}

// Distribution selects the sampling distribution of a VarianceScaling
// initializer.
type Distribution int

// Distributions.
const (
	TruncatedNormal Distribution = iota
	UntruncatedNormal
	Uniform
)

func (d Distribution) String() string {
	switch d {
	case TruncatedNormal:
		return "truncated_normal"
	case UntruncatedNormal:
		return "untruncated_normal"
	case Uniform:
		return "uniform"
	default:
		return fmt.Sprintf("Distribution(%d)", int(d))
	}
}

// truncatedStddevCorrection is the standard deviation of a unit normal
// truncated to [-2, 2]. Dividing by it keeps the requested variance after
// truncation.
const truncatedStddevCorrection = 0.87962566103423978

// VarianceScaling draws weights with variance Scale / n, where n is the
// fan selected by Mode.
//
// Truncated normal samples are drawn by inverting the unit normal CDF on
// [CDF(-2), CDF(2)], so no rejection loop is needed.
type VarianceScaling struct {
	Scale        float64
	Mode         FanMode
	Distribution Distribution
}

// HeNormal returns the He et al. (2015) initializer used for rectifier
// networks: scale 2, fan-in, truncated normal.
//
// Reference: "Delving Deep into Rectifiers: Surpassing Human-Level
// Performance on ImageNet Classification".
func HeNormal() VarianceScaling {
	return VarianceScaling{Scale: 2.0, Mode: FanIn, Distribution: TruncatedNormal}
}

// Validate checks that the initializer can produce finite weights.
func (v VarianceScaling) Validate() error {
	if !(v.Scale > 0) || math.IsInf(v.Scale, 0) {
		return fmt.Errorf("variance scaling: scale must be positive and finite, got %v", v.Scale)
	}
	switch v.Mode {
	case FanIn, FanOut, FanAvg:
	default:
		return fmt.Errorf("variance scaling: unknown mode %v", v.Mode)
	}
	switch v.Distribution {
	case TruncatedNormal, UntruncatedNormal, Uniform:
	default:
		return fmt.Errorf("variance scaling: unknown distribution %v", v.Distribution)
	}
	return nil
}

// Fill overwrites data with fresh samples.
//
// Parameters:
//   - data: Destination buffer (e.g., a weight tensor's Data())
//   - fanIn: Number of input units (kernel_h * kernel_w * in_channels for Conv2D)
//   - fanOut: Number of output units (kernel_h * kernel_w * out_channels for Conv2D)
//   - rng: Source of randomness; the same seed yields the same weights
func (v VarianceScaling) Fill(data []float32, fanIn, fanOut int, rng *rand.Rand) {
	n := float64(fanIn)
	switch v.Mode {
	case FanOut:
		n = float64(fanOut)
	case FanAvg:
		n = float64(fanIn+fanOut) / 2
	}
	if n < 1 {
		n = 1
	}
	variance := v.Scale / n

	switch v.Distribution {
	case TruncatedNormal:
		stddev := math.Sqrt(variance) / truncatedStddevCorrection
		lo := distuv.UnitNormal.CDF(-2)
		hi := distuv.UnitNormal.CDF(2)
		for i := range data {
			//nolint:gosec // Using math/rand for weight initialization (not security-critical)
			p := lo + rng.Float64()*(hi-lo)
			data[i] = float32(distuv.UnitNormal.Quantile(p) * stddev)
		}
	case UntruncatedNormal:
		stddev := math.Sqrt(variance)
		for i := range data {
			data[i] = float32(rng.NormFloat64() * stddev)
		}
	case Uniform:
		limit := math.Sqrt(3 * variance)
		for i := range data {
			data[i] = float32((rng.Float64()*2 - 1) * limit)
		}
	}
}

// String returns a Keras-like description of the initializer.
func (v VarianceScaling) String() string {
	return fmt.Sprintf("VarianceScaling(scale=%g, mode=%s, distribution=%s)", v.Scale, v.Mode, v.Distribution)
}
