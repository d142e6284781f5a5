package interpres

import "math"

// Scalar is the narrow numeric interface shared by the score precisions.
// F8 is the compact production type; F32 trades memory for precision.
type Scalar[S any] interface {
	Add(S) S
	Mul(S) S
	Float() float64
}

// F8 is a [0,1] value quantized to 1/255 steps.
type F8 uint8

// F8Max is the F8 representation of 1.0.
const F8Max F8 = math.MaxUint8

// F8Of quantizes f, clamping it to [0,1].
func F8Of(f float64) F8 {
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= 1:
		return F8Max
	}
	return F8(math.Round(f * float64(F8Max)))
}

// Add returns the saturating sum of a and b.
func (a F8) Add(b F8) F8 {
	s := uint16(a) + uint16(b)
	if s > uint16(F8Max) {
		return F8Max
	}
	return F8(s)
}

// Mul returns a weighted by b, rounded to the nearest step.
func (a F8) Mul(b F8) F8 {
	return F8((uint16(a)*uint16(b) + uint16(F8Max)/2) / uint16(F8Max))
}

// Float converts a to float64.
func (a F8) Float() float64 {
	return float64(a) / float64(F8Max)
}

// F32 is the full-precision counterpart of F8.
type F32 float32

// F32Of clamps f to [0,1].
func F32Of(f float64) F32 {
	switch {
	case f <= 0 || math.IsNaN(f):
		return 0
	case f >= 1:
		return 1
	}
	return F32(f)
}

// Add returns the sum of a and b, capped at 1.
func (a F32) Add(b F32) F32 {
	return F32Of(float64(a) + float64(b))
}

// Mul returns a weighted by b.
func (a F32) Mul(b F32) F32 {
	return a * b
}

// Float converts a to float64.
func (a F32) Float() float64 {
	return float64(a)
}

// Sum adds xs together in S's own precision.
func Sum[S Scalar[S]](xs []S) S {
	var total S
	for _, x := range xs {
		total = total.Add(x)
	}
	return total
}

// Mean averages xs in float64 and returns the result as a float.
// Averaging is not done in S because saturation would bias it.
func Mean[S Scalar[S]](xs []S) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x.Float()
	}
	return total / float64(len(xs))
}
