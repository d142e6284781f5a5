//go:build f32weights

package interpres

// Weight is the storage precision of tagger model parameters.
// The f32weights build tag selects full precision for training and debugging.
type Weight = F32

// WeightOf converts f to a Weight.
func WeightOf(f float64) Weight { return F32Of(f) }
