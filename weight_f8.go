//go:build !f32weights

package interpres

// Weight is the storage precision of tagger model parameters.
type Weight = F8

// WeightOf converts f to a Weight.
func WeightOf(f float64) Weight { return F8Of(f) }
