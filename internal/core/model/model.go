package model

// Transformer turns a named feature mapping into the numeric vector a
// fitted model expects. Implementations are immutable after loading and
// safe for concurrent use.
type Transformer interface {
	Transform(features map[string]any) ([]float64, error)
}

// Regressor predicts a scalar from a transformed vector.
type Regressor interface {
	Predict(x []float64) float64
}

// Classifier predicts a two-class probability vector from a transformed
// vector. Index 1 is the positive ("approved") class.
type Classifier interface {
	PredictProba(x []float64) []float64
}
