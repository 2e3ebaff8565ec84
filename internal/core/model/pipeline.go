package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Column describes one input of a fitted preprocessor. Numeric columns are
// standardized with (value-Mean)/Scale; categorical columns are one-hot
// encoded over the categories seen at training time.
type Column struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"` // "numeric" or "categorical"
	Mean       float64  `json:"mean,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

type artifact struct {
	Columns      []Column  `json:"columns"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Link         string    `json:"link"` // "identity" or "logistic"
}

// Pipeline bundles a fitted preprocessor with its linear model. It is the
// concrete transform/predict pair behind both prediction tasks.
type Pipeline struct {
	columns   []Column
	coef      []float64
	intercept float64
	logistic  bool
}

// LoadPipeline reads a model artifact exported from training.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}

	width := 0
	for _, col := range art.Columns {
		switch col.Type {
		case "numeric":
			width++
		case "categorical":
			if len(col.Categories) == 0 {
				return nil, fmt.Errorf("artifact %s: categorical column %s has no categories", path, col.Name)
			}
			width += len(col.Categories)
		default:
			return nil, fmt.Errorf("artifact %s: unknown column type %q", path, col.Type)
		}
	}
	if width != len(art.Coefficients) {
		return nil, fmt.Errorf("artifact %s: %d coefficients for transformed width %d", path, len(art.Coefficients), width)
	}

	return &Pipeline{
		columns:   art.Columns,
		coef:      art.Coefficients,
		intercept: art.Intercept,
		logistic:  art.Link == "logistic",
	}, nil
}

// Transform maps the named features onto the fitted column order. A missing
// feature or an unseen category is a schema mismatch and fails the call.
func (p *Pipeline) Transform(features map[string]any) ([]float64, error) {
	out := make([]float64, 0, len(p.coef))

	for _, col := range p.columns {
		v, ok := features[col.Name]
		if !ok {
			return nil, fmt.Errorf("transform: feature %s not present", col.Name)
		}

		switch col.Type {
		case "numeric":
			num, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("transform: feature %s is not numeric", col.Name)
			}
			scale := col.Scale
			if scale == 0 {
				scale = 1
			}
			out = append(out, (num-col.Mean)/scale)
		case "categorical":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("transform: feature %s is not categorical", col.Name)
			}
			matched := false
			for _, category := range col.Categories {
				if s == category {
					out = append(out, 1)
					matched = true
				} else {
					out = append(out, 0)
				}
			}
			if !matched {
				return nil, fmt.Errorf("transform: unknown %s category %q", col.Name, s)
			}
		}
	}

	return out, nil
}

// Predict returns the linear response for a transformed vector.
func (p *Pipeline) Predict(x []float64) float64 {
	sum := p.intercept
	for i, v := range x {
		sum += p.coef[i] * v
	}
	return sum
}

// PredictProba returns [p0, p1] through the logistic link.
func (p *Pipeline) PredictProba(x []float64) []float64 {
	p1 := 1 / (1 + math.Exp(-p.Predict(x)))
	return []float64{1 - p1, p1}
}
