package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultEthnicity is used when the client omits the Ethnicity field.
const DefaultEthnicity = "Caucasian"

// Features is the canonical financial profile consumed by the predictors.
// Income is stored in thousands, exactly as received; scaling to raw
// currency units happens in the vector projections, never earlier.
type Features struct {
	Income    float64
	Rating    float64
	Cards     int
	Age       int
	Balance   float64
	Education int
	Student   bool
	Married   bool
	Ethnicity string
}

// MissingFeatureError reports a required feature absent from the payload.
type MissingFeatureError struct {
	Field string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing feature: %s", e.Field)
}

// BadFeatureError reports a feature value that could not be coerced.
type BadFeatureError struct {
	Field string
	Value any
}

func (e *BadFeatureError) Error() string {
	return fmt.Sprintf("invalid value for feature %s: %v", e.Field, e.Value)
}

// NormalizeFeatures builds a Features value from an arbitrary JSON payload.
// All nine fields are required except Ethnicity, which defaults. The mobile
// client historically sent both "Income" and "income" style keys; the
// capitalized key wins when both are present.
func NormalizeFeatures(raw map[string]any) (Features, error) {
	f, err := NormalizeLimitFeatures(raw)
	if err != nil {
		return Features{}, err
	}

	if f.Education, err = intField(raw, "Education"); err != nil {
		return Features{}, err
	}
	if f.Student, err = boolField(raw, "Student"); err != nil {
		return Features{}, err
	}
	if f.Married, err = boolField(raw, "Married"); err != nil {
		return Features{}, err
	}
	return f, nil
}

// NormalizeLimitFeatures builds the six-field subset that the credit limit
// model requires. Education, Student and Married are left zero-valued.
func NormalizeLimitFeatures(raw map[string]any) (Features, error) {
	var f Features
	var err error

	if f.Income, err = floatField(raw, "Income"); err != nil {
		return Features{}, err
	}
	if f.Rating, err = floatField(raw, "Rating"); err != nil {
		return Features{}, err
	}
	if f.Cards, err = intField(raw, "Cards"); err != nil {
		return Features{}, err
	}
	if f.Age, err = intField(raw, "Age"); err != nil {
		return Features{}, err
	}
	if f.Balance, err = floatField(raw, "Balance"); err != nil {
		return Features{}, err
	}

	if v, ok := lookup(raw, "Ethnicity"); ok {
		s, sok := v.(string)
		if !sok || s == "" {
			return Features{}, &BadFeatureError{Field: "Ethnicity", Value: v}
		}
		f.Ethnicity = s
	} else {
		f.Ethnicity = DefaultEthnicity
	}

	return f, nil
}

// LimitVector projects onto the credit limit model schema. Income arrives in
// thousands and the fitted preprocessor expects raw currency units.
func (f Features) LimitVector() map[string]any {
	return map[string]any{
		"Income":    f.Income * 1000,
		"Rating":    f.Rating,
		"Cards":     float64(f.Cards),
		"Age":       float64(f.Age),
		"Balance":   f.Balance,
		"Ethnicity": f.Ethnicity,
	}
}

// ApprovalVector projects onto the approval model schema. Booleans are
// encoded as 0/1, matching the training data.
func (f Features) ApprovalVector() map[string]any {
	v := f.LimitVector()
	v["Education"] = float64(f.Education)
	v["Student"] = boolToFloat(f.Student)
	v["Married"] = boolToFloat(f.Married)
	return v
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// lookup prefers the canonical capitalized key, falling back to the
// lowercase alias.
func lookup(raw map[string]any, key string) (any, bool) {
	if v, ok := raw[key]; ok && v != nil {
		return v, true
	}
	if v, ok := raw[strings.ToLower(key)]; ok && v != nil {
		return v, true
	}
	return nil, false
}

func floatField(raw map[string]any, key string) (float64, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return 0, &MissingFeatureError{Field: key}
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		if parsed, err := strconv.ParseFloat(t, 64); err == nil {
			return parsed, nil
		}
	}
	return 0, &BadFeatureError{Field: key, Value: v}
}

func intField(raw map[string]any, key string) (int, error) {
	f, err := floatField(raw, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func boolField(raw map[string]any, key string) (bool, error) {
	v, ok := lookup(raw, key)
	if !ok {
		return false, &MissingFeatureError{Field: key}
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case string:
		if parsed, err := strconv.ParseBool(strings.ToLower(t)); err == nil {
			return parsed, nil
		}
		switch strings.ToLower(t) {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
	}
	return false, &BadFeatureError{Field: key, Value: v}
}
