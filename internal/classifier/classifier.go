package classifier

import (
	"errors"
	"fmt"

	"bordersentry/pkg/models"
)

// Classifier maps a feature vector to an activity label and a confidence.
// Implementations are pure: no side effects, no randomness. Training happens
// offline; the simulation only consumes the trained artifact.
type Classifier interface {
	Predict(fv models.FeatureVector) (models.Label, float64)
}

// ErrContractViolation marks a classifier output outside the agreed
// contract: a label off the fixed enumeration or a confidence outside
// [0, 1]. Silently clamping would corrupt the meaning of the event stream,
// so this aborts the run instead.
var ErrContractViolation = errors.New("classifier contract violation")

// Guarded wraps a Classifier and enforces the output contract.
type Guarded struct {
	inner Classifier
}

// Guard wraps c with contract enforcement.
func Guard(c Classifier) *Guarded {
	return &Guarded{inner: c}
}

// Predict runs the wrapped classifier and validates its output.
func (g *Guarded) Predict(fv models.FeatureVector) (models.Label, float64, error) {
	label, confidence := g.inner.Predict(fv)
	if !label.Valid() {
		return "", 0, fmt.Errorf("label %q is not in the fixed enumeration: %w", label, ErrContractViolation)
	}
	if confidence < 0 || confidence > 1 {
		return "", 0, fmt.Errorf("confidence %v is outside [0, 1]: %w", confidence, ErrContractViolation)
	}
	return label, confidence, nil
}
