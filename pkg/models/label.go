package models

// Label is an activity classification produced by the classifier.
type Label string

const (
	LabelNormal  Label = "normal"
	LabelHuman   Label = "human"
	LabelAnimal  Label = "animal"
	LabelVehicle Label = "vehicle"
)

// Labels returns the fixed label enumeration in a stable order.
func Labels() []Label {
	return []Label{LabelNormal, LabelHuman, LabelAnimal, LabelVehicle}
}

// Valid reports whether l is part of the fixed enumeration.
func (l Label) Valid() bool {
	switch l {
	case LabelNormal, LabelHuman, LabelAnimal, LabelVehicle:
		return true
	}
	return false
}

// Intrusion reports whether l represents an intruder class.
func (l Label) Intrusion() bool {
	return l.Valid() && l != LabelNormal
}
