package itb

import "regexp"

var digitsOnly = regexp.MustCompile(`^\d*$`)

// Field names a reading input.
type Field int

const (
	FieldArm Field = iota
	FieldAnkle
)

func (f Field) String() string {
	switch f {
	case FieldArm:
		return "armSystolic"
	case FieldAnkle:
		return "ankleSystolic"
	default:
		return "unknown"
	}
}

// Reading holds the two systolic pressures as the user typed them.
// Either may be empty; a non-empty value is always all digits.
type Reading struct {
	Arm   string `json:"armSystolic"`
	Ankle string `json:"ankleSystolic"`
}

// ValidInput reports whether v may be stored in a reading field.
func ValidInput(v string) bool {
	return digitsOnly.MatchString(v)
}

// Set stores v into field f if it passes the digit filter. A rejected value
// leaves the reading untouched.
func (r *Reading) Set(f Field, v string) bool {
	if !ValidInput(v) {
		return false
	}
	switch f {
	case FieldArm:
		r.Arm = v
	case FieldAnkle:
		r.Ankle = v
	default:
		return false
	}
	return true
}

// Get returns the raw value of field f.
func (r Reading) Get(f Field) string {
	if f == FieldAnkle {
		return r.Ankle
	}
	return r.Arm
}

// Empty reports whether both fields are unset.
func (r Reading) Empty() bool {
	return r.Arm == "" && r.Ankle == ""
}
