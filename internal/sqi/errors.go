package sqi

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gaez-sqi/internal/model"
)

// Sentinels for errors.Is. Each typed error below matches exactly one.
var (
	ErrUnknownTextureClass        = eris.New("unknown texture class")
	ErrInvalidInputLevel          = eris.New("invalid input level")
	ErrUnsupportedLayerCount      = eris.New("unsupported layer count")
	ErrUnsupportedWeightScheme    = eris.New("unsupported weight scheme")
	ErrMissingTextureRequirement  = eris.New("missing texture requirement")
	ErrMissingPropertyRequirement = eris.New("missing property requirement")
	ErrInvalidProfile             = eris.New("invalid profile")
)

// UnknownTextureClassError is returned when a texture label is not one of
// the twelve canonical classes.
type UnknownTextureClassError struct {
	Label string
}

func (e *UnknownTextureClassError) Error() string {
	return fmt.Sprintf("sqi: unknown texture class %q", e.Label)
}

func (e *UnknownTextureClassError) Is(target error) bool { return target == ErrUnknownTextureClass }

// InvalidInputLevelError is returned for input levels other than L, I or H.
type InvalidInputLevelError struct {
	Level string
}

func (e *InvalidInputLevelError) Error() string {
	return fmt.Sprintf("sqi: invalid input level %q (want L, I or H)", e.Level)
}

func (e *InvalidInputLevelError) Is(target error) bool { return target == ErrInvalidInputLevel }

// UnsupportedLayerCountError is returned when no depth-weight vector exists
// for the number of layers in a profile.
type UnsupportedLayerCountError struct {
	Count int
}

func (e *UnsupportedLayerCountError) Error() string {
	return fmt.Sprintf("sqi: unsupported layer count %d (want %d-%d)", e.Count, MinLayers, MaxLayers)
}

func (e *UnsupportedLayerCountError) Is(target error) bool { return target == ErrUnsupportedLayerCount }

// UnsupportedWeightSchemeError is returned for weighting schemes other than 1 and 2.
type UnsupportedWeightSchemeError struct {
	Scheme int
}

func (e *UnsupportedWeightSchemeError) Error() string {
	return fmt.Sprintf("sqi: unsupported weight scheme %d (want 1 or 2)", e.Scheme)
}

func (e *UnsupportedWeightSchemeError) Is(target error) bool {
	return target == ErrUnsupportedWeightScheme
}

// MissingTextureRequirementError is returned when the texture table has no
// rating for an SQI code and texture class.
type MissingTextureRequirementError struct {
	SQICode      int
	TextureClass int
}

func (e *MissingTextureRequirementError) Error() string {
	return fmt.Sprintf("sqi: no texture requirement for SQI %d, texture class %d (%s)",
		e.SQICode, e.TextureClass, TextureName(e.TextureClass))
}

func (e *MissingTextureRequirementError) Is(target error) bool {
	return target == ErrMissingTextureRequirement
}

// MissingPropertyRequirementError is returned when the threshold table for
// an SQI code and property is empty.
type MissingPropertyRequirementError struct {
	SQICode  int
	Property string
}

func (e *MissingPropertyRequirementError) Error() string {
	return fmt.Sprintf("sqi: no %q property requirement for SQI %d", e.Property, e.SQICode)
}

func (e *MissingPropertyRequirementError) Is(target error) bool {
	return target == ErrMissingPropertyRequirement
}

// InvalidProfileError wraps a structural profile problem.
type InvalidProfileError struct {
	Err *model.ProfileError
}

func (e *InvalidProfileError) Error() string { return "sqi: " + e.Err.Error() }

func (e *InvalidProfileError) Unwrap() error { return e.Err }

func (e *InvalidProfileError) Is(target error) bool { return target == ErrInvalidProfile }
