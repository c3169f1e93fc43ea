package sqi

import (
	"github.com/sells-group/gaez-sqi/internal/model"
)

// ParseInputLevel validates a single-letter input level. Only upper-case
// L, I and H are accepted.
func ParseInputLevel(s string) (model.InputLevel, error) {
	switch lvl := model.InputLevel(s); lvl {
	case model.InputLevelLow, model.InputLevelIntermediate, model.InputLevelHigh:
		return lvl, nil
	default:
		return "", &InvalidInputLevelError{Level: s}
	}
}

// InputLevelCodes returns the requirement-table input-level codes to request
// for an input level, in priority order.
func InputLevelCodes(lvl model.InputLevel) ([]int, error) {
	switch lvl {
	case model.InputLevelLow:
		return []int{1, 3, 4}, nil
	case model.InputLevelIntermediate:
		return []int{2, 3, 4}, nil
	case model.InputLevelHigh:
		return []int{4, 5}, nil
	default:
		return nil, &InvalidInputLevelError{Level: string(lvl)}
	}
}
