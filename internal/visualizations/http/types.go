package http

import (
	"encoding/json"

	"github.com/algoviz-io/algoviz-backend/internal/apperr"
)

type createRequest struct {
	AlgorithmType string          `json:"algorithmType" binding:"required,oneof=sorting searching graph tree linked-list stack queue heap"`
	Algorithm     string          `json:"algorithm" binding:"required"`
	Input         json.RawMessage `json:"input" binding:"required"`
	Speed         string          `json:"speed" binding:"omitempty,oneof=slow medium fast"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
}

// validateInput enforces the accepted input shapes: a number array, a
// string array, or a string-keyed object.
func validateInput(raw json.RawMessage) *apperr.FieldError {
	invalid := &apperr.FieldError{
		Field:   "input",
		Message: "input must be an array of numbers, an array of strings, or an object",
	}

	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		var numbers, strs bool
		for _, v := range arr {
			switch v.(type) {
			case float64:
				numbers = true
			case string:
				strs = true
			default:
				return invalid
			}
		}
		if numbers && strs {
			return invalid
		}
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return nil
	}
	return invalid
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}
