package toolkit

import (
	"encoding/json"
	"strings"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

// ValidateArgs checks args against the declared parameters. Undeclared
// arguments are passed through untouched.
func ValidateArgs(params []Param, args map[string]any) error {
	for _, p := range params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return requiredError(p)
			}
			continue
		}

		if !typeMatches(p.Type, v) {
			return domain.NewValidationError(p.Name, "'%s' must be of type %s", p.Name, p.Type)
		}

		if p.Required && p.Type == TypeString && strings.TrimSpace(v.(string)) == "" {
			return requiredError(p)
		}
	}
	return nil
}

func requiredError(p Param) error {
	if p.Type == TypeString {
		return domain.NewValidationError(p.Name, "'%s' is required and must be a non-empty string.", p.Name)
	}
	return domain.NewValidationError(p.Name, "'%s' is required.", p.Name)
}

func typeMatches(t ParamType, v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeNumber:
		return isNumber(v)
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeObject:
		_, ok := v.(map[string]any)
		return ok
	case TypeArray:
		_, ok := v.([]any)
		return ok
	case TypeStringOrNumber:
		_, ok := v.(string)
		return ok || isNumber(v)
	case TypeAny, "":
		return true
	default:
		return false
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	}
	return false
}
