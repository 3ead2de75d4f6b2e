package projection

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries every field violation found in a Profile.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = msg
}

// CalculationError aborts a simulation when a projected value is physically
// meaningless or unsafe. Week is 0 when the failure is not tied to a week.
type CalculationError struct {
	Week    int
	Message string
}

func (e *CalculationError) Error() string {
	if e.Week > 0 {
		return fmt.Sprintf("week %d: %s", e.Week, e.Message)
	}
	return e.Message
}
