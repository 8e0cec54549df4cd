package models

import (
	"strconv"
	"strings"
)

// ExtraField is a named, typed attribute attached to a post. Definitions are
// parsed once from configuration; bound copies carry a Value.
type ExtraField struct {
	Name  string
	Label string
	Type  FieldType
	Value string
}

// Bound reports whether the field carries a value
func (f ExtraField) Bound() bool {
	return f.Value != ""
}

// FormatScalar converts a non-empty string or a number into a field value.
// Anything else is rejected.
func FormatScalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
