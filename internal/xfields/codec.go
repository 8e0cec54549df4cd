// Package xfields reads and writes extra field definitions and values.
//
// Definitions are stored one per line as
//
//	name|label|<reserved>|type
//
// and bound values as a single blob
//
//	name1|value1||name2|value2
//
// Neither names nor values may contain a pipe.
package xfields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/amaumene/videosync/internal/models"
)

const (
	pairSeparator  = "||"
	valueSeparator = "|"
)

// ParseDefinition parses a single definition line. The third segment is
// reserved and must be present, its content is ignored.
func ParseDefinition(line string) (models.ExtraField, error) {
	parts := strings.Split(strings.TrimSpace(line), valueSeparator)
	if len(parts) < 4 {
		return models.ExtraField{}, fmt.Errorf("definition %q has %d segments: %w", line, len(parts), models.ErrMalformedDefinition)
	}

	field := models.ExtraField{
		Name:  strings.TrimSpace(parts[0]),
		Label: strings.TrimSpace(parts[1]),
		Type:  models.FieldType(strings.TrimSpace(parts[3])),
	}
	if field.Name == "" || field.Label == "" || field.Type == "" {
		return models.ExtraField{}, fmt.Errorf("definition %q: %w", line, models.ErrMalformedDefinition)
	}
	return field, nil
}

// ParseDefinitions parses a newline-separated definition list. Lines that do
// not parse are skipped.
func ParseDefinitions(text string) []models.ExtraField {
	var fields []models.ExtraField
	for _, line := range strings.Split(text, "\n") {
		field, err := ParseDefinition(line)
		if err != nil {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

// BindValue binds a raw "name|value" string to field. The name must match
// the field's name exactly.
func BindValue(field models.ExtraField, raw string) (models.ExtraField, error) {
	re, err := regexp.Compile(`^` + regexp.QuoteMeta(field.Name) + `\|([^|]+)$`)
	if err != nil {
		return field, fmt.Errorf("field %q: %w", field.Name, models.ErrFormat)
	}
	match := re.FindStringSubmatch(raw)
	if match == nil {
		return field, fmt.Errorf("value %q does not belong to field %q: %w", raw, field.Name, models.ErrFormat)
	}
	field.Value = match[1]
	return field, nil
}

// ParseValues splits a value blob and binds every pair to its definition, in
// encounter order. Pairs naming an unknown field are skipped when soft is
// set and fail the call otherwise.
func ParseValues(raw string, definitions []models.ExtraField, soft bool) ([]models.ExtraField, error) {
	var bound []models.ExtraField
	for _, segment := range strings.Split(raw, pairSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		parts := strings.Split(segment, valueSeparator)
		if len(parts) != 2 {
			return nil, fmt.Errorf("segment %q is not a name|value pair: %w", segment, models.ErrFormat)
		}
		name, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if name == "" || value == "" {
			return nil, fmt.Errorf("segment %q has an empty side: %w", segment, models.ErrFormat)
		}

		def, ok := find(definitions, name)
		if !ok {
			if soft {
				continue
			}
			return nil, fmt.Errorf("field %q: %w", name, models.ErrFieldNotFound)
		}
		def.Value = value
		bound = append(bound, def)
	}
	return bound, nil
}

// SerializeValue renders a bound field as "name|value"
func SerializeValue(field models.ExtraField) (string, error) {
	if field.Name == "" || field.Value == "" {
		return "", fmt.Errorf("field %q needs both name and value: %w", field.Name, models.ErrInvalidArgument)
	}
	if strings.Contains(field.Name, valueSeparator) || strings.Contains(field.Value, valueSeparator) {
		return "", fmt.Errorf("field %q: name and value may not contain %q: %w", field.Name, valueSeparator, models.ErrInvalidArgument)
	}
	return field.Name + valueSeparator + field.Value, nil
}

// SerializeValues renders every bound field into one blob
func SerializeValues(fields []models.ExtraField) (string, error) {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		s, err := SerializeValue(f)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, pairSeparator), nil
}

func find(definitions []models.ExtraField, name string) (models.ExtraField, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return models.ExtraField{}, false
}
