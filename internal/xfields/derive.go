package xfields

import (
	"strings"

	"github.com/amaumene/videosync/internal/models"
)

var pipeReplacer = strings.NewReplacer(valueSeparator, "/")

// Mapping routes a video attribute into a named extra field
type Mapping struct {
	Field models.VideoField
	Name  string
}

// DeriveFromVideo builds extra fields from video attributes. Lists are joined
// with ", ". Empty strings, empty lists and zero numbers produce no field.
// Pipes in values become slashes so the value blob stays parseable.
func DeriveFromVideo(video *models.Video, mapping []Mapping) []models.ExtraField {
	var fields []models.ExtraField
	for _, m := range mapping {
		if m.Name == "" {
			continue
		}
		raw, ok := video.Field(m.Field)
		if !ok {
			continue
		}
		value, ok := fieldValue(raw)
		if !ok {
			continue
		}
		value = strings.TrimSpace(pipeReplacer.Replace(value))
		if value == "" {
			continue
		}
		fields = append(fields, models.ExtraField{
			Name:  m.Name,
			Label: m.Name,
			Type:  models.FieldTypeText,
			Value: value,
		})
	}
	return fields
}

// Describe copies label and type from matching definitions onto fields
func Describe(fields []models.ExtraField, definitions []models.ExtraField) []models.ExtraField {
	for i := range fields {
		if def, ok := find(definitions, fields[i].Name); ok {
			fields[i].Label = def.Label
			fields[i].Type = def.Type
		}
	}
	return fields
}

func fieldValue(raw any) (string, bool) {
	switch v := raw.(type) {
	case []string:
		joined := strings.Join(v, ", ")
		return joined, joined != ""
	case string:
		return v, strings.TrimSpace(v) != ""
	case int:
		if v == 0 {
			return "", false
		}
	case float64:
		if v == 0 {
			return "", false
		}
	}
	return models.FormatScalar(raw)
}
