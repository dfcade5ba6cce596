package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
)

const (
	substancePrefix = "substance_"
	blendPrefix     = "blend_"
)

// SubstanceKey encodes a substance id as a composite option key.
func SubstanceKey(id int) string { return substancePrefix + strconv.Itoa(id) }

// BlendKey encodes a blend id as a composite option key.
func BlendKey(id int) string { return blendPrefix + strconv.Itoa(id) }

// ParseSubstanceKey splits a composite key into its kind and id.
func ParseSubstanceKey(key string) (isBlend bool, id int, err error) {
	var raw string
	switch {
	case strings.HasPrefix(key, substancePrefix):
		raw = strings.TrimPrefix(key, substancePrefix)
	case strings.HasPrefix(key, blendPrefix):
		isBlend = true
		raw = strings.TrimPrefix(key, blendPrefix)
	default:
		return false, 0, fmt.Errorf("invalid substance key %q", key)
	}
	id, err = strconv.Atoi(raw)
	if err != nil {
		return false, 0, fmt.Errorf("invalid substance key %q: %w", key, err)
	}
	return isBlend, id, nil
}

// ChooseSubstance applies a composite key to a row: exactly one of
// ods_substance/ods_blend ends up set. An empty key clears both.
func ChooseSubstance(row domain.Values, key string) (domain.Values, error) {
	out := row.Clone()
	if key == "" {
		out[fields.FieldSubstance] = nil
		out[fields.FieldBlend] = nil
		out[fields.FieldSubstanceChoice] = nil
		return out, nil
	}
	isBlend, id, err := ParseSubstanceKey(key)
	if err != nil {
		return row, err
	}
	if isBlend {
		out[fields.FieldSubstance] = nil
		out[fields.FieldBlend] = id
	} else {
		out[fields.FieldSubstance] = id
		out[fields.FieldBlend] = nil
	}
	out[fields.FieldSubstanceChoice] = key
	return out, nil
}

// CurrentSubstanceKey reads the composite key back from a row.
func CurrentSubstanceKey(row domain.Values) string {
	if id, ok := domain.NormalizeID(row[fields.FieldSubstance]).(int); ok {
		return SubstanceKey(id)
	}
	if id, ok := domain.NormalizeID(row[fields.FieldBlend]).(int); ok {
		return BlendKey(id)
	}
	return ""
}

// SubstanceOptions builds the composite option list from separate substance
// and blend lookups.
func SubstanceOptions(substances, blends []domain.Option) []domain.Option {
	out := make([]domain.Option, 0, len(substances)+len(blends))
	for _, s := range substances {
		if id, ok := domain.NormalizeID(s.ID).(int); ok {
			out = append(out, domain.Option{ID: SubstanceKey(id), Name: s.Name})
		}
	}
	for _, b := range blends {
		if id, ok := domain.NormalizeID(b.ID).(int); ok {
			out = append(out, domain.Option{ID: BlendKey(id), Name: b.Name})
		}
	}
	return out
}
