package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/wardrobe/app/models"
)

// VariantInput is one variant as clients send it. Quantity accepts a JSON
// number or a numeric string; an empty value means 0.
type VariantInput struct {
	Color    string      `json:"color"`
	Size     string      `json:"size"`
	Quantity json.Number `json:"quantity"`
}

// GenerateVariants returns the cross product of colors and sizes, colors in
// the outer loop. A pair present in prev keeps its quantity; new pairs start
// at 0. Blank and repeated colors or sizes are ignored.
func GenerateVariants(prev []models.Variant, colors, sizes []string) []models.Variant {
	known := make(map[variantKey]int64, len(prev))
	for _, v := range prev {
		known[keyOf(v.Color, v.Size)] = v.Quantity
	}

	colors = uniqueTrimmed(colors)
	sizes = uniqueTrimmed(sizes)

	out := make([]models.Variant, 0, len(colors)*len(sizes))
	for _, color := range colors {
		for _, size := range sizes {
			out = append(out, models.Variant{
				Color:    color,
				Size:     size,
				Quantity: known[keyOf(color, size)],
			})
		}
	}
	return out
}

// DecodeVariants parses the serialized variant list sent with a product
// form. Values are checked later by NormalizeVariants.
func DecodeVariants(raw string) ([]VariantInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyVariantSet
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var in []VariantInput
	if err := dec.Decode(&in); err != nil {
		return nil, detail(ErrInvalidVariant, "Variants must be a JSON array of {color, size, quantity}")
	}
	if in == nil {
		in = []VariantInput{}
	}
	return in, nil
}

// NormalizeVariants trims and validates in. The result is never empty and
// holds each (size, color) pair once.
func NormalizeVariants(in []VariantInput) ([]models.Variant, error) {
	if len(in) == 0 {
		return nil, ErrEmptyVariantSet
	}

	seen := make(map[variantKey]bool, len(in))
	out := make([]models.Variant, 0, len(in))

	for i, v := range in {
		color := strings.TrimSpace(v.Color)
		size := strings.TrimSpace(v.Size)
		if color == "" || size == "" {
			return nil, detail(ErrInvalidVariant, fmt.Sprintf("Variant %d needs a color and a size", i+1))
		}

		qty, err := parseQuantity(v.Quantity)
		if err != nil {
			return nil, detail(ErrInvalidVariant, fmt.Sprintf("Variant %d (%s/%s): %v", i+1, color, size, err))
		}

		k := keyOf(color, size)
		if seen[k] {
			return nil, detail(ErrInvalidVariant, fmt.Sprintf("Variant %s/%s is listed twice", color, size))
		}
		seen[k] = true

		out = append(out, models.Variant{Color: color, Size: size, Quantity: qty})
	}

	return out, nil
}

func parseQuantity(n json.Number) (int64, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0, nil
	}
	q, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not a whole number", s)
	}
	if q < 0 {
		return 0, fmt.Errorf("quantity must not be negative")
	}
	return q, nil
}

type variantKey struct{ color, size string }

func keyOf(color, size string) variantKey { return variantKey{color: color, size: size} }

func uniqueTrimmed(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// PlanVariants runs GenerateVariants for a client that sends its current
// variant rows alongside the selected colors and sizes.
func PlanVariants(prev []VariantInput, colors, sizes []string) ([]models.Variant, error) {
	var known []models.Variant
	if len(prev) > 0 {
		var err error
		if known, err = NormalizeVariants(prev); err != nil {
			return nil, err
		}
	}
	return GenerateVariants(known, colors, sizes), nil
}
