// Package validate checks struct fields against rules declared in a
// `validate` tag.
//
// Supported rules (comma-separated):
//
//	required      field must not be zero/empty
//	nullable      skip remaining rules when the field is empty
//	email         valid email address
//	json          valid JSON document
//	numeric       any decimal number
//	integer       whole number
//	alpha_dash    letters, digits, hyphens, underscores
//	min=N         string: min char length | number: min value
//	max=N         string: max char length | number: max value
//	gte=N         number (or numeric string) >= N
//	lte=N         number (or numeric string) <= N
//	in=a|b|c      value must be one of the listed items
//
// Pointer fields are dereferenced; a nil pointer counts as empty, which makes
// optional partial-update inputs pair naturally with `nullable`.
//
// Error keys come from the json tag, then the form tag, then the lower-cased
// field name.
package validate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

type rule func(field, param string, v reflect.Value) string

var rules map[string]rule

func init() {
	rules = map[string]rule{
		"required":   required,
		"email":      email,
		"json":       validJSON,
		"numeric":    numeric,
		"integer":    integer,
		"alpha_dash": alphaDash,
		"min":        minRule,
		"max":        maxRule,
		"gte":        gte,
		"lte":        lte,
		"in":         in,
	}
}

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of field name to the first failing rule's message.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := FieldName(field)
		value := deref(rv.Field(i))
		parts := strings.Split(tag, ",")

		if contains(parts, "nullable") && isEmpty(value) {
			continue
		}

		for _, part := range parts {
			key, param, _ := strings.Cut(strings.TrimSpace(part), "=")
			if key == "nullable" {
				continue
			}
			fn, ok := rules[key]
			if !ok {
				panic(fmt.Sprintf("validate: unknown rule %q on %s", key, field.Name))
			}
			if msg := fn(name, param, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// FieldName is the external name used for f in error maps.
func FieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// ─── Rules ───────────────────────────────────────────────────────────────────

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func required(field, _ string, v reflect.Value) string {
	if isEmpty(v) {
		return fmt.Sprintf("The %s field is required.", field)
	}
	return ""
}

func email(field, _ string, v reflect.Value) string {
	if !emailRE.MatchString(text(v)) {
		return fmt.Sprintf("The %s must be a valid email address.", field)
	}
	return ""
}

func validJSON(field, _ string, v reflect.Value) string {
	if !json.Valid([]byte(text(v))) {
		return fmt.Sprintf("The %s must be a valid JSON string.", field)
	}
	return ""
}

func numeric(field, _ string, v reflect.Value) string {
	if isNumericKind(v) {
		return ""
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(text(v)), 64); err != nil {
		return fmt.Sprintf("The %s field must be a number.", field)
	}
	return ""
}

func integer(field, _ string, v reflect.Value) string {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ""
	}
	if _, err := strconv.ParseInt(strings.TrimSpace(text(v)), 10, 64); err != nil {
		return fmt.Sprintf("The %s field must be an integer.", field)
	}
	return ""
}

func alphaDash(field, _ string, v reflect.Value) string {
	for _, c := range text(v) {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
			return fmt.Sprintf("The %s field may only contain letters, numbers, dashes and underscores.", field)
		}
	}
	return ""
}

func minRule(field, param string, v reflect.Value) string {
	n := parseFloat(param)
	if isNumericKind(v) {
		if toFloat(v) < n {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		return ""
	}
	if float64(len([]rune(text(v)))) < n {
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	}
	return ""
}

func maxRule(field, param string, v reflect.Value) string {
	n := parseFloat(param)
	if isNumericKind(v) {
		if toFloat(v) > n {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
		return ""
	}
	if float64(len([]rune(text(v)))) > n {
		return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
	}
	return ""
}

func gte(field, param string, v reflect.Value) string {
	if f, ok := number(v); !ok || f < parseFloat(param) {
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	}
	return ""
}

func lte(field, param string, v reflect.Value) string {
	if f, ok := number(v); !ok || f > parseFloat(param) {
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	}
	return ""
}

func in(field, param string, v reflect.Value) string {
	raw := text(v)
	for _, allowed := range strings.Split(param, "|") {
		if raw == strings.TrimSpace(allowed) {
			return ""
		}
	}
	return fmt.Sprintf("The selected %s is invalid.", field)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return 0
}

func number(v reflect.Value) (float64, bool) {
	if isNumericKind(v) {
		return toFloat(v), true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text(v)), 64)
	return f, err == nil
}

func text(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func contains(parts []string, target string) bool {
	for _, p := range parts {
		if strings.TrimSpace(p) == target {
			return true
		}
	}
	return false
}
