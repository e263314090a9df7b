// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/shashiranjanraj/wardrobe/config"
	"github.com/shashiranjanraj/wardrobe/pkg/validate"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before file parts spill to temporary files.
const multipartMemory = 8 << 20

// ErrTooLarge is returned when the body exceeds MAX_BODY_BYTES.
var ErrTooLarge = errors.New("request body too large")

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return check(dest), nil
}

// Form parses a multipart or url-encoded body and copies fields tagged
// `form:"name"` into dest. String fields receive the value when present;
// *string fields stay nil when the field is absent, which lets callers tell
// "omitted" from "sent empty". Validation runs afterwards.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if err := ParseForm(r); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: dest must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}

		values, ok := r.Form[name]
		if !ok || len(values) == 0 {
			continue
		}
		value := values[0]

		target := rv.Field(i)
		switch {
		case target.Kind() == reflect.String:
			target.SetString(value)
		case target.Kind() == reflect.Ptr && target.Type().Elem().Kind() == reflect.String:
			v := value
			target.Set(reflect.ValueOf(&v))
		default:
			return nil, fmt.Errorf("bind: unsupported form field type %s for %q", target.Type(), name)
		}
	}

	return check(dest), nil
}

// ParseForm caps the body at MAX_BODY_BYTES and parses it as multipart when
// the content type says so, or as a url-encoded form otherwise.
func ParseForm(r *http.Request) error {
	if r.Form != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("invalid form body: %w", err)
	}
	return nil
}

// File returns the first uploaded file for field, or nil when none was sent.
func File(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func check(dest interface{}) map[string]string {
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs
	}
	return nil
}
