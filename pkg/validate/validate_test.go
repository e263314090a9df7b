package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/wardrobe/pkg/validate"
)

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"nullable,in=user|admin"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Username: "john_doe",
		Email:    "john@example.com",
		Password: "secret123",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	for _, field := range []string{"username", "email", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if _, ok := errs["role"]; ok {
		t.Error("nullable role should be skipped when empty")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); errs["email"] == "" {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	if errs := validate.Struct(registerInput{Username: "abc", Email: "a@b.co", Password: "secret", Role: "owner"}); errs["role"] == "" {
		t.Error("expected role outside the allowed set to fail")
	}
	if errs := validate.Struct(registerInput{Username: "abc", Email: "a@b.co", Password: "secret", Role: "admin"}); validate.HasErrors(errs) {
		t.Errorf("expected admin to pass, got: %v", errs)
	}
}

func TestNumericStringBounds(t *testing.T) {
	type in struct {
		Price string `form:"price" validate:"required,numeric,gte=0"`
	}
	if errs := validate.Struct(in{Price: "abc"}); errs["price"] == "" {
		t.Error("expected non-numeric price to fail")
	}
	if errs := validate.Struct(in{Price: "-1"}); errs["price"] == "" {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{Price: "19.90"}); validate.HasErrors(errs) {
		t.Errorf("expected 19.90 to pass, got: %v", errs)
	}
}

func TestPointerFields(t *testing.T) {
	type patch struct {
		Serial *string `form:"serial_number" validate:"nullable,min=1,max=5"`
	}
	if errs := validate.Struct(patch{}); validate.HasErrors(errs) {
		t.Errorf("nil pointer should be skipped, got: %v", errs)
	}
	long := "ABCDEFG"
	if errs := validate.Struct(patch{Serial: &long}); errs["serial_number"] == "" {
		t.Error("expected dereferenced value to be checked")
	}
}

func TestJSONRule(t *testing.T) {
	type in struct {
		Variants string `form:"variants" validate:"required,json"`
	}
	if errs := validate.Struct(in{Variants: "[{"}); errs["variants"] == "" {
		t.Error("expected malformed JSON to fail")
	}
	if errs := validate.Struct(in{Variants: `[{"size":"M"}]`}); validate.HasErrors(errs) {
		t.Errorf("expected JSON array to pass, got: %v", errs)
	}
}
