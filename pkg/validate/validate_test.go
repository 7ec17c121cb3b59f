package validate_test

import (
	"testing"

	"github.com/dlatelier/storefront/pkg/validate"
)

type addItemInput struct {
	ProductSlug string `json:"product_slug" validate:"required,alpha_dash,max=100"`
	Quantity    int    `json:"quantity"     validate:"nullable,integer,gte=1"`
	Size        string `json:"size"         validate:"nullable,in=XS,S,M,L,XL"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(addItemInput{ProductSlug: "linen-shirt", Quantity: 2, Size: "M"})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(addItemInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if _, ok := errs["product_slug"]; !ok {
		t.Error("expected product_slug to be required")
	}
}

func TestInRuleKeepsMultiValueParam(t *testing.T) {
	errs := validate.Struct(addItemInput{ProductSlug: "x", Size: "XXL"})
	if _, ok := errs["size"]; !ok {
		t.Error("expected invalid size to fail the in rule")
	}
	errs = validate.Struct(addItemInput{ProductSlug: "x", Size: "XL"})
	if _, ok := errs["size"]; ok {
		t.Errorf("expected XL to pass, got: %v", errs["size"])
	}
}

func TestNullableSkipsRules(t *testing.T) {
	// Quantity zero is nullable, so gte=1 must not fire.
	errs := validate.Struct(addItemInput{ProductSlug: "x"})
	if _, ok := errs["quantity"]; ok {
		t.Errorf("expected zero nullable quantity to pass: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Qty int `json:"qty" validate:"required,gte=1,lte=99"`
	}
	if errs := validate.Struct(in{Qty: 100}); !validate.HasErrors(errs) {
		t.Error("expected qty > 99 to fail")
	}
	if errs := validate.Struct(in{Qty: 5}); validate.HasErrors(errs) {
		t.Errorf("expected qty 5 to pass, got: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}
