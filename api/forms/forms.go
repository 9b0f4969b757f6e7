// Package forms decodes and validates the application's HTML form posts.
// Validation failures come back as a field→message map rendered next to the
// offending input; messages are user-facing Portuguese.
package forms

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Login is the credential form.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Register is the vendor sign-up form.
type Register struct {
	FullName     string `form:"full_name" validate:"required,min=2"`
	SellingName  string `form:"selling_name" validate:"required,min=2"`
	Email        string `form:"email" validate:"required,email"`
	Password     string `form:"password" validate:"required,min=6"`
	Phone        string `form:"phone"`
	SaleLocation string `form:"sale_location"`
}

// Profile is the profile-edit form. NewPassword empty means "keep current".
type Profile struct {
	Email        string `form:"email" validate:"required,email"`
	FullName     string `form:"full_name" validate:"required,min=2"`
	SellingName  string `form:"selling_name" validate:"required,min=2"`
	Phone        string `form:"phone"`
	SaleLocation string `form:"sale_location"`
	Available    bool   `form:"available"`
	NewPassword  string `form:"new_password" validate:"omitempty,min=6"`
}

// Product is the create/edit product form. Price accepts the Brazilian
// comma decimal separator.
type Product struct {
	Name        string `form:"name" validate:"required,min=2"`
	PriceRaw    string `form:"price" validate:"required"`
	Description string `form:"description"`
	Available   bool   `form:"available"`

	Price decimal.Decimal `form:"-" validate:"-"`
}

// ResetRequest asks for the account email to mail a reset link to.
type ResetRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// ResetConfirm carries the new password and its confirmation. Equality of
// the two fields is checked by the auth service, not here.
type ResetConfirm struct {
	Password     string `form:"password" validate:"required,min=6"`
	Confirmation string `form:"confirmation" validate:"required"`
}

func ParseLogin(r *http.Request) (Login, map[string]string) {
	f := Login{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	return f, check(f)
}

func ParseRegister(r *http.Request) (Register, map[string]string) {
	f := Register{
		FullName:     strings.TrimSpace(r.PostFormValue("full_name")),
		SellingName:  strings.TrimSpace(r.PostFormValue("selling_name")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Password:     r.PostFormValue("password"),
		Phone:        strings.TrimSpace(r.PostFormValue("phone")),
		SaleLocation: strings.TrimSpace(r.PostFormValue("sale_location")),
	}
	return f, check(f)
}

func ParseProfile(r *http.Request) (Profile, map[string]string) {
	f := Profile{
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		FullName:     strings.TrimSpace(r.PostFormValue("full_name")),
		SellingName:  strings.TrimSpace(r.PostFormValue("selling_name")),
		Phone:        strings.TrimSpace(r.PostFormValue("phone")),
		SaleLocation: strings.TrimSpace(r.PostFormValue("sale_location")),
		Available:    checkbox(r, "available"),
		NewPassword:  r.PostFormValue("new_password"),
	}
	return f, check(f)
}

func ParseProduct(r *http.Request) (Product, map[string]string) {
	f := Product{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		PriceRaw:    strings.TrimSpace(r.PostFormValue("price")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Available:   checkbox(r, "available"),
	}
	errs := check(f)

	if f.PriceRaw != "" {
		price, err := ParsePrice(f.PriceRaw)
		if err != nil {
			if errs == nil {
				errs = map[string]string{}
			}
			errs["price"] = "preço inválido"
		} else {
			f.Price = price
		}
	}
	return f, errs
}

func ParseResetRequest(r *http.Request) (ResetRequest, map[string]string) {
	f := ResetRequest{Email: strings.TrimSpace(r.PostFormValue("email"))}
	return f, check(f)
}

func ParseResetConfirm(r *http.Request) (ResetConfirm, map[string]string) {
	f := ResetConfirm{
		Password:     r.PostFormValue("password"),
		Confirmation: r.PostFormValue("confirmation"),
	}
	return f, check(f)
}

// ParsePrice reads a two-decimal money value, accepting "12,50" and "12.50".
func ParsePrice(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	price, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %q", raw)
	}
	return price.Round(2), nil
}

func checkbox(r *http.Request, field string) bool {
	switch r.PostFormValue(field) {
	case "on", "true", "1":
		return true
	}
	return false
}

func check(form any) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_form": "dados inválidos"}
	}

	errs := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "min":
		return fmt.Sprintf("mínimo de %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("máximo de %s caracteres", fe.Param())
	default:
		return "valor inválido"
	}
}
