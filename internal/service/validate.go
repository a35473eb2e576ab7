package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"agcbo/internal/entity/db"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{3,150}$`)

// validate checks the `validate` tags on request structs. Failures are
// reported under the json name of the field.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "department", func(fl validator.FieldLevel) bool {
		return db.ValidDepartment(fl.Field().String())
	})
	mustRegister(v, "payment_method", func(fl validator.FieldLevel) bool {
		return oneOf(fl.Field().String(), db.PaymentMethods)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

var tagMessages = map[string]string{
	"required":       "this field is required",
	"email":          "enter a valid email address",
	"username":       "use 3-150 letters, digits and @/./+/-/_ only",
	"department":     "select a valid department",
	"payment_method": "invalid payment method",
	"gt":             "must be greater than zero",
}

// checkStruct runs the tag rules of s and adds one message per failing
// field to v. messages overrides the default text, keyed by "field.tag".
func checkStruct(v *ValidationError, s interface{}, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}
	for _, fe := range failures {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			if msg, ok = tagMessages[fe.Tag()]; !ok {
				msg = "invalid value"
			}
		}
		v.Add(fe.Field(), msg)
	}
	return nil
}

// validEmail checks an optional address.
func validEmail(v *ValidationError, field, value string) {
	if value == "" {
		return
	}
	if validate.Var(value, "email") != nil {
		v.Add(field, tagMessages["email"])
	}
}
