package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

var (
	validate    *validator.Validate
	translator  ut.Translator
	initOnce    sync.Once
	errValidate error
)

func initValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register positive_decimal: %w", err)
	}

	eng := en.New()
	uni := ut.New(eng, eng)
	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, nil, errors.New("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register translations: %w", err)
	}
	if err := v.RegisterTranslation("positive_decimal", trans,
		func(ut ut.Translator) error {
			return ut.Add("positive_decimal", "{0} must be a positive amount", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("positive_decimal", fe.Field())
			return msg
		},
	); err != nil {
		return nil, nil, fmt.Errorf("failed to register positive_decimal translation: %w", err)
	}

	return v, trans, nil
}

// validateRequest checks msg against its validate tags. Failures wrap
// ErrInvalidArgument and carry the translated field messages.
func validateRequest(msg any) error {
	initOnce.Do(func() {
		validate, translator, errValidate = initValidator()
	})
	if errValidate != nil {
		return errValidate
	}

	err := validate.Struct(msg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fe.Translate(translator)
	}
	return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.Join(msgs, "; "))
}
