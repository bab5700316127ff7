package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	isbnPattern          = regexp.MustCompile(`^[\d\-X]*$`)
	readingLengthPattern = regexp.MustCompile(`^\d+h\s*\d*m?$|^\d+m$`)
)

type checker struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	shared     *checker
	sharedErr  error
	sharedOnce sync.Once
)

func defaultChecker() (*checker, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = newChecker()
	})
	return shared, sharedErr
}

func newChecker() (*checker, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("db"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := []struct {
		tag     string
		pattern *regexp.Regexp
		message string
	}{
		{tag: "isbn_chars", pattern: isbnPattern, message: "{0} may only contain digits, dashes and X"},
		{tag: "reading_length", pattern: readingLengthPattern, message: "{0} must look like 2h 30m or 45m"},
	}
	for _, c := range custom {
		pattern := c.pattern
		if err := validate.RegisterValidation(c.tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		}); err != nil {
			return nil, fmt.Errorf("failed to register %s validation: %w", c.tag, err)
		}
		tag, message := c.tag, c.message
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			return nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return &checker{validate: validate, trans: trans}, nil
}

// Check runs the struct bounds declared in validate tags and records each
// violation under the field's column name. Fields that already failed
// coercion keep their first message.
func Check(patch any, errs FieldErrors) error {
	c, err := defaultChecker()
	if err != nil {
		return err
	}
	err = c.validate.Struct(patch)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	for _, fe := range invalid {
		errs.Add(fe.Field(), fe.Translate(c.trans))
	}
	return nil
}
