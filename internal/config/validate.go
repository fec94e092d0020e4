package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError lists every invalid field with an English message.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		msgs = append(msgs, m)
	}
	slices.Sort(msgs)
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

type structValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	sharedOnce      sync.Once
	sharedValidator *structValidator
)

func newStructValidator() *structValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Report config keys, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &structValidator{validate: v, trans: trans}
}

// Validate checks s against its `validate` tags.
func Validate(s any) error {
	sharedOnce.Do(func() { sharedValidator = newStructValidator() })

	err := sharedValidator.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Namespace()] = e.Translate(sharedValidator.trans)
	}
	return &FieldError{Fields: fields}
}
