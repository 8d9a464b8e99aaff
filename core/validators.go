package core

import (
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	identTag   = "ident"
	identText  = "only letters, digits and the characters _ - . / are allowed"
	identRegex = regexp.MustCompile(`^[\w./-]+$`)

	requiredTag  = "required"
	requiredText = "this field is required"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// register custom validators
	_ = Validate.RegisterValidation(identTag, identValidation)
	RegisterCustomTranslation(identTag, identText)

	RegisterCustomTranslation(requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateVar checks a single operator-supplied value against the tag and
// reports the first failure as a ValidationError on `field`.
func ValidateVar(field, value, tag string) error {
	err := Validate.Var(value, tag)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	msg := verrs[0].Translate(Translator)
	return &ValidationError{
		Err:    ErrInvalidInput,
		Msg:    "invalid " + field + ": " + msg,
		Fields: []FieldError{{Field: field, Error: msg}},
	}
}

// Custom Global Validators

// identValidation only allows identifier-like values (no whitespace).
func identValidation(fl validator.FieldLevel) bool {
	return identRegex.MatchString(fl.Field().String())
}
