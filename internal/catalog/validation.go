package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	cnicTag     = "cnic"
	phoneTag    = "phone"

	cnicRegex  = regexp.MustCompile(`^\d{5}-\d{7}-\d$`)
	phoneRegex = regexp.MustCompile(`^\+?\d{7,15}$`)
)

func init() {
	validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(cnicTag, regexValidation(cnicRegex))
	_ = validate.RegisterValidation(phoneTag, regexValidation(phoneRegex))

	registerCustomTranslations(map[string]string{
		notBlankTag: "cannot be blank",
		cnicTag:     "must be a CNIC in the form 00000-0000000-0",
		phoneTag:    "must be a phone number of 7 to 15 digits",
	})
}

// registerCustomTranslations registers messages for the custom tags.
// RegisterTranslation needs a register func, but the default translations
// are already in place, so a noop is passed.
func registerCustomTranslations(texts map[string]string) {
	registerFn := func(ut.Translator) error { return nil }
	for tag, text := range texts {
		_ = validate.RegisterTranslation(tag, translator, registerFn,
			func(ut.Translator, validator.FieldError) string { return text })
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func regexValidation(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(str)
	}
}

// CheckValue validates one normalized value against a field and returns a
// message such as "Email must be a valid email address".
func CheckValue(f Field, value string) error {
	if f.Rules != "" {
		if err := validate.Var(value, f.Rules); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				return fmt.Errorf("%s %s", f.Label, strings.TrimSpace(fieldErrs[0].Translate(translator)))
			}
			return fmt.Errorf("%s: invalid rule %q: %w", f.Label, f.Rules, err)
		}
	}

	if value == "" {
		return nil
	}
	if err := checkType(f, value); err != nil {
		return fmt.Errorf("%s %s", f.Label, err.Error())
	}
	return nil
}

func checkType(f Field, value string) error {
	switch f.Type {
	case FieldNumeric:
		if !ToPgNumeric(value).Valid {
			return errors.New("must be a number")
		}
	case FieldInt:
		if !ToPgInt8(value).Valid {
			return errors.New("must be a whole number")
		}
	case FieldDate:
		if !ToPgDate(value).Valid {
			return errors.New("must be a date (use YYYY-MM-DD or DD/MM/YYYY)")
		}
	case FieldBool:
		if !ToPgBool(value).Valid {
			return errors.New("must be yes/no, true/false, or 1/0")
		}
	case FieldEnum:
		for _, ev := range f.EnumValues {
			if strings.EqualFold(ev, value) {
				return nil
			}
		}
		return fmt.Errorf("must be one of: %s", strings.Join(f.EnumValues, ", "))
	}
	return nil
}

// Validator returns the row validator used by imports of the entity. The
// first failing field is reported as "Row N: {Label} {reason}".
func (d Definition) Validator() porter.RowValidator {
	return func(row porter.Row, index int) error {
		for _, f := range d.Fields {
			if err := CheckValue(f, d.normalized(f, row)); err != nil {
				return porter.RejectRow(index, "%s", err.Error())
			}
		}
		return nil
	}
}

// ValidateAll reports every failing field of row.
func (d Definition) ValidateAll(row porter.Row) []error {
	var errs []error
	for _, f := range d.Fields {
		if err := CheckValue(f, d.normalized(f, row)); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// DetailedValidator reports every failing field of a row in one message,
// e.g. "Row 3: Name is a required field; Code must contain only
// alphanumeric characters". Validation-only runs use it.
func (d Definition) DetailedValidator() porter.RowValidator {
	return func(row porter.Row, index int) error {
		errs := d.ValidateAll(row)
		if len(errs) == 0 {
			return nil
		}
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return porter.RejectRow(index, "%s", strings.Join(msgs, "; "))
	}
}
