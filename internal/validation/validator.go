// Package validation wraps go-playground/validator with the custom rules of
// the review platform and translates failures into apperror values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"yamdb/internal/apperror"
	"yamdb/internal/models"

	"github.com/go-playground/validator/v10"
)

// ReservedUsername cannot be registered because /users/me is a route.
const ReservedUsername = "me"

// ScoreMessage is reported for any out-of-range review score.
var ScoreMessage = fmt.Sprintf("score must be between %d and %d", models.MinScore, models.MaxScore)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	validate     *validator.Validate
	validateOnce sync.Once

	// Now is the clock used by the notfutureyear rule.
	Now = time.Now
)

// Get returns the shared validator instance.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		mustRegister("username", validUsername)
		mustRegister("slug", validSlug)
		mustRegister("notfutureyear", notFutureYear)
		mustRegister("role", validRole)
		mustRegister("score", validScore)
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// IsValidUsername reports whether s is an allowed username.
func IsValidUsername(s string) bool {
	return usernamePattern.MatchString(s) && !strings.EqualFold(s, ReservedUsername)
}

func validUsername(fl validator.FieldLevel) bool {
	return IsValidUsername(fl.Field().String())
}

func validSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func notFutureYear(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(Now().Year())
}

func validRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validScore(fl validator.FieldLevel) bool {
	score := fl.Field().Int()
	return score >= models.MinScore && score <= models.MaxScore
}

// Struct validates s and returns an *apperror.Error of kind validation, or nil.
func Struct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperror.Validation(err.Error(), nil)
	}

	fields := make(map[string]string, len(validationErrs))
	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msg := translate(fe)
		fields[fe.Field()] = msg
		messages = append(messages, msg)
	}
	return apperror.Validation(strings.Join(messages, "; "), fields)
}

var messageTemplates = map[string]string{
	"required":      "%s is required",
	"email":         "%s must be a valid email address",
	"username":      "%s may contain only letters, digits and @/./+/-/_ and must not be \"me\"",
	"slug":          "%s may contain only latin letters, digits, hyphens and underscores",
	"notfutureyear": "%s must not be later than the current year",
	"role":          "%s must be one of: user, moderator, admin",
}

var messageWithParam = map[string]string{
	"max": "%s must be at most %s characters long",
	"min": "%s must be at least %s characters long",
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	if fe.Tag() == "score" {
		return ScoreMessage
	}
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if numeric(fe.Kind()) {
		switch fe.Tag() {
		case "min":
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		}
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
