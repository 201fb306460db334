package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"courtly/internal/pkg/apperr"
)

var (
	validate = validator.New()

	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	hhmmRe  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("paymentmode", func(fl validator.FieldLevel) bool {
		return IsPaymentMode(fl.Field().String())
	})
	_ = validate.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := ParseCalendarDate(fl.Field().String(), time.UTC)
		return err == nil
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// First validates v and reports the first failing field in declaration order.
// messages is keyed by "field.tag" with "field" as a fallback.
func First(v interface{}, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return apperr.Validation(field, msg)
	}
	if msg, ok := messages[field]; ok {
		return apperr.Validation(field, msg)
	}
	return apperr.Validation(field, field+" is invalid")
}

// ParseCalendarDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// local midnight of that calendar day in loc.
func ParseCalendarDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseClock splits an HH:mm string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(padHour(s)))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func padHour(s string) string {
	if i := strings.IndexByte(s, ':'); i == 1 {
		return "0" + s
	}
	return s
}

func IsPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// PaymentModes lists the accepted modes of payment.
var PaymentModes = []string{"card", "upi", "cash"}

func IsPaymentMode(s string) bool {
	for _, m := range PaymentModes {
		if s == m {
			return true
		}
	}
	return false
}
