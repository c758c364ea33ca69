package validate

import (
	"regexp"
	"unicode/utf8"
)

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

// Validator collects field errors; the first message per field wins.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) Check(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.Errors[key]; !ok {
		v.Errors[key] = msg
	}
}

func (v *Validator) CheckLength(value, key string, min, max int) {
	n := utf8.RuneCountInString(value)
	v.Check(n >= min, key, "is too short")
	v.Check(n <= max, key, "is too long")
}

func (v *Validator) CheckEmail(email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(emailRegexp.MatchString(email), "email", "must be a valid email address")
}

func (v *Validator) CheckPassword(password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(password) <= 100, "password", "must be at most 100 characters long")
}
