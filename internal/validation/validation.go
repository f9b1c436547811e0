// Package validation checks the shape of incoming request bodies. Every
// validator is pure and returns a field→message map.
package validation

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// Result is the outcome of a validator. IsValid is true iff Errors is empty.
type Result struct {
	Errors  map[string]string
	IsValid bool
}

type checker struct {
	errors map[string]string
}

func newChecker() *checker {
	return &checker{errors: map[string]string{}}
}

func (c *checker) result() Result {
	return Result{Errors: c.errors, IsValid: len(c.errors) == 0}
}

// fail records msg for field unless an earlier check already did.
func (c *checker) fail(field, msg string) {
	if _, ok := c.errors[field]; !ok {
		c.errors[field] = msg
	}
}

func (c *checker) required(field, value, msg string) bool {
	if isEmpty(value) {
		c.fail(field, msg)
		return false
	}
	return true
}

func (c *checker) length(field, value string, min, max int, msg string) {
	if n := utf8.RuneCountInString(value); n < min || n > max {
		c.fail(field, msg)
	}
}

func (c *checker) url(field, value string) {
	if !isEmpty(value) && !govalidator.IsURL(value) {
		c.fail(field, "Not a valid URL")
	}
}

func (c *checker) date(field, value, msg string) {
	if !isEmpty(value) {
		if _, err := ParseDate(value); err != nil {
			c.fail(field, msg)
		}
	}
}

func isEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var errBadDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// ParseDate accepts the two date layouts the client sends.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, errBadDate
}
