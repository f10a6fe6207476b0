package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
)

// Minimal internal validator to avoid external dependency. Supports:
// - required
// - username (letters, digits, underscore, hyphen, 3-100 chars)
// - shareok (ticker-style symbol, 1-20 chars)
// - pageid (comment-board page key, 1-100 chars)
// - pwdmin (min length 6)
// - eqfield=OtherField (field equals another field)

var (
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_-]{3,100}$`)
	reShareOK  = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,20}$`)
	rePageID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)
)

// ValidateStruct inspects struct tags `validate:"..."` and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		fv := v.Field(i)
		var sval string
		if fv.IsValid() && fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "required" {
				if sval == "" {
					return errors.New(field.Name + " is required")
				}
			} else if p == "username" {
				if sval != "" && !reUsername.MatchString(sval) {
					return errors.New(field.Name + " must be 3-100 letters, digits, underscore or hyphen")
				}
			} else if p == "shareok" {
				if sval != "" && !reShareOK.MatchString(sval) {
					return errors.New(field.Name + " is not a valid share symbol")
				}
			} else if p == "pageid" {
				if sval != "" && !rePageID.MatchString(sval) {
					return errors.New(field.Name + " is not a valid page id")
				}
			} else if p == "pwdmin" {
				if len(sval) < 6 {
					return errors.New(field.Name + " must be at least 6 characters")
				}
			} else if strings.HasPrefix(p, "eqfield=") {
				other := strings.TrimPrefix(p, "eqfield=")
				of := v.FieldByName(other)
				if of.IsValid() && of.Kind() == reflect.String {
					if sval != of.String() {
						return errors.New(field.Name + " must equal " + other)
					}
				}
			}
		}
	}
	return nil
}
