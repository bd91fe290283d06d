package web

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// ValidateFields reports which of the named fields of the struct pointed to
// by request hold their zero value. A field matches by Go name, json tag or
// form tag. An empty string or nil pointer counts as missing; a pointer to a
// zero number does not.
func ValidateFields(request interface{}, fields ...string) error {
	v := reflect.ValueOf(request)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return NewRequestError(errors.New("empty request"), http.StatusBadRequest)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var missing []string
	for _, group := range fields {
		for _, name := range strings.Split(group, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			field, label, ok := lookupField(v, name)
			if !ok {
				return NewRequestError(fmt.Errorf("unknown field %q", name), http.StatusInternalServerError)
			}
			if isMissing(field) {
				missing = append(missing, label)
			}
		}
	}

	if len(missing) > 0 {
		return NewRequestError(fmt.Errorf("required fields are missing: %s", strings.Join(missing, ", ")), http.StatusBadRequest)
	}
	return nil
}

func lookupField(v reflect.Value, name string) (reflect.Value, string, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		label := tagName(sf.Tag.Get("json"))
		if label == "" {
			label = sf.Name
		}
		if sf.Name == name || tagName(sf.Tag.Get("json")) == name || tagName(sf.Tag.Get("form")) == name {
			return v.Field(i), label, true
		}
	}
	return reflect.Value{}, "", false
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// isMissing applies the validator's required rule. Strings are trimmed
// first; a non-nil pointer to a non-string counts as present, so lat=0 sent
// as *float64 passes.
func isMissing(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.Ptr:
		if field.IsNil() {
			return true
		}
		if field.Elem().Kind() == reflect.String {
			return validate.Var(strings.TrimSpace(field.Elem().String()), "required") != nil
		}
		return false
	case reflect.String:
		return validate.Var(strings.TrimSpace(field.String()), "required") != nil
	default:
		return validate.Var(field.Interface(), "required") != nil
	}
}
