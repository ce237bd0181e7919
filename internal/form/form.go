// Package form models the per-field state of an editable form: values,
// validation rules, and the touched/dirty flags that gate when errors are
// shown to the user.
package form

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Rule tags reported by FieldError.
const (
	RuleRequired  = "required"
	RuleMinLength = "min"
	RuleEmail     = "email"
	RuleNotFuture = "notfuture"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// A date value must not lie strictly after today, today truncated to
	// midnight local time. Empty or unparseable values pass; required
	// handles absence.
	v.RegisterValidation(RuleNotFuture, func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		d, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			return true
		}
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		return !d.After(today)
	})
	return v
}

// Field holds one control's value and interaction state.
type Field struct {
	value   string
	rules   string
	touched bool
	dirty   bool
}

// Form is an ordered collection of fields with conjunctive validity.
type Form struct {
	order    []string
	fields   map[string]*Field
	defaults map[string]string
}

// New creates an empty form.
func New() *Form {
	return &Form{
		fields:   make(map[string]*Field),
		defaults: make(map[string]string),
	}
}

// Add declares a field with its validation rules, empty by default.
// Rules use go-playground tag syntax, e.g. "required,min=2".
func (f *Form) Add(name, rules string) *Form {
	return f.AddWithDefault(name, "", rules)
}

// AddWithDefault declares a field whose reset value is def.
func (f *Form) AddWithDefault(name, def, rules string) *Form {
	if _, ok := f.fields[name]; !ok {
		f.order = append(f.order, name)
	}
	f.fields[name] = &Field{value: def, rules: rules}
	f.defaults[name] = def
	return f
}

// Set writes a value as user input, marking the field dirty.
func (f *Form) Set(name, value string) {
	if fld, ok := f.fields[name]; ok {
		fld.value = value
		fld.dirty = true
	}
}

// Patch loads values programmatically (e.g. from a fetched entity) without
// marking fields dirty or touched.
func (f *Form) Patch(values map[string]string) {
	for name, value := range values {
		if fld, ok := f.fields[name]; ok {
			fld.value = value
		}
	}
}

// Get returns the current value of a field.
func (f *Form) Get(name string) string {
	if fld, ok := f.fields[name]; ok {
		return fld.value
	}
	return ""
}

// Touch marks a field as interacted with.
func (f *Form) Touch(name string) {
	if fld, ok := f.fields[name]; ok {
		fld.touched = true
	}
}

// TouchAll marks every field touched; called on a rejected submit so all
// errors become visible.
func (f *Form) TouchAll() {
	for _, fld := range f.fields {
		fld.touched = true
	}
}

// Reset restores every field to its default value and clears all flags.
func (f *Form) Reset() {
	for name, fld := range f.fields {
		fld.value = f.defaults[name]
		fld.touched = false
		fld.dirty = false
	}
}

// FieldError evaluates a field's rules and returns the failing rule tag, or
// "" when the value passes. The tag distinguishes a missing value from a
// future date or a short name.
func (f *Form) FieldError(name string) string {
	fld, ok := f.fields[name]
	if !ok || fld.rules == "" {
		return ""
	}
	err := validate.Var(fld.value, fld.rules)
	if err == nil {
		return ""
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return RuleRequired
}

// Invalid reports whether a field's error should be displayed: it fails a
// rule and has been touched or edited. Never true on initial render.
func (f *Form) Invalid(name string) bool {
	fld, ok := f.fields[name]
	if !ok {
		return false
	}
	return f.FieldError(name) != "" && (fld.touched || fld.dirty)
}

// Valid reports whether every field passes its rules.
func (f *Form) Valid() bool {
	for _, name := range f.order {
		if f.FieldError(name) != "" {
			return false
		}
	}
	return true
}

// Values snapshots all current values.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for name, fld := range f.fields {
		out[name] = fld.value
	}
	return out
}

// Float parses a field as a number, nil when empty or unparseable.
func (f *Form) Float(name string) *float64 {
	v := strings.TrimSpace(f.Get(name))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &n
}

// Int parses a field as an integer, nil when empty or unparseable.
func (f *Form) Int(name string) *int {
	v := strings.TrimSpace(f.Get(name))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
