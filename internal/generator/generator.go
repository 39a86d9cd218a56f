// Package generator defines the contract shared by all documentation
// generators: produce markdown fragments for a source file (and optionally
// a single symbol inside it), after validating a loosely-typed options
// mapping against a declarative schema.
package generator

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// ErrInvalidOptions marks option-validation failures: unknown keys, wrong
// value types. Wrapped errors name the offending key.
var ErrInvalidOptions = errors.New("invalid generator options")

// Options is a fully-defaulted, validated options mapping. Every key the
// generator recognizes is present with a value of the declared type.
type Options map[string]any

// Bool returns the boolean option value for key.
func (o Options) Bool(key string) bool {
	v, _ := o[key].(bool)
	return v
}

// Int returns the integer option value for key.
func (o Options) Int(key string) int {
	v, _ := o[key].(int)
	return v
}

// String returns the string option value for key.
func (o Options) String(key string) string {
	v, _ := o[key].(string)
	return v
}

// Generator turns a source file into an ordered sequence of markdown
// fragments. Implementations register themselves with Register.
type Generator interface {
	// ValidateOptions turns a raw options mapping into a fully-defaulted
	// Options value. Unknown keys and wrong value types are errors.
	ValidateOptions(raw map[string]any) (Options, error)

	// Generate reads the source file at path and renders markdown fragments
	// for the named symbol (dot-separated path), or for the whole file when
	// symbol is empty. A symbol that cannot be located yields an empty
	// result, not an error.
	Generate(fsys afero.Fs, path, symbol string, opts Options) ([]string, error)
}

// FieldKind is the declared type of a schema field.
type FieldKind int

const (
	StringField FieldKind = iota
	IntField
	BoolField
)

func (k FieldKind) String() string {
	switch k {
	case StringField:
		return "string"
	case IntField:
		return "int"
	case BoolField:
		return "bool"
	}
	return "unknown"
}

// Field declares a single recognized option key.
type Field struct {
	Name    string
	Kind    FieldKind
	Default any
}

// Schema declares the option keys a generator recognizes, with defaults.
type Schema struct {
	fields map[string]Field
}

// NewSchema builds a schema from field declarations.
func NewSchema(fields ...Field) *Schema {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return &Schema{fields: m}
}

// Validate checks raw against the schema and returns a fully-defaulted
// copy. Validating an already-validated mapping returns an equal mapping.
func (s *Schema) Validate(raw map[string]any) (Options, error) {
	out := make(Options, len(s.fields))

	for key, value := range raw {
		f, ok := s.fields[key]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidOptions, "unknown option %q", key)
		}
		coerced, ok := coerce(value, f.Kind)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidOptions, "option %q: expected %s, got %T", key, f.Kind, value)
		}
		out[key] = coerced
	}

	for name, f := range s.fields {
		if _, ok := out[name]; !ok {
			out[name] = f.Default
		}
	}
	return out, nil
}

// Keys returns the recognized option names in sorted order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func coerce(value any, kind FieldKind) (any, bool) {
	switch kind {
	case StringField:
		v, ok := value.(string)
		return v, ok
	case BoolField:
		v, ok := value.(bool)
		return v, ok
	case IntField:
		switch v := value.(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		}
		return 0, false
	}
	return nil, false
}
