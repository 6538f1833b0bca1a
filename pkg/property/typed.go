package property

import (
	"strconv"
	"strings"
)

// codec converts between a typed value and its string form.
type codec[T any] struct {
	typeName string
	parse    func(string) (T, error)
	format   func(T) string
}

// Typed is a property holding a value of type T.
type Typed[T any] struct {
	name      string
	doc       string
	dir       Direction
	value     T
	isDefault bool
	validator Validator[T]
	codec     codec[T]
}

// Option configures a Typed property.
type Option[T any] func(*Typed[T])

// WithValidator attaches a validator.
func WithValidator[T any](v Validator[T]) Option[T] {
	return func(p *Typed[T]) { p.validator = v }
}

// WithDoc sets the help text.
func WithDoc[T any](doc string) Option[T] {
	return func(p *Typed[T]) { p.doc = doc }
}

// WithDirection overrides the default Input direction.
func WithDirection[T any](dir Direction) Option[T] {
	return func(p *Typed[T]) { p.dir = dir }
}

func newTyped[T any](name string, def T, c codec[T], opts []Option[T]) *Typed[T] {
	p := &Typed[T]{
		name:      name,
		dir:       Input,
		value:     def,
		isDefault: true,
		codec:     c,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewInt declares an integer property.
func NewInt(name string, def int, opts ...Option[int]) *Typed[int] {
	return newTyped(name, def, codec[int]{
		typeName: "int",
		parse:    func(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) },
		format:   strconv.Itoa,
	}, opts)
}

// NewFloat declares a floating point property.
func NewFloat(name string, def float64, opts ...Option[float64]) *Typed[float64] {
	return newTyped(name, def, codec[float64]{
		typeName: "float64",
		parse:    func(s string) (float64, error) { return strconv.ParseFloat(strings.TrimSpace(s), 64) },
		format:   func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) },
	}, opts)
}

// NewString declares a string property.
func NewString(name, def string, opts ...Option[string]) *Typed[string] {
	return newTyped(name, def, codec[string]{
		typeName: "string",
		parse:    func(s string) (string, error) { return s, nil },
		format:   func(v string) string { return v },
	}, opts)
}

// NewBool declares a boolean property.
func NewBool(name string, def bool, opts ...Option[bool]) *Typed[bool] {
	return newTyped(name, def, codec[bool]{
		typeName: "bool",
		parse:    func(s string) (bool, error) { return strconv.ParseBool(strings.TrimSpace(s)) },
		format:   strconv.FormatBool,
	}, opts)
}

// NewFloatList declares a comma separated list of floats.
func NewFloatList(name string, def []float64, opts ...Option[[]float64]) *Typed[[]float64] {
	return newTyped(name, def, codec[[]float64]{
		typeName: "[]float64",
		parse:    parseFloatList,
		format:   formatFloatList,
	}, opts)
}

func parseFloatList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []float64{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func formatFloatList(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Name implements Property.
func (p *Typed[T]) Name() string { return p.name }

// Direction implements Property.
func (p *Typed[T]) Direction() Direction { return p.dir }

// Documentation implements Property.
func (p *Typed[T]) Documentation() string { return p.doc }

// IsDefault implements Property.
func (p *Typed[T]) IsDefault() bool { return p.isDefault }

// Value implements Property.
func (p *Typed[T]) Value() string { return p.codec.format(p.value) }

// TypeName returns the name of the held type.
func (p *Typed[T]) TypeName() string { return p.codec.typeName }

// Get returns the typed value.
func (p *Typed[T]) Get() T { return p.value }

// SetValue implements Property.
func (p *Typed[T]) SetValue(value string) error {
	v, err := p.codec.parse(value)
	if err != nil {
		return &TypeError{Property: p.name, Value: value, Type: p.codec.typeName, Err: err}
	}
	if err := p.check(v, value); err != nil {
		return err
	}
	p.value = v
	p.isDefault = false
	return nil
}

// Set assigns a typed value, running the validator.
func (p *Typed[T]) Set(v T) error {
	if err := p.check(v, p.codec.format(v)); err != nil {
		return err
	}
	p.value = v
	p.isDefault = false
	return nil
}

func (p *Typed[T]) check(v T, raw string) error {
	if p.validator == nil {
		return nil
	}
	if msg := p.validator.Check(v); msg != "" {
		return &ValidationError{Property: p.name, Value: raw, Message: msg}
	}
	return nil
}

// IsValid implements Property.
func (p *Typed[T]) IsValid() string {
	if p.validator == nil {
		return ""
	}
	return p.validator.Check(p.value)
}

var _ Property = (*Typed[int])(nil)
