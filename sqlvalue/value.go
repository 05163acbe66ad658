// Package sqlvalue defines Value, the dynamic type every runtime value of
// the query layer is represented as.
//
// Value is a closed union: the cases are the types in this package that
// implement it. Every case describes itself to a ser.Serializer in a
// "payload form" that the converter in sqlvalue/convert rebuilds into an
// equal Value, and AsVariant wraps any case in the tagged union form.
package sqlvalue

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// Value is one case of the dynamic value union
type Value interface {
	ser.Marshaler
	Kind() Kind
	String() string
	isValue()
}

// None is the absence of a value
type None struct{}

// Null is an explicit null
type Null struct{}

// Bool is true or false; it reports KindTrue or KindFalse
type Bool bool

// Strand is a text value
type Strand string

// Bytes is a binary value
type Bytes []byte

// Duration is a span of time
type Duration time.Duration

// Uuid is a UUID value
type Uuid uuid.UUID

// Param is a named query parameter, stored without the leading $
type Param string

// Table is a table name
type Table string

// Array is an ordered list of values
type Array []Value

// Datetime is an instant, always held in UTC
type Datetime struct {
	t time.Time
}

// Regex is a compiled regular expression
type Regex struct {
	re *regexp.Regexp
}

var (
	True  = Bool(true)
	False = Bool(false)
)

// NewDatetime normalizes t to UTC
func NewDatetime(t time.Time) Datetime {
	return Datetime{t: t.UTC()}
}

// Time returns the instant
func (d Datetime) Time() time.Time { return d.t }

// NewRegex compiles pattern
func NewRegex(pattern string) (Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regex{}, err
	}
	return Regex{re: re}, nil
}

// MustRegex is NewRegex for patterns known to be valid
func MustRegex(pattern string) Regex {
	r, err := NewRegex(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Pattern returns the source of the expression
func (r Regex) Pattern() string {
	if r.re == nil {
		return ""
	}
	return r.re.String()
}

// Regexp returns the compiled expression, nil for the zero Regex
func (r Regex) Regexp() *regexp.Regexp { return r.re }

func (None) Kind() Kind     { return KindNone }
func (Null) Kind() Kind     { return KindNull }
func (Strand) Kind() Kind   { return KindStrand }
func (Bytes) Kind() Kind    { return KindBytes }
func (Duration) Kind() Kind { return KindDuration }
func (Datetime) Kind() Kind { return KindDatetime }
func (Uuid) Kind() Kind     { return KindUuid }
func (Param) Kind() Kind    { return KindParam }
func (Table) Kind() Kind    { return KindTable }
func (Regex) Kind() Kind    { return KindRegex }
func (Array) Kind() Kind    { return KindArray }

func (b Bool) Kind() Kind {
	if b {
		return KindTrue
	}
	return KindFalse
}

func (None) isValue()     {}
func (Null) isValue()     {}
func (Bool) isValue()     {}
func (Strand) isValue()   {}
func (Bytes) isValue()    {}
func (Duration) isValue() {}
func (Datetime) isValue() {}
func (Uuid) isValue()     {}
func (Param) isValue()    {}
func (Table) isValue()    {}
func (Regex) isValue()    {}
func (Array) isValue()    {}

func (None) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNone()
}

func (Null) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeUnitVariant(TokenValue, uint32(KindNull), KindNull.String())
}

func (b Bool) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeBool(bool(b))
}

func (v Strand) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenStrand, string(v))
}

func (v Bytes) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenBytes, []byte(v))
}

func (v Duration) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenDuration, int64(v))
}

func (v Datetime) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenDatetime, v.t.Format(time.RFC3339Nano))
}

func (v Uuid) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenUuid, uuid.UUID(v).String())
}

func (v Param) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenParam, string(v))
}

func (v Table) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenTable, string(v))
}

func (v Regex) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenRegex, v.Pattern())
}

func (v Array) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	return s.SerializeNewtypeStruct(TokenArray, variants(v))
}

// variants wraps each element in its union form
func variants(vs []Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = AsVariant(v)
	}
	return out
}

// variant is the union form of a Value
type variant struct {
	v Value
}

// AsVariant returns v in its union form: a unit variant of TokenValue for
// None, Null, False and True, otherwise a newtype variant of TokenValue
// named after the case and carrying the case's payload form. A nil Value
// is treated as None.
func AsVariant(v Value) ser.Marshaler {
	if v == nil {
		v = None{}
	}
	return variant{v: v}
}

func (w variant) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	k := w.v.Kind()
	switch k {
	case KindNone, KindNull, KindFalse, KindTrue:
		return s.SerializeUnitVariant(TokenValue, uint32(k), k.String())
	}
	return s.SerializeNewtypeVariant(TokenValue, uint32(k), k.String(), w.v)
}

func (None) String() string { return "NONE" }
func (Null) String() string { return "NULL" }

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (v Strand) String() string { return quote(string(v)) }

func (v Bytes) String() string {
	var b strings.Builder
	b.WriteString("encoding::base64::decode(")
	b.WriteString(quote(base64.StdEncoding.EncodeToString(v)))
	b.WriteString(")")
	return b.String()
}

func (v Duration) String() string { return FormatDuration(time.Duration(v)) }
func (v Datetime) String() string { return "d" + quote(v.t.Format(time.RFC3339Nano)) }
func (v Uuid) String() string     { return "u" + quote(uuid.UUID(v).String()) }
func (v Param) String() string    { return "$" + escapeIdent(string(v)) }
func (v Table) String() string    { return escapeIdent(string(v)) }
func (v Regex) String() string    { return "/" + strings.ReplaceAll(v.Pattern(), "/", `\/`) + "/" }

func (v Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(render(e))
	}
	b.WriteByte(']')
	return b.String()
}

// render tolerates nil entries in hand-built composites
func render(v Value) string {
	if v == nil {
		return None{}.String()
	}
	return v.String()
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// escapeIdent wraps names that are not plain identifiers in angle brackets
func escapeIdent(s string) string {
	if s == "" {
		return "⟨⟩"
	}
	digits := true
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			digits = false
		default:
			return "⟨" + strings.ReplaceAll(s, "⟩", `\⟩`) + "⟩"
		}
	}
	if digits {
		return "⟨" + s + "⟩"
	}
	return s
}
