package edn

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-values/internal/testutil"
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/convert"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

func mustTime(t *testing.T, text string) time.Time {
	t.Helper()
	when, err := time.Parse(time.RFC3339Nano, text)
	require.NoError(t, err)
	return when
}

func parseValue(t *testing.T, input string) (sqlvalue.Value, error) {
	t.Helper()
	node, err := Parse(input)
	require.NoError(t, err)
	return convert.ToValue(node)
}

func TestNodeEvents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  sqlvalue.Value
	}{
		{"nil", "nil", sqlvalue.None{}},
		{"bool", "true", sqlvalue.True},
		{"int", "-7", sqlvalue.Int(-7)},
		{"int with plus", "+7", sqlvalue.Int(7)},
		{"wide int", "9223372036854775808", sqlvalue.MustDecimal("9223372036854775808")},
		{"suffixed int", "5N", sqlvalue.MustDecimal("5")},
		{"decimal int", "5M", sqlvalue.MustDecimal("5")},
		{"float", "2.5", sqlvalue.Float(2.5)},
		{"infinity", "##-Inf", sqlvalue.Float(math.Inf(-1))},
		{"decimal", "2.50M", sqlvalue.MustDecimal("2.50")},
		{"string", `"x"`, sqlvalue.Strand("x")},
		{"keyword", ":status", sqlvalue.Strand("status")},
		{"symbol", "ok", sqlvalue.Strand("ok")},
		{"char", `\z`, sqlvalue.Strand("z")},
		{"vector", "[1 (2) #{3}]", sqlvalue.Array{
			sqlvalue.Int(1), sqlvalue.Array{sqlvalue.Int(2)}, sqlvalue.Array{sqlvalue.Int(3)},
		}},
		{"map", `{:b 1 "a" 2}`, testutil.Object("b", sqlvalue.Int(1), "a", sqlvalue.Int(2))},
		{"inst", `#inst "2024-01-02T03:04:05+01:00"`, sqlvalue.NewDatetime(mustTime(t, "2024-01-02T02:04:05Z"))},
		{"bytes", `#sql/bytes "AAE="`, sqlvalue.Array{sqlvalue.Int(0), sqlvalue.Int(1)}},
		{"unit variant", `#sql/unit-variant ["Color" "Red"]`, sqlvalue.Strand("Red")},
		{"tuple variant", `#sql/tuple-variant ["Op" "Add" [1 2]]`, testutil.Object("Add", sqlvalue.Array{sqlvalue.Int(1), sqlvalue.Int(2)})},
		{"struct", `#sql/struct ["Point" {:x 1 "y" 2}]`, testutil.Object("x", sqlvalue.Int(1), "y", sqlvalue.Int(2))},
		{"thing", `#sql/struct ["$sqlvalue::Thing" {:tb "person" :id "tobie"}]`, sqlvalue.NewThing("person", sqlvalue.IdFromString("tobie"))},
		{"tagged table", `#sql/newtype ["$sqlvalue::Table" "person"]`, sqlvalue.Table("person")},
		{"unit", "#sql/unit nil", sqlvalue.None{}},
		{"some", "#sql/some 3", sqlvalue.Int(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(t, tt.input)
			require.NoError(t, err)
			assert.True(t, sqlvalue.Equal(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestNodeEventErrors(t *testing.T) {
	_, err := parseValue(t, "340282366920938463463374607431768211456")
	var rangeErr *ser.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "u128", rangeErr.Target)

	_, err = parseValue(t, `{[1] 2}`)
	var invalid *ser.InvalidTypeError
	require.ErrorAs(t, err, &invalid)

	_, err = parseValue(t, `#sql/unit-variant ["$sqlvalue::Value" "Maybe"]`)
	assert.EqualError(t, err, "unknown unit variant `Value::Maybe`")
}

func TestMarshalRoundTrip(t *testing.T) {
	for name, v := range testutil.SampleValues(t) {
		t.Run(name, func(t *testing.T) {
			for _, src := range []any{v, sqlvalue.AsVariant(v)} {
				text, err := Marshal(src)
				require.NoError(t, err)

				got, err := parseValue(t, text)
				require.NoError(t, err, text)
				assert.True(t, sqlvalue.Equal(v, got), "%s: want %s, got %s", text, v, got)
			}
		})
	}
}

func TestMarshalText(t *testing.T) {
	type point struct {
		X int     `value:"x"`
		Y float64 `value:"y"`
	}

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "nil"},
		{"int", int8(-3), "-3"},
		{"whole float", 2.0, "2.0"},
		{"nan", math.NaN(), "##NaN"},
		{"string", "a\"b\n", `"a\"b\n"`},
		{"char", ser.Char(' '), `\space`},
		{"control char", ser.Char(7), `\u0007`},
		{"bytes", []byte("hi"), `#sql/bytes "aGk="`},
		{"slice", []string{"a", "b"}, `["a" "b"]`},
		{"array", [2]int{1, 2}, "#sql/tuple [1 2]"},
		{"map", map[string]int{"a": 1}, `{"a" 1}`},
		{"struct", point{X: 1, Y: 0.5}, `#sql/struct ["point" {"x" 1 "y" 0.5}]`},
		{"pointer", &point{X: 1}, `#sql/some #sql/struct ["point" {"x" 1 "y" 0.0}]`},
		{"wide", ser.Int128From64(-1), "-1N"},
		{"datetime", sqlvalue.NewDatetime(mustTime(t, "2024-01-02T03:04:05Z")), `#inst "2024-01-02T03:04:05Z"`},
		{"int value", sqlvalue.Int(4), `#sql/variant ["$sqlvalue::Number" "Int" 4]`},
		{"true variant", sqlvalue.AsVariant(sqlvalue.True), `#sql/unit-variant ["$sqlvalue::Value" "True"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// everything written parses back
			_, err = Parse(got)
			require.NoError(t, err)
		})
	}
}
