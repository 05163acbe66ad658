package yamlsource

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-values/internal/testutil"
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/convert"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

func toValue(t *testing.T, input string) (sqlvalue.Value, error) {
	t.Helper()
	doc, err := Parse([]byte(input), Options{})
	require.NoError(t, err)
	return convert.ToValue(doc)
}

func TestScalars(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.MustParse("0190d6a4-5f4c-7a3e-9b1d-2c3e4f5a6b7c")

	tests := []struct {
		name  string
		input string
		want  sqlvalue.Value
	}{
		{"empty", "", sqlvalue.None{}},
		{"null", "~", sqlvalue.None{}},
		{"bool", "true", sqlvalue.True},
		{"int", "-12", sqlvalue.Int(-12)},
		{"hex int", "0x1F", sqlvalue.Int(31)},
		{"wide int", "9223372036854775808", sqlvalue.MustDecimal("9223372036854775808")},
		{"float", "2.5", sqlvalue.Float(2.5)},
		{"infinity", "-.inf", sqlvalue.Float(math.Inf(-1))},
		{"plain string", "hello", sqlvalue.Strand("hello")},
		{"quoted number", `"42"`, sqlvalue.Strand("42")},
		{"binary", "!!binary aGk=", sqlvalue.Bytes("hi")},
		{"timestamp", "2024-01-02T03:04:05Z", sqlvalue.NewDatetime(when)},
		{"uuid", "!uuid " + id.String(), sqlvalue.Uuid(id)},
		{"duration", "!duration 1h30m", sqlvalue.Duration(90 * time.Minute)},
		{"datetime", "!datetime 2024-01-02T04:04:05+01:00", sqlvalue.NewDatetime(when)},
		{"table", "!table person", sqlvalue.Table("person")},
		{"param", "!param limit", sqlvalue.Param("limit")},
		{"decimal", "!decimal 10.50", sqlvalue.MustDecimal("10.50")},
		{"thing", "!thing person:tobie", sqlvalue.NewThing("person", sqlvalue.IdFromString("tobie"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toValue(t, tt.input)
			require.NoError(t, err)
			assert.True(t, sqlvalue.Equal(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestRegexTag(t *testing.T) {
	got, err := toValue(t, `!regex "^a+$"`)
	require.NoError(t, err)
	require.Equal(t, sqlvalue.KindRegex, got.Kind())
	assert.Equal(t, "/^a+$/", got.String())
}

func TestCollections(t *testing.T) {
	got, err := toValue(t, `
name: tobie
tags: [a, b]
home: !thing city:london
nested:
  - {x: 1, y: 2}
  - ~
`)
	require.NoError(t, err)

	want := testutil.Object(
		"name", sqlvalue.Strand("tobie"),
		"tags", sqlvalue.Array{sqlvalue.Strand("a"), sqlvalue.Strand("b")},
		"home", sqlvalue.NewThing("city", sqlvalue.IdFromString("london")),
		"nested", sqlvalue.Array{
			testutil.Object("x", sqlvalue.Int(1), "y", sqlvalue.Int(2)),
			sqlvalue.None{},
		},
	)
	assert.True(t, sqlvalue.Equal(want, got), "got %s", got)

	obj := got.(*sqlvalue.Object)
	assert.Equal(t, []string{"name", "tags", "home", "nested"}, obj.Keys())
}

func TestJSON(t *testing.T) {
	got, err := toValue(t, `{"id": 7, "ok": false, "scores": [1.5, 2], "note": null}`)
	require.NoError(t, err)
	want := testutil.Object(
		"id", sqlvalue.Int(7),
		"ok", sqlvalue.False,
		"scores", sqlvalue.Array{sqlvalue.Float(1.5), sqlvalue.Int(2)},
		"note", sqlvalue.None{},
	)
	assert.True(t, sqlvalue.Equal(want, got), "got %s", got)
}

func TestAliasesAndMerge(t *testing.T) {
	got, err := toValue(t, `
base: &base
  a: 1
  b: 2
copy: *base
over:
  b: 3
  <<: *base
`)
	require.NoError(t, err)

	obj := got.(*sqlvalue.Object)
	base := testutil.Object("a", sqlvalue.Int(1), "b", sqlvalue.Int(2))
	copied, ok := obj.Get("copy")
	require.True(t, ok)
	assert.True(t, sqlvalue.Equal(base, copied))

	over, ok := obj.Get("over")
	require.True(t, ok)
	assert.True(t, sqlvalue.Equal(testutil.Object("b", sqlvalue.Int(3), "a", sqlvalue.Int(1)), over), "got %s", over)
}

func TestParseAll(t *testing.T) {
	docs, err := ParseAll([]byte("1\n---\nx: !table t\n---\n[]\n"), Options{})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	got, err := convert.ToValue(docs[1])
	require.NoError(t, err)
	assert.True(t, sqlvalue.Equal(testutil.Object("x", sqlvalue.Table("t")), got))
}

func TestErrors(t *testing.T) {
	_, err := Parse([]byte("x: !color red"), Options{})
	assert.EqualError(t, err, "yaml: line 1: unsupported tag !color")

	_, err = Parse([]byte("x: [1"), Options{})
	assert.Error(t, err)

	_, err = toValue(t, "340282366920938463463374607431768211456")
	var rangeErr *ser.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "u128", rangeErr.Target)

	_, err = toValue(t, "!uuid nope")
	assert.Error(t, err)

	_, err = toValue(t, "!duration soon")
	assert.Error(t, err)

	_, err = toValue(t, "x: !thing nocolon")
	assert.ErrorContains(t, err, `invalid record id "nocolon"`)
}

func TestThingTag(t *testing.T) {
	got, err := toValue(t, "!thing t:42")
	require.NoError(t, err)
	assert.True(t, sqlvalue.Equal(sqlvalue.NewThing("t", sqlvalue.IdFromInt(42)), got), "got %s", got)
}

func TestMaxDepth(t *testing.T) {
	deep := strings.Repeat("[", 5) + strings.Repeat("]", 5)

	_, err := Parse([]byte(deep), Options{MaxDepth: 5})
	require.NoError(t, err)

	_, err = Parse([]byte(deep), Options{MaxDepth: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting exceeds 4 levels")
}

// laughs builds a document whose anchors each alias the previous one ten
// times, so it expands to 10^levels scalars
func laughs(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [a, a, a, a, a, a, a, a, a, a]\n")
	for i := 1; i <= levels; i++ {
		fmt.Fprintf(&b, "l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*l%d", i-1)
		}
		b.WriteString("]\n")
	}
	return b.String()
}

func TestAliasExpansion(t *testing.T) {
	t.Run("exponential aliases are rejected", func(t *testing.T) {
		_, err := ParseAll([]byte(laughs(8)), Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expands to more than")
	})

	t.Run("modest aliases are accepted", func(t *testing.T) {
		docs, err := ParseAll([]byte(laughs(2)), Options{})
		require.NoError(t, err)
		require.Len(t, docs, 1)

		got, err := convert.ToValue(docs[0])
		require.NoError(t, err)
		l2, ok := got.(*sqlvalue.Object).Get("l2")
		require.True(t, ok)
		assert.Len(t, l2.(sqlvalue.Array), 10)
	})

	t.Run("explicit budget", func(t *testing.T) {
		doc := []byte("a: &a [1, 2, 3]\nb: *a\nc: *a\n")

		_, err := Parse(doc, Options{MaxNodes: 40})
		require.NoError(t, err)

		_, err = Parse(doc, Options{MaxNodes: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expands to more than 10 nodes")
	})
}
