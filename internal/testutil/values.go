// Package testutil holds fixtures and helpers shared by package tests.
package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-values/sqlvalue"
)

// Object builds an object from alternating keys and values
func Object(kv ...any) *sqlvalue.Object {
	o := sqlvalue.NewObject(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1].(sqlvalue.Value))
	}
	return o
}

// SampleValues returns one value of every kind and variant, keyed by a
// short description
func SampleValues(t testing.TB) map[string]sqlvalue.Value {
	t.Helper()
	when, err := time.Parse(time.RFC3339Nano, "2024-03-01T12:30:45.123456789Z")
	require.NoError(t, err)

	ifelse := &sqlvalue.IfelseStatement{
		Exprs: []sqlvalue.Branch{
			{Cond: sqlvalue.True, Then: sqlvalue.Int(1)},
			{Cond: sqlvalue.Param("x"), Then: sqlvalue.Strand("two")},
		},
		Close: sqlvalue.Null{},
	}
	person := sqlvalue.NewThing("person", sqlvalue.IdFromString("tobie"))

	return map[string]sqlvalue.Value{
		"none":           sqlvalue.None{},
		"null":           sqlvalue.Null{},
		"false":          sqlvalue.False,
		"true":           sqlvalue.True,
		"int":            sqlvalue.Int(-42),
		"float":          sqlvalue.Float(1.5),
		"nan":            sqlvalue.Float(math.NaN()),
		"decimal":        sqlvalue.MustDecimal("3.14159265358979323846"),
		"strand":         sqlvalue.Strand("hello"),
		"empty strand":   sqlvalue.Strand(""),
		"duration":       sqlvalue.Duration(90 * time.Minute),
		"datetime":       sqlvalue.NewDatetime(when),
		"uuid":           sqlvalue.Uuid(uuid.MustParse("0190d6a4-5f4c-7a3e-9b1d-2c3e4f5a6b7c")),
		"array":          sqlvalue.Array{sqlvalue.Int(1), sqlvalue.Strand("a"), sqlvalue.Null{}},
		"empty array":    sqlvalue.Array{},
		"object":         Object("b", sqlvalue.Int(2), "a", sqlvalue.Array{sqlvalue.True}),
		"geometry point": sqlvalue.NewPoint(1.5, -2),
		"geometry line":  sqlvalue.NewLine(sqlvalue.Point{X: 0, Y: 0}, sqlvalue.Point{X: 1, Y: 1}),
		"geometry polygon": sqlvalue.NewPolygon(
			[]sqlvalue.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 0}},
			[]sqlvalue.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 1}},
		),
		"geometry multipoint": sqlvalue.NewMultiPoint(sqlvalue.Point{X: 1, Y: 2}),
		"geometry multiline":  sqlvalue.NewMultiLine([]sqlvalue.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}),
		"geometry multipolygon": sqlvalue.NewMultiPolygon(sqlvalue.Polygon{
			Exterior: []sqlvalue.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}},
		}),
		"geometry collection": sqlvalue.NewCollection(sqlvalue.NewPoint(0, 0), sqlvalue.NewLine()),
		"bytes":               sqlvalue.Bytes{0, 1, 254, 255},
		"param":               sqlvalue.Param("name"),
		"idiom": sqlvalue.Idiom{
			sqlvalue.FieldPart("a"), sqlvalue.IndexPart(sqlvalue.Int(0)), sqlvalue.AllPart(),
			sqlvalue.LastPart(), sqlvalue.FirstPart(), sqlvalue.WherePart(sqlvalue.True),
		},
		"table":        sqlvalue.Table("person"),
		"thing string": person,
		"thing number": sqlvalue.NewThing("t", sqlvalue.IdFromInt(7)),
		"thing array":  sqlvalue.NewThing("t", sqlvalue.IdFromArray(sqlvalue.Array{sqlvalue.Int(1), sqlvalue.Strand("x")})),
		"thing object": sqlvalue.NewThing("t", sqlvalue.IdFromObject(Object("k", sqlvalue.Strand("v")))),
		"model count":  &sqlvalue.Model{Form: sqlvalue.ModelCount, Table: "t", Count: 10},
		"model range":  &sqlvalue.Model{Form: sqlvalue.ModelRange, Table: "t", Beg: 1, End: 5},
		"regex":        sqlvalue.MustRegex(`a+b*`),
		"block": &sqlvalue.Block{Entries: []sqlvalue.Entry{
			{Form: sqlvalue.EntryValue, Value: sqlvalue.Int(1)},
			{Form: sqlvalue.EntryIfelse, Ifelse: ifelse},
			{Form: sqlvalue.EntryOutput, Value: sqlvalue.Strand("done")},
		}},
		"range": &sqlvalue.Range{
			Tb:  "t",
			Beg: sqlvalue.IncludedBound(sqlvalue.IdFromInt(1)),
			End: sqlvalue.ExcludedBound(sqlvalue.IdFromInt(9)),
		},
		"range unbounded": &sqlvalue.Range{Tb: "t", Beg: sqlvalue.UnboundedBound(), End: sqlvalue.UnboundedBound()},
		"edges": &sqlvalue.Edges{
			Dir:  sqlvalue.Out,
			From: person,
			What: []sqlvalue.Table{"likes", "knows"},
		},
		"future": &sqlvalue.Future{Block: sqlvalue.Block{Entries: []sqlvalue.Entry{
			{Form: sqlvalue.EntryValue, Value: sqlvalue.Int(2)},
		}}},
		"constant":         sqlvalue.MathPi,
		"function":         sqlvalue.Call("string::len", sqlvalue.Strand("abc")),
		"function no args": sqlvalue.Call("rand"),
		"cast":             sqlvalue.Cast("int", sqlvalue.Strand("5")),
		"custom":           &sqlvalue.Function{Form: sqlvalue.FuncCustom, Name: "greet", Args: []sqlvalue.Value{sqlvalue.Strand("x")}},
		"script":           &sqlvalue.Function{Form: sqlvalue.FuncScript, Name: "return 1;", Args: []sqlvalue.Value{}},
		"subquery":         &sqlvalue.Subquery{Form: sqlvalue.SubqueryValue, Value: sqlvalue.Int(1)},
		"subquery output":  &sqlvalue.Subquery{Form: sqlvalue.SubqueryOutput, Value: sqlvalue.Strand("x")},
		"subquery ifelse": &sqlvalue.Subquery{Form: sqlvalue.SubqueryIfelse, Ifelse: &sqlvalue.IfelseStatement{
			Exprs: []sqlvalue.Branch{{Cond: sqlvalue.False, Then: sqlvalue.Int(3)}},
		}},
		"expression": &sqlvalue.Expression{
			L: sqlvalue.Int(1),
			O: sqlvalue.OpAdd,
			R: &sqlvalue.Expression{L: sqlvalue.Param("a"), O: sqlvalue.OpMul, R: sqlvalue.Float(2)},
		},
	}
}
