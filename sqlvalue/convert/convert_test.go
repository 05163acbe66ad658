package convert

import (
	"errors"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-values/internal/testutil"
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

func obj(kv ...any) *sqlvalue.Object {
	o := sqlvalue.NewObject(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1].(sqlvalue.Value))
	}
	return o
}

func assertValue(t *testing.T, want, got sqlvalue.Value) {
	t.Helper()
	assert.True(t, sqlvalue.Equal(want, got), "want %s, got %s", want, got)
}

func sampleValues(t *testing.T) map[string]sqlvalue.Value {
	return testutil.SampleValues(t)
}

func TestRoundTrip(t *testing.T) {
	for name, v := range sampleValues(t) {
		t.Run(name, func(t *testing.T) {
			got, err := ToValue(v)
			require.NoError(t, err)
			assert.Equal(t, v.Kind(), got.Kind())
			assertValue(t, v, got)
		})
	}
}

func TestRoundTripAsVariant(t *testing.T) {
	for name, v := range sampleValues(t) {
		t.Run(name, func(t *testing.T) {
			got, err := ToValue(sqlvalue.AsVariant(v))
			require.NoError(t, err)
			assert.Equal(t, v.Kind(), got.Kind())
			assertValue(t, v, got)
		})
	}
}

func TestRoundTripNested(t *testing.T) {
	// Every sample inside an array and an object at once
	samples := sampleValues(t)
	arr := make(sqlvalue.Array, 0, len(samples))
	o := sqlvalue.NewObject(len(samples))
	for name, v := range samples {
		arr = append(arr, v)
		o.Set(name, v)
	}
	root := obj("all", arr, "byName", o)

	got, err := ToValue(root)
	require.NoError(t, err)
	assertValue(t, root, got)
}

func TestScalars(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  sqlvalue.Value
	}{
		{"true", true, sqlvalue.True},
		{"false", false, sqlvalue.False},
		{"nil pointer", (*int)(nil), sqlvalue.None{}},
		{"nil", nil, sqlvalue.None{}},
		{"pointer", func() *int { n := 5; return &n }(), sqlvalue.Int(5)},
		{"int8", int8(-8), sqlvalue.Int(-8)},
		{"int16", int16(16), sqlvalue.Int(16)},
		{"int32", int32(3), sqlvalue.Int(3)},
		{"int", 7, sqlvalue.Int(7)},
		{"uint8", uint8(255), sqlvalue.Int(255)},
		{"uint32", uint32(math.MaxUint32), sqlvalue.Int(math.MaxUint32)},
		{"uint64 small", uint64(12), sqlvalue.Int(12)},
		{"uint64 max", uint64(math.MaxUint64), sqlvalue.MustDecimal("18446744073709551615")},
		{"float32", float32(0.5), sqlvalue.Float(0.5)},
		{"float64", 2.25, sqlvalue.Float(2.25)},
		{"char", ser.Char('x'), sqlvalue.Strand("x")},
		{"string", "text", sqlvalue.Strand("text")},
		{"bytes", []byte{10, 20}, sqlvalue.Array{sqlvalue.Int(10), sqlvalue.Int(20)}},
		{"int128 small", ser.Int128From64(-3), sqlvalue.MustDecimal("-3")},
		{"uint128 small", ser.Uint128{Lo: 7}, sqlvalue.MustDecimal("7")},
		{"time", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), sqlvalue.Strand("2024-01-01T00:00:00Z")},
		{"duration", time.Second, sqlvalue.Int(int64(time.Second))},
		{"empty struct", struct{}{}, sqlvalue.None{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToValue(tt.input)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}
}

func TestWideIntegers(t *testing.T) {
	t.Run("uint128 max fails", func(t *testing.T) {
		_, err := ToValue(ser.MaxUint128)
		var rangeErr *ser.RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "340282366920938463463374607431768211455", rangeErr.Literal)
		assert.Equal(t, "Decimal", rangeErr.Target)
		assert.Contains(t, err.Error(), "failed to convert `340282366920938463463374607431768211455` to `Decimal`")
	})

	t.Run("within the decimal bound", func(t *testing.T) {
		bound, ok := new(big.Int).SetString("79228162514264337593543950335", 10)
		require.True(t, ok)
		v, ok := ser.Uint128FromBig(bound)
		require.True(t, ok)

		got, err := ToValue(v)
		require.NoError(t, err)
		assertValue(t, sqlvalue.MustDecimal("79228162514264337593543950335"), got)
	})

	t.Run("negative int128", func(t *testing.T) {
		b, ok := new(big.Int).SetString("-100000000000000000000", 10)
		require.True(t, ok)
		v, ok := ser.Int128FromBig(b)
		require.True(t, ok)

		got, err := ToValue(v)
		require.NoError(t, err)
		assertValue(t, sqlvalue.MustDecimal("-100000000000000000000"), got)
	})

	t.Run("just past the bound", func(t *testing.T) {
		b, ok := new(big.Int).SetString("79228162514264337593543950336", 10)
		require.True(t, ok)
		v, ok := ser.Int128FromBig(b)
		require.True(t, ok)

		_, err := ToValue(v)
		var rangeErr *ser.RangeError
		require.ErrorAs(t, err, &rangeErr)
	})
}

type user struct {
	Foo string `value:"foo"`
	Bar int    `value:"bar"`
}

type tagged struct {
	Name    string `value:"name"`
	Skip    string `value:"-"`
	Maybe   string `value:"maybe,omitempty"`
	Renamed int
	private int
}

func TestStructs(t *testing.T) {
	t.Run("unknown struct keeps field order", func(t *testing.T) {
		got, err := ToValue(user{Foo: "Foo", Bar: 0})
		require.NoError(t, err)
		assertValue(t, obj("foo", sqlvalue.Strand("Foo"), "bar", sqlvalue.Int(0)), got)
		assert.Equal(t, []string{"foo", "bar"}, got.(*sqlvalue.Object).Keys())
	})

	t.Run("tags", func(t *testing.T) {
		got, err := ToValue(tagged{Name: "n", Skip: "s", Renamed: 2, private: 3})
		require.NoError(t, err)
		assertValue(t, obj("name", sqlvalue.Strand("n"), "Renamed", sqlvalue.Int(2)), got)
	})

	t.Run("map keys sorted", func(t *testing.T) {
		got, err := ToValue(map[string]int{"b": 2, "a": 1, "c": 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, got.(*sqlvalue.Object).Keys())
	})

	t.Run("non-string map key", func(t *testing.T) {
		_, err := ToValue(map[int]string{1: "one"})
		var invalid *ser.InvalidTypeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "i64", invalid.Got)
	})

	t.Run("slices and arrays", func(t *testing.T) {
		got, err := ToValue([]any{1, "a", []int{2}, [2]bool{true, false}})
		require.NoError(t, err)
		want := sqlvalue.Array{
			sqlvalue.Int(1), sqlvalue.Strand("a"),
			sqlvalue.Array{sqlvalue.Int(2)},
			sqlvalue.Array{sqlvalue.True, sqlvalue.False},
		}
		assertValue(t, want, got)
	})
}

// events emits one hand-written event sequence
type events func(s ser.Serializer[ser.Ok]) (ser.Ok, error)

func (e events) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) { return e(s) }

func tupleVariant(name, variant string, fields ...any) events {
	return func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
		tv, err := s.SerializeTupleVariant(name, 0, variant, len(fields))
		if err != nil {
			return ser.Ok{}, err
		}
		for _, f := range fields {
			if err := tv.SerializeField(f); err != nil {
				return ser.Ok{}, err
			}
		}
		return tv.End()
	}
}

func structOf(name string, kv ...any) events {
	return func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
		st, err := s.SerializeStruct(name, len(kv)/2)
		if err != nil {
			return ser.Ok{}, err
		}
		for i := 0; i < len(kv); i += 2 {
			if err := st.SerializeField(kv[i].(string), kv[i+1]); err != nil {
				return ser.Ok{}, err
			}
		}
		return st.End()
	}
}

func TestGenericShapes(t *testing.T) {
	tests := []struct {
		name  string
		input events
		want  sqlvalue.Value
	}{
		{
			name:  "unknown tuple variant",
			input: tupleVariant("Shape", "X", 1, 2),
			want:  obj("X", sqlvalue.Array{sqlvalue.Int(1), sqlvalue.Int(2)}),
		},
		{
			name: "unknown newtype variant",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeVariant("Shape", 1, "Circle", 2.5)
			},
			want: obj("Circle", sqlvalue.Float(2.5)),
		},
		{
			name: "unknown unit variant",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeUnitVariant("Color", 0, "Red")
			},
			want: sqlvalue.Strand("Red"),
		},
		{
			name: "struct variant",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				st, err := s.SerializeStructVariant(sqlvalue.TokenThing, 0, "Move", 2)
				if err != nil {
					return ser.Ok{}, err
				}
				if err := st.SerializeField("x", 1); err != nil {
					return ser.Ok{}, err
				}
				if err := st.SerializeField("y", 2); err != nil {
					return ser.Ok{}, err
				}
				return st.End()
			},
			want: obj("Move", obj("x", sqlvalue.Int(1), "y", sqlvalue.Int(2))),
		},
		{
			name: "struct variant under a plain name",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				st, err := s.SerializeStructVariant("Shape", 2, "Rect", 2)
				if err != nil {
					return ser.Ok{}, err
				}
				if err := st.SerializeField("w", 3); err != nil {
					return ser.Ok{}, err
				}
				if err := st.SerializeField("h", "tall"); err != nil {
					return ser.Ok{}, err
				}
				return st.End()
			},
			want: obj("Rect", obj("w", sqlvalue.Int(3), "h", sqlvalue.Strand("tall"))),
		},
		{
			name:  "model count",
			input: tupleVariant(sqlvalue.TokenModel, "Count", "t", uint64(3)),
			want:  &sqlvalue.Model{Form: sqlvalue.ModelCount, Table: "t", Count: 3},
		},
		{
			name:  "model range from wide integers",
			input: tupleVariant(sqlvalue.TokenModel, "Range", "t", ser.Uint128{Lo: 1}, ser.Int128From64(5)),
			want:  &sqlvalue.Model{Form: sqlvalue.ModelRange, Table: "t", Beg: 1, End: 5},
		},
		{
			name:  "normal function",
			input: tupleVariant(sqlvalue.TokenFunction, "Normal", "string::len", []string{"abc"}),
			want:  sqlvalue.Call("string::len", sqlvalue.Strand("abc")),
		},
		{
			name:  "cast function",
			input: tupleVariant(sqlvalue.TokenFunction, "Cast", "int", "5"),
			want:  sqlvalue.Cast("int", sqlvalue.Strand("5")),
		},
		{
			name: "value variant passes its payload through",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeVariant(sqlvalue.TokenValue, 0, "Strand", 3)
			},
			want: sqlvalue.Int(3),
		},
		{
			name: "value variant with an unknown case name",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeVariant(sqlvalue.TokenValue, 0, "Custom", "x")
			},
			want: sqlvalue.Strand("x"),
		},
		{
			name: "value variant keeps plain text as text",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeVariant(sqlvalue.TokenValue, 0, "Param", "plain")
			},
			want: sqlvalue.Strand("plain"),
		},
		{
			name: "value variant over a payload form",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeVariant(sqlvalue.TokenValue, 0, "Param", sqlvalue.Param("limit"))
			},
			want: sqlvalue.Param("limit"),
		},
		{
			name: "array token over a sequence",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeStruct(sqlvalue.TokenArray, []int{1, 2})
			},
			want: sqlvalue.Array{sqlvalue.Int(1), sqlvalue.Int(2)},
		},
		{
			name: "unknown newtype struct is transparent",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeStruct("Meters", 3)
			},
			want: sqlvalue.Int(3),
		},
		{
			name: "bytes token over a sequence",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeStruct(sqlvalue.TokenBytes, []int{1, 2})
			},
			want: sqlvalue.Bytes{1, 2},
		},
		{
			name: "duration token over text",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeNewtypeStruct(sqlvalue.TokenDuration, "1h30m")
			},
			want: sqlvalue.Duration(90 * time.Minute),
		},
		{
			name: "uuid token over raw bytes",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				u := uuid.MustParse("0190d6a4-5f4c-7a3e-9b1d-2c3e4f5a6b7c")
				return s.SerializeNewtypeStruct(sqlvalue.TokenUuid, u[:])
			},
			want: sqlvalue.Uuid(uuid.MustParse("0190d6a4-5f4c-7a3e-9b1d-2c3e4f5a6b7c")),
		},
		{
			name:  "thing with a bare id",
			input: structOf(sqlvalue.TokenThing, "tb", "person", "id", 5),
			want:  sqlvalue.NewThing("person", sqlvalue.IdFromInt(5)),
		},
		{
			name:  "reserved struct name elsewhere is ordinary",
			input: tupleVariant(sqlvalue.TokenThing, "X", "a"),
			want:  obj("X", sqlvalue.Array{sqlvalue.Strand("a")}),
		},
		{
			name: "some",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeSome("x")
			},
			want: sqlvalue.Strand("x"),
		},
		{
			name: "unit",
			input: func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
				return s.SerializeUnit()
			},
			want: sqlvalue.None{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToValue(tt.input)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}
}

func TestErrors(t *testing.T) {
	t.Run("unknown value unit variant", func(t *testing.T) {
		_, err := ToValue(events(func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
			return s.SerializeUnitVariant(sqlvalue.TokenValue, 99, "Maybe")
		}))
		var msg *ser.MessageError
		require.ErrorAs(t, err, &msg)
		assert.Equal(t, "unknown unit variant `Value::Maybe`", msg.Msg)
	})

	t.Run("unknown constant", func(t *testing.T) {
		_, err := ToValue(events(func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
			return s.SerializeUnitVariant(sqlvalue.TokenConstant, 0, "MathFoo")
		}))
		var msg *ser.MessageError
		require.ErrorAs(t, err, &msg)
	})

	t.Run("strand token rejects numbers", func(t *testing.T) {
		_, err := ToValue(events(func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
			return s.SerializeNewtypeStruct(sqlvalue.TokenStrand, 5)
		}))
		var invalid *ser.InvalidTypeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "i64", invalid.Got)
		assert.Equal(t, "a string", invalid.Expected)
	})

	t.Run("bad regex", func(t *testing.T) {
		_, err := ToValue(events(func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
			return s.SerializeNewtypeStruct(sqlvalue.TokenRegex, "a(")
		}))
		require.Error(t, err)
	})

	t.Run("thing missing id", func(t *testing.T) {
		_, err := ToValue(structOf(sqlvalue.TokenThing, "tb", "person"))
		var missing *ser.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Thing", missing.Type)
		assert.Equal(t, "id", missing.Field)
	})

	t.Run("thing unexpected field", func(t *testing.T) {
		_, err := ToValue(structOf(sqlvalue.TokenThing, "tb", "person", "extra", 1))
		require.EqualError(t, err, "unexpected field `Thing::extra`")
	})

	t.Run("thing field of the wrong type", func(t *testing.T) {
		_, err := ToValue(structOf(sqlvalue.TokenThing, "tb", 5, "id", 1))
		var invalid *ser.InvalidTypeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Thing::tb", invalid.Field)
	})

	t.Run("model missing field", func(t *testing.T) {
		_, err := ToValue(tupleVariant(sqlvalue.TokenModel, "Range", "t", uint64(1)))
		var missing *ser.MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Model::Range", missing.Type)
	})

	t.Run("model negative count", func(t *testing.T) {
		_, err := ToValue(tupleVariant(sqlvalue.TokenModel, "Count", "t", -1))
		var rangeErr *ser.RangeError
		require.ErrorAs(t, err, &rangeErr)
	})

	t.Run("unknown function form", func(t *testing.T) {
		_, err := ToValue(tupleVariant(sqlvalue.TokenFunction, "Lambda", "f", []int{}))
		require.EqualError(t, err, "unknown variant `Function::Lambda`")
	})

	t.Run("point with three coordinates", func(t *testing.T) {
		_, err := ToValue(events(func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
			return s.SerializeNewtypeVariant(sqlvalue.TokenGeometry, 0, "Point", []float64{1, 2, 3})
		}))
		require.Error(t, err)
	})

	t.Run("source errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ToValue([]any{1, events(func(ser.Serializer[ser.Ok]) (ser.Ok, error) {
			return ser.Ok{}, boom
		})})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("map value before key", func(t *testing.T) {
		_, err := ToValue(events(func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
			m, err := s.SerializeMap(1)
			if err != nil {
				return ser.Ok{}, err
			}
			if err := m.SerializeValue(1); err != nil {
				return ser.Ok{}, err
			}
			return m.End()
		}))
		var msg *ser.MessageError
		require.ErrorAs(t, err, &msg)
	})

	t.Run("unsupported go type", func(t *testing.T) {
		_, err := ToValue(make(chan int))
		require.Error(t, err)
	})
}

func TestDuplicateKeys(t *testing.T) {
	got, err := ToValue(events(func(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
		m, err := s.SerializeMap(3)
		if err != nil {
			return ser.Ok{}, err
		}
		for _, kv := range [][2]any{{"a", 1}, {"b", 2}, {"a", 3}} {
			if err := m.SerializeKey(kv[0]); err != nil {
				return ser.Ok{}, err
			}
			if err := m.SerializeValue(kv[1]); err != nil {
				return ser.Ok{}, err
			}
		}
		return m.End()
	}))
	require.NoError(t, err)

	o := got.(*sqlvalue.Object)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	a, _ := o.Get("a")
	assertValue(t, sqlvalue.Int(3), a)
}

func TestConcurrentConversions(t *testing.T) {
	samples := sampleValues(t)
	done := make(chan error, len(samples))
	for _, v := range samples {
		go func(v sqlvalue.Value) {
			got, err := ToValue(sqlvalue.AsVariant(v))
			if err == nil && !sqlvalue.Equal(v, got) {
				err = errors.New("mismatch for " + v.String())
			}
			done <- err
		}(v)
	}
	for range samples {
		assert.NoError(t, <-done)
	}
}
