package sqlvalue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name  string
		left  Value
		right Value
		want  int
	}{
		{"nil is none", nil, None{}, 0},
		{"kind order", Null{}, Int(0), -1},
		{"false before true", False, True, -1},
		{"int and float", Int(2), Float(1.5), 1},
		{"int and decimal", Int(2), MustDecimal("2.0"), 0},
		{"float and decimal", Float(0.5), MustDecimal("0.75"), -1},
		{"nan sorts lowest", Float(math.NaN()), Float(math.Inf(-1)), -1},
		{"nan equals nan", Float(math.NaN()), Float(math.NaN()), 0},
		{"strands", Strand("a"), Strand("b"), -1},
		{"arrays by element", Array{Int(1), Int(2)}, Array{Int(1), Int(3)}, -1},
		{"shorter array first", Array{Int(1)}, Array{Int(1), Int(0)}, -1},
		{"objects by sorted keys", ObjectOf(Field{"b", Int(1)}), ObjectOf(Field{"a", Int(9)}), 1},
		{"things by table", NewThing("a", IdFromInt(9)), NewThing("b", IdFromInt(1)), -1},
		{"things by id", NewThing("a", IdFromInt(1)), NewThing("a", IdFromInt(2)), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.left, tt.right))
			assert.Equal(t, -tt.want, Compare(tt.right, tt.left))
		})
	}
}

func TestEqual(t *testing.T) {
	t.Run("numbers keep their kind", func(t *testing.T) {
		assert.True(t, Equal(Int(1), Int(1)))
		assert.False(t, Equal(Int(1), Float(1)))
		assert.False(t, Equal(Int(1), MustDecimal("1")))
		assert.True(t, Equal(Float(math.NaN()), Float(math.NaN())))
		assert.True(t, Equal(MustDecimal("1.0"), MustDecimal("1.00")))
	})

	t.Run("objects ignore order", func(t *testing.T) {
		a := ObjectOf(Field{"a", Int(1)}, Field{"b", Int(2)})
		b := ObjectOf(Field{"b", Int(2)}, Field{"a", Int(1)})
		assert.True(t, Equal(a, b))
		assert.False(t, Equal(a, ObjectOf(Field{"a", Int(1)})))
	})

	t.Run("nil entries are none", func(t *testing.T) {
		assert.True(t, Equal(Array{nil}, Array{None{}}))
		assert.False(t, Equal(None{}, Null{}))
	})

	t.Run("composites", func(t *testing.T) {
		e := &Edges{Dir: Out, From: NewThing("a", IdFromInt(1))}
		assert.True(t, Equal(e, &Edges{Dir: Out, From: NewThing("a", IdFromInt(1)), What: []Table{}}))
		assert.False(t, Equal(e, &Edges{Dir: In, From: NewThing("a", IdFromInt(1))}))

		assert.True(t, Equal(MustRegex("a+"), MustRegex("a+")))
		assert.True(t, Equal(NewPoint(1, 2), NewPoint(1, 2)))
		assert.False(t, Equal(NewPoint(1, 2), NewPoint(2, 1)))
		assert.True(t, Equal(Call("f", Int(1)), Call("f", Int(1))))
		assert.False(t, Equal(Call("f", Int(1)), Cast("f", Int(1))))
	})
}
