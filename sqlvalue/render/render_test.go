package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-values/internal/testutil"
	"github.com/wbrown/janus-values/sqlvalue"
)

func TestParseColorMode(t *testing.T) {
	for input, want := range map[string]ColorMode{
		"":       ColorAuto,
		"auto":   ColorAuto,
		"ALWAYS": ColorAlways,
		"never":  ColorNever,
	} {
		got, err := ParseColorMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseColorMode("sometimes")
	assert.EqualError(t, err, `invalid color mode "sometimes" (want auto, always or never)`)
}

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ColorAuto)

	for name, v := range testutil.SampleValues(t) {
		assert.Equal(t, v.String(), p.Format(v), name)
	}

	require.NoError(t, p.Print(sqlvalue.Array{sqlvalue.Int(1), sqlvalue.Strand("a")}))
	assert.Equal(t, "[1, 'a']\n", buf.String())
}

func TestPrinterColor(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, ColorAlways)

	v := testutil.Object(
		"name", sqlvalue.Strand("tobie"),
		"tags", sqlvalue.Array{sqlvalue.Int(1), sqlvalue.None{}},
	)
	got := p.Format(v)

	assert.Contains(t, got, "\x1b[")
	assert.Contains(t, got, "\x1b[32m'tobie'")
	assert.Contains(t, got, "\x1b[36m1")

	// stripping the escapes leaves the plain rendering
	assert.Equal(t, v.String(), stripANSI(got))
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestTableFormatter(t *testing.T) {
	formatter := NewTableFormatter()

	t.Run("EmptyArray", func(t *testing.T) {
		got, err := formatter.Format(sqlvalue.Array{})
		require.NoError(t, err)
		assert.Equal(t, "_No rows_", got)
	})

	t.Run("Objects", func(t *testing.T) {
		rows := sqlvalue.Array{
			testutil.Object("name", sqlvalue.Strand("Alice"), "age", sqlvalue.Int(30)),
			testutil.Object("name", sqlvalue.Strand("Bob"), "active", sqlvalue.True),
		}
		got, err := formatter.Format(rows)
		require.NoError(t, err)

		var header string
		for _, line := range strings.Split(got, "\n") {
			if strings.Contains(line, "name") {
				header = line
				break
			}
		}
		assert.Less(t, strings.Index(header, "name"), strings.Index(header, "age"))
		assert.Less(t, strings.Index(header, "age"), strings.Index(header, "active"))
		assert.Contains(t, got, "|---")
		assert.Contains(t, got, "Alice")
		assert.NotContains(t, got, "'Alice'")
		assert.Contains(t, got, "true")
		assert.Contains(t, got, "_2 rows_")
	})

	t.Run("SingleObject", func(t *testing.T) {
		got, err := formatter.Format(testutil.Object("id", sqlvalue.NewThing("person", sqlvalue.IdFromString("tobie"))))
		require.NoError(t, err)
		assert.Contains(t, got, "person:tobie")
		assert.Contains(t, got, "_1 rows_")
	})

	t.Run("Scalars", func(t *testing.T) {
		got, err := formatter.Format(sqlvalue.Array{sqlvalue.Int(1), sqlvalue.Float(2.5)})
		require.NoError(t, err)
		assert.Contains(t, got, valueColumn)
		assert.Contains(t, got, "2.5f")
		assert.Contains(t, got, "_2 rows_")
	})

	t.Run("Truncate", func(t *testing.T) {
		narrow := &TableFormatter{MaxWidth: 8, TruncateString: "..."}
		got, err := narrow.Format(sqlvalue.Strand("a rather long sentence"))
		require.NoError(t, err)
		assert.Contains(t, got, "a rat...")
		assert.NotContains(t, got, "sentence")
	})
}
