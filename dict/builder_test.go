package dict_test

import (
	"strings"
	"testing"

	"github.com/hsd-format/go-hsd/dict"
	"github.com/hsd-format/go-hsd/lexer"
	"github.com/hsd-format/go-hsd/parser"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, input string, cfg dict.BuilderConfig) (*dict.Dict, error) {
	t.Helper()
	b := dict.NewBuilder(cfg)
	p := parser.New(lexer.New(strings.NewReader(input)), b)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return b.Dict(), nil
}

func mustBuild(t *testing.T, input string, cfg dict.BuilderConfig) *dict.Dict {
	t.Helper()
	d, err := build(t, input, cfg)
	require.NoError(t, err)
	return d
}

func TestScalarTyping(t *testing.T) {
	d := mustBuild(t, strings.Join([]string{
		`count = 12`,
		`negative = -4`,
		`big = 9300000000000000000000`,
		`ratio = 1.5`,
		`small = -4.5e-3`,
		`bare = .5`,
		`flagYes = Yes`,
		`flagOff = false`,
		`word = text`,
		`selector = 3:-3`,
		`quoted = "no 12"`,
	}, "\n"), dict.BuilderConfig{})

	expected := dict.New()
	expected.Set("count", int64(12))
	expected.Set("negative", int64(-4))
	expected.Set("big", float64(9.3e21))
	expected.Set("ratio", 1.5)
	expected.Set("small", -4.5e-3)
	expected.Set("bare", 0.5)
	expected.Set("flagYes", true)
	expected.Set("flagOff", false)
	expected.Set("word", "text")
	expected.Set("selector", "3:-3")
	expected.Set("quoted", `"no 12"`)

	require.True(t, expected.Equal(d), "got %v", d)
}

func TestRowAndMatrix(t *testing.T) {
	d := mustBuild(t, "row = 1 2 3\nmatrix = {\n  1 2\n  3 4\n}\n", dict.BuilderConfig{})

	expected := dict.New()
	expected.Set("row", []any{int64(1), int64(2), int64(3)})
	expected.Set("matrix", [][]any{
		{int64(1), int64(2)},
		{int64(3), int64(4)},
	})
	require.True(t, expected.Equal(d), "got %v", d)
}

func TestFlattenData(t *testing.T) {
	d := mustBuild(t, "matrix = {\n  1 2\n  3 4\n}\n", dict.BuilderConfig{FlattenData: true})

	expected := dict.New()
	expected.Set("matrix", []any{int64(1), int64(2), int64(3), int64(4)})
	require.True(t, expected.Equal(d), "got %v", d)
}

func TestNestedNodes(t *testing.T) {
	d := mustBuild(t, "Hamiltonian = DFTB {\n  Scc = Yes\n  Filling = Fermi {\n    Temperature [Kelvin] = 100\n  }\n}\n", dict.BuilderConfig{})

	temperature := dict.New()
	temperature.Set("Temperature", int64(100))
	temperature.Set("Temperature.attrib", "Kelvin")
	fermi := dict.New()
	fermi.Set("Fermi", temperature)
	dftb := dict.New()
	dftb.Set("Scc", true)
	dftb.Set("Filling", fermi)
	outer := dict.New()
	outer.Set("DFTB", dftb)
	expected := dict.New()
	expected.Set("Hamiltonian", outer)

	require.True(t, expected.Equal(d), "got %v", d)
}

func TestSiblingAggregation(t *testing.T) {
	input := `ExternalField {
  PointCharges [au] {
    GaussianBlurWidth = 3
  }
  PointCharges {
    GaussianBlurWidth = 5
  }
  PointCharges {
    GaussianBlurWidth = 7
  }
}
`
	d := mustBuild(t, input, dict.BuilderConfig{})

	first := dict.New()
	first.Set("GaussianBlurWidth", int64(3))
	second := dict.New()
	second.Set("GaussianBlurWidth", int64(5))
	third := dict.New()
	third.Set("GaussianBlurWidth", int64(7))
	field := dict.New()
	field.Set("PointCharges", []*dict.Dict{first, second, third})
	field.Set("PointCharges.attrib", []any{"au", nil, nil})
	expected := dict.New()
	expected.Set("ExternalField", field)

	require.True(t, expected.Equal(d), "got %v", d)
}

func TestRepeatedLeafData(t *testing.T) {
	// Repeated tags holding plain data get boxed under the reserved key so
	// they can share the sibling list with true nodes.
	d := mustBuild(t, "a {\n  b = 1\n  b { c = 2 }\n}\n", dict.BuilderConfig{})

	boxed := dict.New()
	boxed.Set(dict.DataKey, int64(1))
	node := dict.New()
	node.Set("c", int64(2))
	inner := dict.New()
	inner.Set("b", []*dict.Dict{boxed, node})
	expected := dict.New()
	expected.Set("a", inner)

	require.True(t, expected.Equal(d), "got %v", d)
}

func TestSiblingsWithoutAttributesGetNoAttribEntry(t *testing.T) {
	d := mustBuild(t, "a { x = 1 }\na { x = 2 }\n", dict.BuilderConfig{})
	require.False(t, d.Has("a.attrib"))
}

func TestCaseSensitiveByDefault(t *testing.T) {
	d := mustBuild(t, "Region { x = 1 }\nREgion { x = 2 }\n", dict.BuilderConfig{})
	require.Equal(t, []string{"Region", "REgion"}, d.Keys())
}

func TestFoldTagNames(t *testing.T) {
	d := mustBuild(t, "Region { x = 1 }\nREgion { x = 2 }\n", dict.BuilderConfig{FoldTagNames: true})
	require.Equal(t, []string{"region"}, d.Keys())
	v, ok := d.Get("region")
	require.True(t, ok)
	list, ok := v.([]*dict.Dict)
	require.True(t, ok)
	require.Len(t, list, 2)
}

func TestRecordMeta(t *testing.T) {
	d := mustBuild(t, "Hamiltonian = DFTB {\n  Scc = Yes\n}\n", dict.BuilderConfig{RecordMeta: true})

	v, ok := d.Get("Hamiltonian.meta")
	require.True(t, ok)
	meta, ok := v.(*parser.Meta)
	require.True(t, ok)
	require.Equal(t, 1, meta.Line)
	require.True(t, meta.Equal)

	outer, _ := d.Get("Hamiltonian")
	dftb := outer.(*dict.Dict)
	v, ok = dftb.Get("DFTB.meta")
	require.True(t, ok)
	meta = v.(*parser.Meta)
	require.False(t, meta.Equal)
	require.Empty(t, meta.Name)
}

func TestRecordMetaKeepsOriginalSpelling(t *testing.T) {
	d := mustBuild(t, "Driver {}\n", dict.BuilderConfig{FoldTagNames: true, RecordMeta: true})
	v, ok := d.Get("driver.meta")
	require.True(t, ok)
	require.Equal(t, "Driver", v.(*parser.Meta).Name)
}

func TestRecordMetaForSiblings(t *testing.T) {
	d := mustBuild(t, "a = 1\na = 2\n", dict.BuilderConfig{RecordMeta: true})
	v, ok := d.Get("a.meta")
	require.True(t, ok)
	metas, ok := v.([]*parser.Meta)
	require.True(t, ok)
	require.Len(t, metas, 2)
	require.Equal(t, 1, metas[0].Line)
	require.Equal(t, 2, metas[1].Line)
}
