package reconcile_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"config-reconciler/callable"
	"config-reconciler/plain"
	"config-reconciler/reconcile"
)

type identity struct {
	Name  string `cfg:"name"`
	Level int    `cfg:"level"`
}

type tagged struct {
	identity
	Name     string        `cfg:"name"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	Plain    string
	Skipped  string `cfg:"-"`
	Hidden   string `yaml:"-"`
	Renamed  string `cfg:"renamed" yaml:"ignored"`
	internal string
}

func ExampleToMap() {
	params := usdParams{ClippingRange: [2]float64{0.1, 100}, FocalLength: 24}

	m, err := reconcile.ToMap(&params)
	if err != nil {
		panic(err)
	}

	fmt.Print(reconcile.Render(m))
	// Output:
	// clipping_range: [0.1 100]
	// focal_length: 24
}

func TestToMap_FieldKeys(t *testing.T) {
	v := tagged{
		identity: identity{Name: "inner", Level: 2},
		Name:     "outer",
		Timeout:  time.Second,
		Plain:    "p",
		Skipped:  "s",
		Hidden:   "h",
		Renamed:  "r",
		internal: "i",
	}

	m, err := reconcile.ToMap(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "level", "timeout", "Plain", "renamed"}, m.Keys())

	name, _ := m.Get("name")
	assert.Equal(t, "outer", name)

	timeout, _ := m.Get("timeout")
	assert.Equal(t, time.Second, timeout)

	var dst tagged
	require.NoError(t, reconcile.Merge(&dst, plain.Of("level", 5, "name", "n", "renamed", "x")))
	assert.Equal(t, 5, dst.Level)
	assert.Equal(t, "n", dst.Name)
	assert.Empty(t, dst.identity.Name)
	assert.Equal(t, "x", dst.Renamed)

	for _, key := range []string{"Skipped", "Hidden", "internal", "ignored"} {
		assert.ErrorIs(t, reconcile.Merge(&dst, plain.Of(key, "v")), reconcile.ErrUnknownKey, key)
	}
}

type lensParams struct {
	Aperture float64 `cfg:"aperture"`
}

type lensCfg struct {
	lens   lensParams `yaml:",inline"`
	Shared lensParams `yaml:",inline"`
	Zoom   int        `cfg:"zoom"`
}

func TestToMap_UnexportedInlineFieldIsSkipped(t *testing.T) {
	src := lensCfg{lens: lensParams{Aperture: 1.4}, Shared: lensParams{Aperture: 2.8}, Zoom: 3}

	m, err := reconcile.ToMap(src)
	require.NoError(t, err)
	assert.Equal(t, plain.Of("aperture", 2.8, "zoom", 3), m)

	var dst lensCfg
	require.NoError(t, reconcile.Merge(&dst, plain.Of("aperture", 4.0, "zoom", 2)))
	assert.Equal(t, lensCfg{Shared: lensParams{Aperture: 4}, Zoom: 2}, dst)
}

func TestToMap_Nested(t *testing.T) {
	src := sensorCfg{
		Height:    2,
		DataTypes: []string{"rgb"},
		Gains:     map[string]float64{"z": 1, "a": 2, "__private": 3},
		Usd:       usdParams{FocalLength: 24},
	}

	m, err := reconcile.ToMap(&src)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"height", "width", "data_types", "offsets", "gains", "usd_params", "extra", "label", "Name", "hook",
	}, m.Keys())

	dataTypes, _ := m.Get("data_types")
	assert.Equal(t, []any{"rgb"}, dataTypes)

	gains, _ := m.Get("gains")
	assert.Equal(t, plain.Of("a", 2.0, "z", 1.0), gains)

	usd, _ := m.Get("usd_params")
	assert.Equal(t, plain.Of("clipping_range", []any{0.0, 0.0}, "focal_length", 24.0), usd)

	extra, _ := m.Get("extra")
	assert.Nil(t, extra)

	label, ok := m.Get("label")
	assert.True(t, ok)
	assert.Equal(t, "", label)

	// the result does not alias the source
	dataTypes.([]any)[0] = "depth"
	assert.Equal(t, []string{"rgb"}, src.DataTypes)
}

func TestToMap_GenericMappings(t *testing.T) {
	m, err := reconcile.ToMap(map[string]any{"b": 1, "a": map[string]any{"y": 2, "x": 1}, "__hidden": 3})
	require.NoError(t, err)
	assert.Equal(t, plain.Of("a", plain.Of("x", 1, "y", 2), "b", 1), m)

	src := plain.Of("z", 1, "__skip", 2, "nested", plain.Of("k", []any{1, "two"}))

	m, err = reconcile.ToMap(src)
	require.NoError(t, err)
	assert.Equal(t, plain.Of("z", 1, "nested", plain.Of("k", []any{1, "two"})), m)
	assert.NotSame(t, src, m)

	m, err = reconcile.ToMap(*src)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "nested"}, m.Keys())
}

func TestToMap_InvalidInput(t *testing.T) {
	for _, v := range []any{nil, 42, "text", []int{1, 2}, (*sensorCfg)(nil), map[int]string{1: "a"}, double} {
		_, err := reconcile.ToMap(v)
		assert.ErrorIs(t, err, reconcile.ErrInvalidInput, "%T", v)
	}
}

func TestToMap_UnencodableFunction(t *testing.T) {
	factor := 3
	src := sensorCfg{Hook: func(i int) int { return factor * i }}

	_, err := reconcile.ToMap(&src)
	require.Error(t, err)
	assert.ErrorIs(t, err, callable.ErrEncoding)
	assert.Equal(t, "/hook", fieldError(t, err).Path)
}

func TestToMap_UnregisteredFunction(t *testing.T) {
	src := sensorCfg{Hook: negate}

	_, err := reconcile.ToMap(&src, reconcile.WithRegistry(callable.New()))
	require.ErrorIs(t, err, callable.ErrEncoding)
	assert.Equal(t, "/hook", fieldError(t, err).Path)

	reg := callable.New(callable.WithEncodeUnregistered())

	m, err := reconcile.ToMap(&src, reconcile.WithRegistry(reg))
	require.NoError(t, err)

	hook, _ := m.Get("hook")
	assert.Equal(t, testModule+":negate", hook)
}

func TestMergeMaps(t *testing.T) {
	base := plain.Of("a", plain.Of("x", 1, "y", 2), "b", 1, "c", plain.Of("k", 1))
	overlay := plain.Of(
		"a", plain.Of("y", 3, "z", 4),
		"b", plain.Of("c", 1),
		"c", "flat",
		"d", "new",
	)

	got := reconcile.MergeMaps(base, overlay)
	assert.Same(t, base, got)

	want := plain.Of(
		"a", plain.Of("x", 1, "y", 3, "z", 4),
		"b", plain.Of("c", 1),
		"c", "flat",
		"d", "new",
	)
	assert.Equal(t, want, got)

	got = reconcile.MergeMaps(nil, plain.Of("k", 1))
	assert.Equal(t, plain.Of("k", 1), got)

	assert.Equal(t, plain.Of("k", 1), reconcile.MergeMaps(got, nil))
}

func TestMergeMaps_CopiesOverlayMappings(t *testing.T) {
	base := plain.New()
	first := plain.Of("usd", plain.Of("focal_length", 24.0))

	reconcile.MergeMaps(base, first)
	reconcile.MergeMaps(base, plain.Of("usd", plain.Of("focal_length", 35.0, "aperture", 2.8)))

	assert.Equal(t, plain.Of("usd", plain.Of("focal_length", 24.0)), first)
	assert.Equal(t, plain.Of("usd", plain.Of("focal_length", 35.0, "aperture", 2.8)), base)
}

func TestRender(t *testing.T) {
	m := plain.Of("a", plain.Of("b", 1, "c", 2))
	assert.Equal(t, "a:\n    b: 1\n    c: 2\n", reconcile.Render(m))

	m = plain.Of("z", true, "seq", []any{1, 2}, "deep", plain.Of("one", plain.Of("two", "x")), "n", nil)
	assert.Equal(t, "z: true\nseq: [1 2]\ndeep:\n    one:\n        two: x\nn: <nil>\n", reconcile.Render(m))

	assert.Empty(t, reconcile.Render(nil))

	var buf bytes.Buffer
	require.NoError(t, reconcile.Fprint(&buf, m))
	assert.Equal(t, reconcile.Render(m), buf.String())
}
