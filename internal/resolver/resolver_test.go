package resolver

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsplice/docsplice/internal/generator"
)

type stubGenerator struct {
	id     string
	schema *generator.Schema
}

func (s *stubGenerator) ValidateOptions(raw map[string]any) (generator.Options, error) {
	return s.schema.Validate(raw)
}

func (s *stubGenerator) Generate(afero.Fs, string, string, generator.Options) ([]string, error) {
	return []string{s.id}, nil
}

func registerStub(t *testing.T, name string) *int {
	t.Helper()
	instantiations := new(int)
	generator.Register(name, func() generator.Generator {
		*instantiations++
		return &stubGenerator{
			id: name,
			schema: generator.NewSchema(
				generator.Field{Name: "depth", Kind: generator.IntField, Default: 2},
				generator.Field{Name: "deep", Kind: generator.BoolField, Default: true},
			),
		}
	})
	return instantiations
}

func TestResolveFirstMatchWins(t *testing.T) {
	registerStub(t, "stub-first")
	registerStub(t, "stub-second")

	r, err := New([]Rule{
		{Glob: "*.py", Generator: "stub-first"},
		{Glob: "pkg/exact.py", Generator: "stub-second"},
	})
	require.NoError(t, err)

	// The later rule is the more specific match, but order decides.
	gen, _, err := r.Resolve("pkg/exact.py", nil)
	require.NoError(t, err)
	assert.Equal(t, "stub-first", gen.(*stubGenerator).id)
}

func TestResolveNoMatch(t *testing.T) {
	r, err := New([]Rule{{Glob: "*.py", Generator: "stub-first"}})
	require.NoError(t, err)

	_, _, err = r.Resolve("README.rst", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRule))
	assert.Contains(t, err.Error(), "README.rst")
}

func TestResolveExplicitOverride(t *testing.T) {
	registerStub(t, "stub-override")

	// No rule matches .rst, but the override skips rule matching.
	r, err := New(nil)
	require.NoError(t, err)

	gen, opts, err := r.Resolve("README.rst", map[string]any{"generator": "stub-override"})
	require.NoError(t, err)
	assert.Equal(t, "stub-override", gen.(*stubGenerator).id)

	// The override key must not leak into validated options.
	_, present := opts["generator"]
	assert.False(t, present)
}

func TestResolveMergesRuleDefaultsUnderRawOptions(t *testing.T) {
	registerStub(t, "stub-merge")

	r, err := New([]Rule{{
		Glob:      "*.py",
		Generator: "stub-merge",
		Options:   map[string]any{"depth": 3, "deep": false},
	}})
	require.NoError(t, err)

	_, opts, err := r.Resolve("mod.py", map[string]any{"depth": 5})
	require.NoError(t, err)

	assert.Equal(t, 5, opts.Int("depth"), "invocation options override rule defaults")
	assert.False(t, opts.Bool("deep"), "rule defaults fill the gaps")
}

func TestResolveCachesGeneratorInstances(t *testing.T) {
	instantiations := registerStub(t, "stub-cache")

	r, err := New([]Rule{{Glob: "*.py", Generator: "stub-cache"}})
	require.NoError(t, err)

	first, _, err := r.Resolve("a.py", nil)
	require.NoError(t, err)
	second, _, err := r.Resolve("b.py", nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, *instantiations)
}

func TestResolveUnknownGenerator(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	_, _, err = r.Resolve("mod.py", map[string]any{"generator": "does-not-exist"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownGenerator))
}

func TestResolvePropagatesValidationErrors(t *testing.T) {
	registerStub(t, "stub-validate")

	r, err := New([]Rule{{Glob: "*.py", Generator: "stub-validate"}})
	require.NoError(t, err)

	_, _, err = r.Resolve("mod.py", map[string]any{"bogus": true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrInvalidOptions))
	assert.Contains(t, err.Error(), "bogus")
}

func TestResolveDoesNotMutateRawOptions(t *testing.T) {
	registerStub(t, "stub-copy")

	r, err := New(nil)
	require.NoError(t, err)

	raw := map[string]any{"generator": "stub-copy", "depth": 3}
	_, _, err = r.Resolve("mod.py", raw)
	require.NoError(t, err)

	assert.Equal(t, "stub-copy", raw["generator"], "caller's map must stay intact")
}

func TestNewRejectsBadGlob(t *testing.T) {
	_, err := New([]Rule{{Glob: "[", Generator: "stub-first"}})
	assert.Error(t, err)
}

func TestGlobMatchesAnywhereInPath(t *testing.T) {
	registerStub(t, "stub-path")

	r, err := New([]Rule{{Glob: "*.py", Generator: "stub-path"}})
	require.NoError(t, err)

	_, _, err = r.Resolve("deep/nested/mod.py", nil)
	assert.NoError(t, err)
}
