package python

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsplice/docsplice/internal/generator"
)

const calculatorSource = `class Calculator:
    """A simple calculator."""

    def add(self, x):
        """Adds two numbers.

        Args:
            x (int): The addend.
        """
        return self.total + x
`

func generate(t *testing.T, source, symbol string, raw map[string]any) []string {
	t.Helper()
	g := New()
	opts, err := g.ValidateOptions(raw)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "mod.py", []byte(source), 0o644))

	frags, err := g.Generate(fsys, "mod.py", symbol, opts)
	require.NoError(t, err)
	return frags
}

// assertOrder checks that the markers appear in the joined output in order.
func assertOrder(t *testing.T, frags []string, markers ...string) {
	t.Helper()
	joined := strings.Join(frags, "\n\n")
	last := -1
	for _, marker := range markers {
		idx := strings.Index(joined, marker)
		require.GreaterOrEqual(t, idx, 0, "missing %q in output:\n%s", marker, joined)
		assert.Greater(t, idx, last, "%q out of order in output:\n%s", marker, joined)
		last = idx
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	t.Parallel()

	frags := generate(t, calculatorSource, "", nil)
	assertOrder(t, frags,
		"## mod.py",
		"### Calculator",
		"A simple calculator.",
		"#### Calculator#add(x)",
		"Adds two numbers.",
		"##### Arguments",
		"| x | int | The addend. | - |",
		"##### Returns",
		"| - | - |",
	)
}

func TestGenerateSymbolLookup(t *testing.T) {
	t.Parallel()

	frags := generate(t, calculatorSource, "Calculator.add", nil)
	require.NotEmpty(t, frags)
	assert.Equal(t, "## Calculator#add(x)", frags[0])
}

func TestGenerateSymbolNotFound(t *testing.T) {
	t.Parallel()

	frags := generate(t, calculatorSource, "Calculator.missing", nil)
	assert.Empty(t, frags)

	frags = generate(t, calculatorSource, "NoSuchClass", nil)
	assert.Empty(t, frags)
}

func TestGenerateDeclarationOrder(t *testing.T) {
	t.Parallel()

	source := `class Ops:
    """Ops."""

    def b(self):
        """B."""

    def a(self):
        """A."""

    def c(self):
        """C."""
`
	frags := generate(t, source, "Ops", nil)
	assertOrder(t, frags, "Ops#b()", "Ops#a()", "Ops#c()")
}

func TestGenerateHideUndocumented(t *testing.T) {
	t.Parallel()

	source := "def silent():\n    pass\n"

	frags := generate(t, source, "silent", nil)
	assert.Empty(t, frags, "undocumented function is suppressed by default")

	frags = generate(t, source, "silent", map[string]any{"hide_undocumented": false})
	assertOrder(t, frags, "## silent()", "### Returns", "| - | - |")
	assert.NotContains(t, strings.Join(frags, "\n\n"), "Arguments",
		"no Arguments table for a function without parameters")
}

func TestGeneratePrivateSuppression(t *testing.T) {
	t.Parallel()

	source := `class Box:
    """Box."""

    def _helper(self):
        """Hidden by default."""

    def __init__(self):
        """Dunder names are not private."""
`
	joined := strings.Join(generate(t, source, "Box", nil), "\n\n")
	assert.NotContains(t, joined, "_helper")
	assert.Contains(t, joined, "Box#__init__()")

	joined = strings.Join(generate(t, source, "Box", map[string]any{"private": true}), "\n\n")
	assert.Contains(t, joined, "Box#_helper()")
}

func TestGenerateStaticMethodSeparator(t *testing.T) {
	t.Parallel()

	source := `class C:
    """C."""

    @staticmethod
    def s(x):
        """Static."""

    @classmethod
    def k(cls, x):
        """Class-level."""

    def m(self, x):
        """Instance."""
`
	joined := strings.Join(generate(t, source, "C", nil), "\n\n")
	assert.Contains(t, joined, "C.s(x)")
	assert.Contains(t, joined, "C.k(x)")
	assert.Contains(t, joined, "C#m(x)")
}

func TestGenerateUndocumentedClassKeepsDocumentedMembers(t *testing.T) {
	t.Parallel()

	source := `class Quiet:
    def loud(self):
        """Documented method inside an undocumented class."""
`
	frags := generate(t, source, "Quiet", nil)
	require.NotEmpty(t, frags)
	joined := strings.Join(frags, "\n\n")
	assert.NotContains(t, joined, "## Quiet\n")
	assert.Contains(t, joined, "Quiet#loud()")
}

func TestGenerateParameterFallbacks(t *testing.T) {
	t.Parallel()

	source := `def scale(x: int = 5):
    """Scales.

    Returns:
        int: The scaled value.
    """
`
	frags := generate(t, source, "scale", nil)
	assertOrder(t, frags,
		"## scale(x: int = 5)",
		"| x | int | - | 5 |",
		"| int | The scaled value. |",
	)
}

func TestGenerateModuleDocstring(t *testing.T) {
	t.Parallel()

	source := `"""Utility helpers.

Shared across the project.
"""
`
	frags := generate(t, source, "", nil)
	assertOrder(t, frags, "## mod.py", "Utility helpers.", "Shared across the project.")
}

func TestGenerateDepthOption(t *testing.T) {
	t.Parallel()

	frags := generate(t, calculatorSource, "Calculator", map[string]any{"depth": 3})
	assertOrder(t, frags, "### Calculator", "#### Calculator#add(x)")
}

func TestGenerateDeepFalse(t *testing.T) {
	t.Parallel()

	frags := generate(t, calculatorSource, "", map[string]any{"deep": false})
	require.Len(t, frags, 1)
	assert.Equal(t, "## mod.py", frags[0])
}

func TestGenerateRecursionCap(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < maxNesting+4; i++ {
		indent := strings.Repeat("    ", i)
		fmt.Fprintf(&b, "%sdef f%d():\n", indent, i)
		fmt.Fprintf(&b, "%s    \"\"\"Level %d.\"\"\"\n", indent, i)
	}

	g := New()
	opts, err := g.ValidateOptions(nil)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "mod.py", []byte(b.String()), 0o644))

	_, err = g.Generate(fsys, "mod.py", "", opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooDeep))
}

func TestValidateOptionsRejectsBadDepth(t *testing.T) {
	t.Parallel()

	_, err := New().ValidateOptions(map[string]any{"depth": 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrInvalidOptions))
}

func TestValidateOptionsRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := New().ValidateOptions(map[string]any{"hide-undocumented": true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrInvalidOptions))
}

func TestGenerateUnknownEncoding(t *testing.T) {
	t.Parallel()

	g := New()
	opts, err := g.ValidateOptions(map[string]any{"encoding": "no-such-charset"})
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "mod.py", []byte("x = 1\n"), 0o644))

	_, err = g.Generate(fsys, "mod.py", "", opts)
	assert.Error(t, err)
}

func TestGenerateMissingFile(t *testing.T) {
	t.Parallel()

	g := New()
	opts, err := g.ValidateOptions(nil)
	require.NoError(t, err)

	_, err = g.Generate(afero.NewMemMapFs(), "absent.py", "", opts)
	assert.Error(t, err)
}
