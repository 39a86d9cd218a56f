package jsdoc

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartSource = `/**
 * Shopping cart helpers.
 */

/**
 * A cart of line items.
 */
export class Cart {
  /**
   * Adds an item.
   *
   * @param {string} sku - The item SKU.
   * @param {number} [qty=1] Quantity to add.
   * @returns {number} The new item count.
   */
  add(sku, qty = 1) {
    return this.items.push({ sku, qty });
  }

  /** Empties the cart. */
  static reset() {}
}

function undocumented(x) {}
`

func generate(t *testing.T, source, symbol string, raw map[string]any) []string {
	t.Helper()
	g := New()
	opts, err := g.ValidateOptions(raw)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "cart.js", []byte(source), 0o644))

	frags, err := g.Generate(fsys, "cart.js", symbol, opts)
	require.NoError(t, err)
	return frags
}

func TestGenerateClass(t *testing.T) {
	t.Parallel()

	joined := strings.Join(generate(t, cartSource, "Cart", nil), "\n\n")

	assert.Contains(t, joined, "## Cart")
	assert.Contains(t, joined, "A cart of line items.")
	assert.Contains(t, joined, "Cart#add(sku, qty = 1)")
	assert.Contains(t, joined, "| sku | string | The item SKU. | - |")
	assert.Contains(t, joined, "| qty | number | Quantity to add. | 1 |")
	assert.Contains(t, joined, "| number | The new item count. |")
	assert.Contains(t, joined, "Cart.reset()", "static methods join with a dot")
}

func TestGenerateModuleHeadingAndDoc(t *testing.T) {
	t.Parallel()

	frags := generate(t, cartSource, "", nil)
	require.NotEmpty(t, frags)
	assert.Equal(t, "## cart.js", frags[0])
	assert.Equal(t, "Shopping cart helpers.", frags[1])
}

func TestGenerateHidesUndocumented(t *testing.T) {
	t.Parallel()

	joined := strings.Join(generate(t, cartSource, "", nil), "\n\n")
	assert.NotContains(t, joined, "undocumented")

	joined = strings.Join(generate(t, cartSource, "", map[string]any{"hide_undocumented": false}), "\n\n")
	assert.Contains(t, joined, "undocumented(x)")
}

func TestGenerateSymbolNotFound(t *testing.T) {
	t.Parallel()

	frags := generate(t, cartSource, "Cart.remove", nil)
	assert.Empty(t, frags)
}

func TestGenerateMethodSymbol(t *testing.T) {
	t.Parallel()

	frags := generate(t, cartSource, "Cart.add", nil)
	require.NotEmpty(t, frags)
	assert.Contains(t, frags[0], "Cart#add(sku, qty = 1)")
}
