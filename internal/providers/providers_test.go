package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{
		"epf", "geojit", "icici-benefits", "icici-equity", "iifl", "lic-receipts", "lic-sheet",
	}, r.Formats())

	c := r.Get("GEOJIT")
	require.NotNil(t, c)
	assert.True(t, c.DefaultRecursive())
	assert.False(t, r.Get("epf").DefaultRecursive())
	assert.Nil(t, r.Get("zerodha"))
}
