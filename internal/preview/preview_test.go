package preview

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	md := Table("Income Summary", []string{"Year", "Source"}, [][]string{
		{"2021", "LIC"},
		{"2022", "SSY|PPF"},
		{"2023", "Bond"},
	}, 2)

	assert.Equal(t, "## Income Summary\n\n"+
		"| Year | Source |\n"+
		"| --- | --- |\n"+
		"| 2021 | LIC |\n"+
		"| 2022 | SSY\\|PPF |\n"+
		"\n_1 more rows_\n", md)
}

func TestTableEmpty(t *testing.T) {
	assert.Equal(t, "## SSY\n\n_no rows_\n", Table("SSY", []string{"Year"}, nil, 10))
}

func TestRender(t *testing.T) {
	out, err := Render(Table("LIC", []string{"Year", "Amount"}, [][]string{{"2021", "50000"}}, 10), 80)
	require.NoError(t, err)
	assert.Contains(t, out, "LIC")
	assert.Contains(t, out, "50000")
}

func TestINR(t *testing.T) {
	s := INR(decimal.NewFromInt(123456))
	assert.Contains(t, s, "₹")
	assert.Contains(t, s, "456.00")
}
