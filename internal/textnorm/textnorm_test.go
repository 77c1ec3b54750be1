package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapse(t *testing.T) {
	assert.Equal(t, "a b c", Collapse("  a\t\tb \n c  "))
	assert.Equal(t, "", Collapse("   "))
}

func TestAmount(t *testing.T) {
	d, err := Amount("1,23,456.50")
	require.NoError(t, err)
	assert.Equal(t, "123456.5", d.String())

	_, err = Amount("")
	assert.Error(t, err)

	_, err = Amount("abc")
	assert.Error(t, err)
}

func TestOptionalAmount(t *testing.T) {
	assert.False(t, OptionalAmount("").Valid)
	assert.Equal(t, "", FormatOptional(OptionalAmount("n/a")))
	assert.Equal(t, "15000", FormatOptional(OptionalAmount("15,000")))
}

func TestNormDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"05/04/2023", "2023-04-05"},
		{"05-Apr-2023", "2023-04-05"},
		{"05-APR-2023", "2023-04-05"},
		{"20230405", "2023-04-05"},
		{"05.04.2023", "2023-04-05"},
		{"2023-04-05", "2023-04-05"},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormDate(tt.in))
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Arun Venkatesan", TitleCase("ARUN  VENKATESAN"))
	assert.Equal(t, "", TitleCase(""))
}
