package people

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerlift/statex/internal/config"
)

func TestResolve(t *testing.T) {
	d := NewDirectory([]config.Person{
		{ID: "arun", Name: "Arun Venkatesan", Aliases: []string{"ARUN  VENKATESAN", "A VENKATESAN"}},
		{ID: "meena", Name: "Meena Arun"},
	})

	tests := []struct {
		raw  string
		want string
	}{
		{"ARUN VENKATESAN", "Arun Venkatesan"},
		{" a venkatesan ", "Arun Venkatesan"},
		{"meena arun", "Meena Arun"},
		{"KAVYA RAO", "Kavya Rao"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Resolve(tt.raw))
		})
	}
}

func TestLookup(t *testing.T) {
	d := NewDirectory([]config.Person{{ID: "arun", Name: "Arun Venkatesan"}})

	p, ok := d.Get("arun")
	assert.True(t, ok)
	assert.Equal(t, "Arun Venkatesan", p.Name)
	assert.True(t, d.Exists("arun"))
	assert.False(t, d.Exists("meena"))
	assert.Len(t, d.All(), 1)
}
