package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLICReceiptEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    LICReceipt
		want bool
	}{
		{"nothing parsed", LICReceipt{SourceFile: "2019 May.pdf", Year: "2019", Month: "May", NeedsOCR: true}, true},
		{"policy only", LICReceipt{PolicyNo: "123456789"}, false},
		{"revival only", LICReceipt{Revival: "No"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Empty())
		})
	}
}

func TestPFRecordKey(t *testing.T) {
	a := PFRecord{Person: "Arun", UAN: "1", MemberID: "M1", Year: "2021", TransactionType: "Interest", Date: "31/03/2021", Pension: "10"}
	b := a
	b.Pension = "20"
	assert.Equal(t, a.Key(), b.Key(), "amounts are not part of the key")

	b.Person = "Meena"
	assert.NotEqual(t, a.Key(), b.Key())
}
