package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"already normalized", "15/03/2024", "15/03/2024", true},
		{"dash separators", "15-03-2024", "15/03/2024", true},
		{"dot separators", "15.03.2024", "15/03/2024", true},
		{"unpadded day and month", "1/2/2024", "01/02/2024", true},
		{"two digit year pivots to 2000s", "15/03/24", "15/03/2024", true},
		{"two digit year pivots to 1900s", "15/03/99", "15/03/1999", true},
		{"pivot boundary 51 is 1951", "01/01/51", "01/01/1951", true},
		{"pivot boundary 50 is 2050", "01/01/50", "01/01/2050", true},
		{"worded month", "15 March 2024", "15/03/2024", true},
		{"worded month abbreviated", "3 Sep 2019", "03/09/2019", true},
		{"malformed passes through", "not a date", "not a date", false},
		{"empty passes through", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
