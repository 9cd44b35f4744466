package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneNumber(t *testing.T) {
	t.Run("exposes area code and number separately", func(t *testing.T) {
		phone := NewPhoneNumber("11", "987654321")
		assert.Equal(t, "11", phone.AreaCode())
		assert.Equal(t, "987654321", phone.Number())
	})

	t.Run("full form concatenates with no separator", func(t *testing.T) {
		tests := []struct {
			areaCode string
			number   string
			want     string
		}{
			{"11", "987654321", "11987654321"},
			{"21", "33334444", "2133334444"},
			{"", "12345", "12345"},
			{"85", "", "85"},
		}
		for _, tt := range tests {
			phone := NewPhoneNumber(tt.areaCode, tt.number)
			assert.Equal(t, tt.want, phone.Full())
		}
	})

	t.Run("equality is by field value", func(t *testing.T) {
		a := NewPhoneNumber("11", "987654321")
		b := NewPhoneNumber("11", "987654321")
		c := NewPhoneNumber("21", "987654321")

		assert.True(t, a.Equals(b))
		assert.False(t, a.Equals(c))
	})
}
