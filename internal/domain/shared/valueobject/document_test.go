package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPF(t *testing.T) {
	t.Run("stores the raw value verbatim", func(t *testing.T) {
		cpf := NewCPF("123.456.789-09")
		assert.Equal(t, "123.456.789-09", cpf.Value())
	})

	t.Run("accepts malformed and placeholder values", func(t *testing.T) {
		for _, raw := range []string{"000.000.000-00", "not-a-cpf", "12345678909", ""} {
			cpf := NewCPF(raw)
			assert.Equal(t, raw, cpf.Value())
		}
	})

	t.Run("equality is by value", func(t *testing.T) {
		assert.True(t, NewCPF("111.222.333-44").Equals(NewCPF("111.222.333-44")))
		assert.False(t, NewCPF("111.222.333-44").Equals(NewCPF("111.222.333-45")))
	})

	t.Run("zero value means not informed", func(t *testing.T) {
		var cpf CPF
		assert.True(t, cpf.IsZero())
		assert.False(t, NewCPF("000.000.000-00").IsZero())
	})
}

func TestRG(t *testing.T) {
	t.Run("stores the raw value verbatim", func(t *testing.T) {
		rg := NewRG("12.345.678-9")
		assert.Equal(t, "12.345.678-9", rg.Value())
	})

	t.Run("equality is by value", func(t *testing.T) {
		assert.True(t, NewRG("00.000.000-0").Equals(NewRG("00.000.000-0")))
		assert.False(t, NewRG("00.000.000-0").Equals(NewRG("11.111.111-1")))
	})
}
