package valueobject

// CPF is a value object wrapping a Brazilian taxpayer registry number.
// The raw input is stored verbatim: no checksum or format validation is
// performed, so placeholder values such as "000.000.000-00" are accepted.
// It is immutable - the zero value means "not informed".
type CPF struct {
	value string
}

// NewCPF creates a CPF from its textual representation
func NewCPF(value string) CPF {
	return CPF{value: value}
}

// Value returns the raw document string
func (c CPF) Value() string {
	return c.value
}

// IsZero returns true when no document was informed
func (c CPF) IsZero() bool {
	return c.value == ""
}

// Equals returns true if both documents carry the same raw value
func (c CPF) Equals(other CPF) bool {
	return c.value == other.value
}

// String returns the raw document string
func (c CPF) String() string {
	return c.value
}

// RG is a value object wrapping a Brazilian general registry number.
// Same contract as CPF: stored verbatim, immutable, no validation.
type RG struct {
	value string
}

// NewRG creates an RG from its textual representation
func NewRG(value string) RG {
	return RG{value: value}
}

// Value returns the raw document string
func (r RG) Value() string {
	return r.value
}

// IsZero returns true when no document was informed
func (r RG) IsZero() bool {
	return r.value == ""
}

// Equals returns true if both documents carry the same raw value
func (r RG) Equals(other RG) bool {
	return r.value == other.value
}

// String returns the raw document string
func (r RG) String() string {
	return r.value
}
