package valueobject

// PhoneNumber is a value object composed of an area code (DDD) and a
// subscriber number. Both parts are stored as given, with no formatting
// applied. It is immutable.
type PhoneNumber struct {
	areaCode string
	number   string
}

// NewPhoneNumber creates a phone number from its area code and subscriber number
func NewPhoneNumber(areaCode, number string) PhoneNumber {
	return PhoneNumber{
		areaCode: areaCode,
		number:   number,
	}
}

// AreaCode returns the DDD part
func (p PhoneNumber) AreaCode() string {
	return p.areaCode
}

// Number returns the subscriber number part
func (p PhoneNumber) Number() string {
	return p.number
}

// Full returns the area code concatenated with the subscriber number,
// with no separator inserted.
func (p PhoneNumber) Full() string {
	return p.areaCode + p.number
}

// Equals returns true if area code and number both match
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.areaCode == other.areaCode && p.number == other.number
}

// String returns the concatenated form
func (p PhoneNumber) String() string {
	return p.Full()
}
