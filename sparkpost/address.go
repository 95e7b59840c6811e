package sparkpost

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

// addressPattern matches an optional, optionally quoted display name
// followed by an email in angle brackets.
var addressPattern = regexp.MustCompile(`"?(.[^"]*)?"?\s*<(.+)>`)

// EmailAddress is the structured form of an address.
type EmailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`

	// HeaderTo backs the visible To: line for carbon- and blind-copied
	// recipients. nil means the key is absent; an empty string is sent.
	HeaderTo *string `json:"header_to,omitempty"`
}

// String renders the address as `"Name" <email>`, or the bare email when
// there is no name.
func (e EmailAddress) String() string {
	if e.Name != "" {
		return `"` + e.Name + `" <` + e.Email + `>`
	}
	return e.Email
}

// ParseAddress converts a free-text address into its structured form.
// Strings without an angle-bracketed email are taken whole as the email.
// An unquoted name is kept as written, including the space before '<'.
// No RFC 5322 validation is performed.
func ParseAddress(s string) EmailAddress {
	m := addressPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return EmailAddress{Email: s}
	}

	addr := EmailAddress{Email: s[m[4]:m[5]]}
	if m[2] >= 0 {
		addr.Name = s[m[2]:m[3]]
	}
	return addr
}

// Address is either a free-text address ("Name <email>" or "email") or a
// structured EmailAddress. The zero value is an empty text address.
type Address struct {
	text   string
	object *EmailAddress
}

// AddressText returns the text form of an address.
func AddressText(s string) Address {
	return Address{text: s}
}

// AddressOf returns the object form of an address.
func AddressOf(e EmailAddress) Address {
	return Address{object: &e}
}

// IsText reports whether the address is in text form.
func (a Address) IsText() bool {
	return a.object == nil
}

// Object returns the structured form. Object-form addresses are returned
// as they are; text-form addresses are parsed.
func (a Address) Object() EmailAddress {
	if a.object != nil {
		return *a.object
	}
	return ParseAddress(a.text)
}

// String returns the text form. Text-form addresses pass through unchanged.
func (a Address) String() string {
	if a.object != nil {
		return a.object.String()
	}
	return a.text
}

func (a Address) clone() Address {
	if a.object == nil {
		return a
	}
	obj := *a.object
	if obj.HeaderTo != nil {
		headerTo := *obj.HeaderTo
		obj.HeaderTo = &headerTo
	}
	return Address{object: &obj}
}

// MarshalJSON encodes the text form as a JSON string and the object form
// as a JSON object.
func (a Address) MarshalJSON() ([]byte, error) {
	if a.object != nil {
		return json.Marshal(a.object)
	}
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts either a JSON string or an address object.
func (a *Address) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj EmailAddress
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*a = Address{object: &obj}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("address must be a string or an object: %w", err)
	}
	*a = Address{text: text}
	return nil
}
