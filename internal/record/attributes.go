package record

import "encoding/json"

// ParseAttributes decodes the raw field_values payload the API attaches to
// each record. Malformed payloads yield an empty bag rather than an error:
// a bad bag only means every projected field reads as absent, which is the
// contract extraction callers rely on.
func ParseAttributes(raw []byte) []Attribute {
	if len(raw) == 0 {
		return nil
	}
	var attrs []Attribute
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil
	}
	return attrs
}

// EncodeAttributes renders an attribute bag back to its wire form for
// snapshot storage. Encoding a bag that was decoded by ParseAttributes is
// lossless.
func EncodeAttributes(attrs []Attribute) []byte {
	if len(attrs) == 0 {
		return []byte("[]")
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return []byte("[]")
	}
	return raw
}
