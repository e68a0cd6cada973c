package models

import "encoding/json"

// NullableInt represents an int field that can distinguish between:
// - Field absent in JSON: Set=false, Valid=false
// - Field present with null: Set=true, Valid=false
// - Field present with value: Set=true, Valid=true
//
// Preference updates need the distinction: an absent reminder_hour leaves the
// stored value alone, while an explicit null clears the reminder. Go's standard
// JSON unmarshaling collapses both cases to nil for pointer types.
type NullableInt struct {
	Value int
	Valid bool // true if Value is not null
	Set   bool // true if field was present in JSON
}

// UnmarshalJSON implements custom JSON unmarshaling for NullableInt.
func (ni *NullableInt) UnmarshalJSON(data []byte) error {
	ni.Set = true

	if string(data) == "null" {
		ni.Valid = false
		ni.Value = 0
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	ni.Value = v
	ni.Valid = true
	return nil
}

// MarshalJSON implements custom JSON marshaling for NullableInt.
func (ni NullableInt) MarshalJSON() ([]byte, error) {
	if !ni.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ni.Value)
}

// ToPtr converts NullableInt to *int. Returns nil if Valid is false.
func (ni NullableInt) ToPtr() *int {
	if !ni.Valid {
		return nil
	}
	return &ni.Value
}
