package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt is a non-negative int that can be unmarshaled from either a JSON number or a JSON string.
// Form posts from the web client send numeric fields as strings.
type FlexInt int

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return fmt.Errorf("FlexInt: negative value %d", n)
		}
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		val, err := strconv.ParseUint(s, 10, 31)
		if err != nil {
			return fmt.Errorf("FlexInt: invalid integer string %q: %w", s, err)
		}
		*f = FlexInt(val)
		return nil
	}

	return fmt.Errorf("FlexInt: unexpected type, expected number or string")
}

// Clamp returns the value bounded to [0, max]; zero means "use def".
func (f FlexInt) Clamp(def, max int) int {
	v := int(f)
	if v == 0 {
		v = def
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}
