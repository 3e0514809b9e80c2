package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DiscountMode is how the additional manual discount is entered:
// an absolute amount or a percentage of the discounted subtotal
type DiscountMode string

const (
	DiscountModeAmount  DiscountMode = "amount"
	DiscountModePercent DiscountMode = "percent"
)

// Valid reports whether the mode is known
func (m DiscountMode) Valid() bool {
	return m == DiscountModeAmount || m == DiscountModePercent
}

func (m DiscountMode) String() string {
	return string(m)
}

func (m DiscountMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *DiscountMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = DiscountMode(str)
	return nil
}

func (m DiscountMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *DiscountMode) Scan(value interface{}) error {
	if value == nil {
		*m = DiscountModeAmount
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = DiscountMode(v)
	case []byte:
		*m = DiscountMode(string(v))
	}
	return nil
}
