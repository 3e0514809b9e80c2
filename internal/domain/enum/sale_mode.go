package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleMode determines how a quantity is interpreted: whole containers
// or a partial volume/weight drawn from one container
type SaleMode string

const (
	SaleModeQuantity SaleMode = "quantity"
	SaleModeVolume   SaleMode = "volume"
)

// Valid reports whether the sale mode is known
func (m SaleMode) Valid() bool {
	return m == SaleModeQuantity || m == SaleModeVolume
}

func (m SaleMode) String() string {
	return string(m)
}

func (m SaleMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *SaleMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = SaleMode(str)
	return nil
}

func (m SaleMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *SaleMode) Scan(value interface{}) error {
	if value == nil {
		*m = SaleModeQuantity
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = SaleMode(v)
	case []byte:
		*m = SaleMode(string(v))
	}
	return nil
}
