package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MiscCategory classifies a miscellaneous line item. Credit lines carry a
// negative unit price so they net out of the subtotal.
type MiscCategory string

const (
	MiscCategorySupply  MiscCategory = "supply"
	MiscCategoryService MiscCategory = "service"
	MiscCategoryFee     MiscCategory = "fee"
	MiscCategoryCredit  MiscCategory = "credit"
	MiscCategoryOther   MiscCategory = "other"
)

// Valid reports whether the category is known
func (c MiscCategory) Valid() bool {
	switch c {
	case MiscCategorySupply, MiscCategoryService, MiscCategoryFee,
		MiscCategoryCredit, MiscCategoryOther:
		return true
	}
	return false
}

func (c MiscCategory) String() string {
	return string(c)
}

func (c MiscCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *MiscCategory) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*c = MiscCategory(str)
	return nil
}

func (c MiscCategory) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *MiscCategory) Scan(value interface{}) error {
	if value == nil {
		*c = MiscCategoryOther
		return nil
	}
	switch v := value.(type) {
	case string:
		*c = MiscCategory(v)
	case []byte:
		*c = MiscCategory(string(v))
	}
	return nil
}
