package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemType discriminates the kind of sellable line in a transaction
type ItemType string

const (
	ItemTypeProduct       ItemType = "product"
	ItemTypeFixedBlend    ItemType = "fixed_blend"
	ItemTypeCustomBlend   ItemType = "custom_blend"
	ItemTypeBundle        ItemType = "bundle"
	ItemTypeConsultation  ItemType = "consultation"
	ItemTypeMiscellaneous ItemType = "miscellaneous"
)

// Valid reports whether the item type is one of the known discriminants
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeFixedBlend, ItemTypeCustomBlend,
		ItemTypeBundle, ItemTypeConsultation, ItemTypeMiscellaneous:
		return true
	}
	return false
}

func (t ItemType) String() string {
	return string(t)
}

func (t ItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = ItemType(str)
	return nil
}

func (t ItemType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *ItemType) Scan(value interface{}) error {
	if value == nil {
		*t = ItemTypeProduct
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = ItemType(v)
	case []byte:
		*t = ItemType(string(v))
	}
	return nil
}
