package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MembershipTier is a customer's membership level. The tier itself is
// informational; the discount rate stored alongside it is what pricing uses.
type MembershipTier string

const (
	MembershipTierNone     MembershipTier = "none"
	MembershipTierStandard MembershipTier = "standard"
	MembershipTierSilver   MembershipTier = "silver"
	MembershipTierGold     MembershipTier = "gold"
)

// Valid reports whether the tier is known
func (t MembershipTier) Valid() bool {
	switch t {
	case MembershipTierNone, MembershipTierStandard, MembershipTierSilver, MembershipTierGold:
		return true
	}
	return false
}

func (t MembershipTier) String() string {
	return string(t)
}

func (t MembershipTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *MembershipTier) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = MembershipTier(str)
	return nil
}

func (t MembershipTier) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *MembershipTier) Scan(value interface{}) error {
	if value == nil {
		*t = MembershipTierNone
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = MembershipTier(v)
	case []byte:
		*t = MembershipTier(string(v))
	}
	return nil
}
