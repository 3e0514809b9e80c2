package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionStatus represents the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionStatusDraft     TransactionStatus = "draft"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Valid reports whether the status is known
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusDraft, TransactionStatusPending,
		TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = TransactionStatus(str)
	return nil
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *TransactionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TransactionStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = TransactionStatus(v)
	case []byte:
		*s = TransactionStatus(string(v))
	}
	return nil
}
