package posting

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (p VATPolicy) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (p *VATPolicy) Scan(src any) error {
	return scanJSON(src, p, "VATPolicy")
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (s Summary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (s *Summary) Scan(src any) error {
	return scanJSON(src, s, "Summary")
}

func scanJSON(src, dst any, name string) error {
	var source []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for %s: %T", name, src)
	}
	if len(source) == 0 {
		return nil
	}
	if err := json.Unmarshal(source, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
