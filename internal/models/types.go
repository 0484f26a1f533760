package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON generic object column
type JSON map[string]interface{}

// Value implements driver.Valuer
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringArray string slice column stored as JSON
type StringArray []string

// Value implements driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// ServiceLine one billed service on a payment request
type ServiceLine struct {
	ServiceID   uint   `json:"service_id"`
	ServiceName string `json:"service_name"`
	Amount      Money  `json:"amount"`
	Period      string `json:"period,omitempty"`
	Fields      JSON   `json:"fields,omitempty"`
}

// ServiceLines service line slice column stored as JSON
type ServiceLines []ServiceLine

// Value implements driver.Valuer
func (l ServiceLines) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *ServiceLines) Scan(value interface{}) error {
	if value == nil {
		*l = ServiceLines{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}
