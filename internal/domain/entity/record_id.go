package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecordID is an opaque, server-assigned identifier. Servers may send it as "42" or 42.
type RecordID string

func (r *RecordID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RecordID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*r = RecordID(n.String())
	return nil
}

// UnmarshalJSON decodes a transaction whose id may be a string or a number
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	aux := struct {
		ID RecordID `json:"id"`
		*plain
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.ID = string(aux.ID)
	return nil
}
