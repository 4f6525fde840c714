package domain

import (
	"encoding/json"
	"fmt"
)

// Contact is a stored contact record. Only the id is interpreted; every other
// key is passed through as-is.
type Contact map[string]any

// ID returns the record's string id, or "" when absent or not a string.
func (c Contact) ID() string {
	id, _ := c["id"].(string)
	return id
}

// ParseContacts decodes a JSON array of contact records.
func ParseContacts(data []byte) ([]Contact, error) {
	var contacts []Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("decoding contacts: %w", err)
	}

	return contacts, nil
}
