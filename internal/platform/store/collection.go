package store

import (
	"fmt"
	"strings"
)

// Collection names one of the persisted record sets. Each collection is
// stored as a single JSON array document.
type Collection string

const (
	Patients     Collection = "patients"
	Doctors      Collection = "doctors"
	Appointments Collection = "appointments"
	Inventory    Collection = "inventory"
	Billing      Collection = "billing"
)

// All lists every collection in the order the dashboard reads them.
var All = []Collection{Patients, Doctors, Appointments, Inventory, Billing}

// ParseCollection resolves a collection name, rejecting anything outside the
// fixed set.
func ParseCollection(name string) (Collection, error) {
	c := Collection(strings.ToLower(strings.TrimSpace(name)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate reports ErrUnknownCollection for names outside the fixed set.
func (c Collection) Validate() error {
	for _, known := range All {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
}

// Prefix is the ID type letter: the first letter of the name, uppercased.
func (c Collection) Prefix() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c)[:1])
}

// FileName is the backing document name under the data directory.
func (c Collection) FileName() string {
	return string(c) + ".json"
}

func (c Collection) String() string { return string(c) }
