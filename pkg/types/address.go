package types

import "strings"

// Address is a shipping address document stored on the user profile
// and snapshotted onto orders. Persisted as jsonb.
type Address struct {
	ID            string `json:"id,omitempty"`
	Label         string `json:"label,omitempty"`
	Address       string `json:"address"`
	City          string `json:"city"`
	District      string `json:"district"`
	State         string `json:"state"`
	Landmark      string `json:"landmark,omitempty"`
	ContactNumber string `json:"contactNumber"`
	PinCode       string `json:"pinCode"`
	IsDefault     bool   `json:"isDefault,omitempty"`
}

// requiredAddressFields lists the fields an address must carry to be
// usable for checkout, in validation-report order.
var requiredAddressFields = []struct {
	name  string
	value func(Address) string
}{
	{"address", func(a Address) string { return a.Address }},
	{"city", func(a Address) string { return a.City }},
	{"district", func(a Address) string { return a.District }},
	{"state", func(a Address) string { return a.State }},
	{"contactNumber", func(a Address) string { return a.ContactNumber }},
	{"pinCode", func(a Address) string { return a.PinCode }},
}

// MissingFields returns the required fields that are empty or blank.
func (a Address) MissingFields() []string {
	var missing []string
	for _, field := range requiredAddressFields {
		if strings.TrimSpace(field.value(a)) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Valid reports whether every required checkout field is present.
func (a Address) Valid() bool {
	return len(a.MissingFields()) == 0
}

// Clean returns a copy stripped of client-only metadata so only the
// delivery fields reach an order document.
func (a Address) Clean() Address {
	return Address{
		Label:         strings.TrimSpace(a.Label),
		Address:       strings.TrimSpace(a.Address),
		City:          strings.TrimSpace(a.City),
		District:      strings.TrimSpace(a.District),
		State:         strings.TrimSpace(a.State),
		Landmark:      strings.TrimSpace(a.Landmark),
		ContactNumber: strings.TrimSpace(a.ContactNumber),
		PinCode:       strings.TrimSpace(a.PinCode),
	}
}
