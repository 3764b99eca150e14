package order

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Address is either a free-form string or a structured Vietnamese address.
// Backend versions disagree on the shape, so both are decoded.
type Address struct {
	Raw         string `json:"-"`
	FullAddress string `json:"full_address,omitempty"`
	Street      string `json:"street,omitempty"`
	Ward        string `json:"ward,omitempty"`
	District    string `json:"district,omitempty"`
	City        string `json:"city,omitempty"`
}

// IsEmpty reports whether no address information is present
func (a Address) IsEmpty() bool {
	return strings.TrimSpace(a.Raw) == "" && strings.TrimSpace(a.FullAddress) == "" && a.Flatten() == ""
}

// Flatten joins the structured parts as "street, ward, district, city"
func (a Address) Flatten() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Ward, a.District, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON keeps the original string form when that is what was received
func (a Address) MarshalJSON() ([]byte, error) {
	if a.Raw != "" {
		return json.Marshal(a.Raw)
	}
	type plain Address
	return json.Marshal(plain(a))
}

// UnmarshalJSON accepts a string or an object
func (a *Address) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Address{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Address{Raw: s}
		return nil
	}
	type plain Address
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Address(p)
	return nil
}

// Contact holds nested contact details
type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Customer is a buyer as returned by the backend. The id arrives as "_id" or "id".
type Customer struct {
	ID       string   `json:"_id,omitempty"`
	LegacyID string   `json:"id,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	Name     string   `json:"name,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Email    string   `json:"email,omitempty"`
	Address  *Address `json:"address,omitempty"`
	IDNumber string   `json:"id_number,omitempty"`
}

// GetID returns whichever id form was supplied
func (c Customer) GetID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.LegacyID
}

// HasAddress reports whether the record carries a usable address
func (c Customer) HasAddress() bool {
	return c.Address != nil && !c.Address.IsEmpty()
}

// Dealership is a selling dealer as returned by the backend
type Dealership struct {
	ID                  string   `json:"_id,omitempty"`
	LegacyID            string   `json:"id,omitempty"`
	CompanyName         string   `json:"company_name,omitempty"`
	Name                string   `json:"name,omitempty"`
	Address             *Address `json:"address,omitempty"`
	Contact             *Contact `json:"contact,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	Email               string   `json:"email,omitempty"`
	TaxCode             string   `json:"tax_code,omitempty"`
	MST                 string   `json:"mst,omitempty"`
	LegalRepresentative string   `json:"legal_representative,omitempty"`
	Representative      string   `json:"representative,omitempty"`
}

// GetID returns whichever id form was supplied
func (d Dealership) GetID() string {
	if d.ID != "" {
		return d.ID
	}
	return d.LegacyID
}

// IsSparse reports whether address, contact and tax code are all missing,
// which is the shape of a dealership embedded in an order listing
func (d Dealership) IsSparse() bool {
	noAddress := d.Address == nil || d.Address.IsEmpty()
	noContact := d.Contact == nil && d.Phone == ""
	noTax := d.TaxCode == "" && d.MST == ""
	return noAddress && noContact && noTax
}

// Vehicle is the model line sold on an order item
type Vehicle struct {
	ID       string `json:"_id,omitempty"`
	LegacyID string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Model    string `json:"model,omitempty"`
	Version  string `json:"version,omitempty"`
}

// GetID returns whichever id form was supplied
func (v Vehicle) GetID() string {
	if v.ID != "" {
		return v.ID
	}
	return v.LegacyID
}

// DisplayName returns the best human label for the vehicle
func (v Vehicle) DisplayName() string {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		name = strings.TrimSpace(v.Model)
	}
	if v.Version != "" && name != "" {
		name += " " + v.Version
	}
	return name
}
