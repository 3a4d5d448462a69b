package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PscType is the path and storage discriminant for a filing.
type PscType string

const (
	PscTypeIndividual      PscType = "individual"
	PscTypeCorporateEntity PscType = "corporate-entity"
	PscTypeLegalPerson     PscType = "legal-person"
)

// PscTypes lists every supported type in a stable order.
var PscTypes = []PscType{PscTypeIndividual, PscTypeCorporateEntity, PscTypeLegalPerson}

// ParsePscType accepts the path form of a PSC type.
func ParsePscType(s string) (PscType, bool) {
	t := PscType(s)
	return t, t.IsValid()
}

// IsValid checks if the type is one of the supported enum values.
func (t PscType) IsValid() bool {
	return t == PscTypeIndividual || t == PscTypeCorporateEntity || t == PscTypeLegalPerson
}

// Variant returns the document shape used for this type.
func (t PscType) Variant() Variant {
	if t == PscTypeIndividual {
		return VariantIndividual
	}
	return VariantWithIdentification
}

func (t PscType) String() string { return string(t) }

// Variant names the two filing shapes. Each variant has its own collection.
type Variant string

const (
	VariantIndividual         Variant = "individual"
	VariantWithIdentification Variant = "with-identification"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, serialised as yyyy-mm-dd.
type Date struct {
	time.Time
}

// NewDate builds a UTC date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PartialDate is a month-and-year date of birth as the PSC register exposes it.
type PartialDate struct {
	Day   int `json:"day,omitempty"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NameElements are the name parts of an individual PSC.
type NameElements struct {
	Title          string `json:"title,omitempty"`
	Forename       string `json:"forename,omitempty"`
	OtherForenames string `json:"other_forenames,omitempty"`
	Surname        string `json:"surname,omitempty"`
}

// Address is a postal address.
type Address struct {
	Premises     string `json:"premises,omitempty"`
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	CareOf       string `json:"care_of,omitempty"`
	PoBox        string `json:"po_box,omitempty"`
}

// Identification describes a corporate entity or legal person PSC.
type Identification struct {
	CountryRegistered  string `json:"country_registered,omitempty"`
	PlaceRegistered    string `json:"place_registered,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	LegalAuthority     string `json:"legal_authority,omitempty"`
	LegalForm          string `json:"legal_form,omitempty"`
}

// Links are the resource links of a stored filing.
type Links struct {
	Self             string `json:"self"`
	ValidationStatus string `json:"validation_status"`
}
