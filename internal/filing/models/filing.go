package models

import (
	"time"
)

// KindCessation is the kind of every stored filing and transaction resource.
const KindCessation = "psc-filing#cessation"

// Filing is a PSC cessation filing. It is implemented by *IndividualFiling
// and *WithIdentificationFiling only; switch on the concrete type to reach
// variant fields.
type Filing interface {
	Common() *Communal
	Variant() Variant
	sealed()
}

// Communal holds the fields every filing variant carries. PscType is the
// stored discriminant; the variant is derived from it.
type Communal struct {
	ID            string    `json:"id"`
	Etag          string    `json:"etag"`
	Kind          string    `json:"kind"`
	PscType       PscType   `json:"psc_type"`
	TransactionID string    `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Links         Links     `json:"links"`

	CeasedOn          *Date    `json:"ceased_on,omitempty"`
	RegisterEntryDate *Date    `json:"register_entry_date,omitempty"`
	ReferencePscID    *string  `json:"reference_psc_id,omitempty"`
	ReferenceEtag     *string  `json:"reference_etag,omitempty"`
	NaturesOfControl  []string `json:"natures_of_control,omitempty"`
	Address           *Address `json:"address,omitempty"`

	StatementActionDate *Date  `json:"statement_action_date,omitempty"`
	StatementType       string `json:"statement_type,omitempty"`
}

// Common returns the shared fields.
func (c *Communal) Common() *Communal { return c }

// IndividualFiling is the filing for a natural person PSC.
type IndividualFiling struct {
	Communal

	NameElements       *NameElements `json:"name_elements,omitempty"`
	DateOfBirth        *PartialDate  `json:"date_of_birth,omitempty"`
	Nationality        string        `json:"nationality,omitempty"`
	CountryOfResidence string        `json:"country_of_residence,omitempty"`
	ResidentialAddress *Address      `json:"residential_address,omitempty"`

	IsResidentialAddressSameAsServiceAddress      *bool `json:"is_residential_address_same_as_service_address,omitempty"`
	IsServiceAddressSameAsRegisteredOfficeAddress *bool `json:"is_service_address_same_as_registered_office_address,omitempty"`
}

func (*IndividualFiling) Variant() Variant { return VariantIndividual }
func (*IndividualFiling) sealed()          {}

// WithIdentificationFiling is the filing for a corporate entity or legal
// person PSC.
type WithIdentificationFiling struct {
	Communal

	Name           string          `json:"name,omitempty"`
	Identification *Identification `json:"identification,omitempty"`
}

func (*WithIdentificationFiling) Variant() Variant { return VariantWithIdentification }
func (*WithIdentificationFiling) sealed()          {}

// NewFiling returns an empty filing of the variant for pscType.
func NewFiling(pscType PscType) (Filing, error) {
	if !pscType.IsValid() {
		return nil, ErrUnknownPscType
	}
	if pscType.Variant() == VariantIndividual {
		return &IndividualFiling{Communal: Communal{PscType: pscType}}, nil
	}
	return &WithIdentificationFiling{Communal: Communal{PscType: pscType}}, nil
}

// SelfLink is the public path of a filing.
func SelfLink(basePath, transactionID string, pscType PscType, filingID string) string {
	return basePath + "/" + transactionID + "/persons-with-significant-control/" + string(pscType) + "/" + filingID
}

// NewLinks builds the links for a filing.
func NewLinks(basePath, transactionID string, pscType PscType, filingID string) Links {
	self := SelfLink(basePath, transactionID, pscType, filingID)
	return Links{Self: self, ValidationStatus: self + "/validation_status"}
}

// ReferencePscIDValue returns the reference id or "".
func (c *Communal) ReferencePscIDValue() string {
	if c.ReferencePscID == nil {
		return ""
	}
	return *c.ReferencePscID
}

// ReferenceEtagValue returns the reference etag or "".
func (c *Communal) ReferenceEtagValue() string {
	if c.ReferenceEtag == nil {
		return ""
	}
	return *c.ReferenceEtag
}
