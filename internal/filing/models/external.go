package models

import "strings"

// TransactionStatusOpen is the only status that admits create and patch.
const TransactionStatusOpen = "open"

// Transaction is the subset of the transactions API resource this service
// reads and writes.
type Transaction struct {
	ID            string              `json:"id"`
	CompanyNumber string              `json:"company_number"`
	CompanyName   string              `json:"company_name,omitempty"`
	Status        string              `json:"status"`
	Resources     map[string]Resource `json:"resources,omitempty"`
}

// IsOpen reports whether the transaction accepts changes.
func (t Transaction) IsOpen() bool {
	return strings.EqualFold(t.Status, TransactionStatusOpen)
}

// Resource is one entry of a transaction's resources map.
type Resource struct {
	Kind  string            `json:"kind"`
	Links map[string]string `json:"links"`
}

// PscDetails is the current register entry for a PSC. Only fields the PSC
// API supplies are set; zero values mean "not supplied".
type PscDetails struct {
	Etag               string          `json:"etag"`
	Kind               string          `json:"kind,omitempty"`
	NameElements       *NameElements   `json:"name_elements,omitempty"`
	Name               string          `json:"name,omitempty"`
	Identification     *Identification `json:"identification,omitempty"`
	Nationality        string          `json:"nationality,omitempty"`
	CountryOfResidence string          `json:"country_of_residence,omitempty"`
	DateOfBirth        *PartialDate    `json:"date_of_birth,omitempty"`
	Address            *Address        `json:"address,omitempty"`
	NaturesOfControl   []string        `json:"natures_of_control,omitempty"`
	NotifiedOn         *Date           `json:"notified_on,omitempty"`
	CeasedOn           *Date           `json:"ceased_on,omitempty"`
}

// CompanyProfile is the subset of the company profile this service reads.
type CompanyProfile struct {
	CompanyNumber      string `json:"company_number"`
	CompanyName        string `json:"company_name,omitempty"`
	Type               string `json:"type"`
	CompanyStatus      string `json:"company_status"`
	HasSuperSecurePscs bool   `json:"has_super_secure_pscs"`
}
