package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Rules holds the company eligibility tables, validation messages and the
// filing description. Unset YAML keys keep their defaults.
type Rules struct {
	AllowedCompanyTypes       []string    `yaml:"allowed_company_types"`
	DisallowedCompanyStatuses []string    `yaml:"disallowed_company_statuses"`
	Messages                  Messages    `yaml:"messages"`
	Description               Description `yaml:"description"`
}

// Messages are the user-facing validation texts. Placeholders in braces are
// substituted at the call site.
type Messages struct {
	CeasedOnRequired          string `yaml:"ceased_on_required"`
	RegisterEntryDateRequired string `yaml:"register_entry_date_required"`
	ReferencePscIDRequired    string `yaml:"reference_psc_id_required"`
	ReferenceEtagRequired     string `yaml:"reference_etag_required"`
	PscNotFound               string `yaml:"psc_not_found"`
	EtagMismatch              string `yaml:"etag_mismatch"`
	CeasedBeforeNotified      string `yaml:"ceased_before_notified"`
	RegisterEntryBeforeCeased string `yaml:"register_entry_before_ceased"`
	PscAlreadyCeased          string `yaml:"psc_already_ceased"`
	DateInFuture              string `yaml:"date_in_future"`
	FieldRemoved              string `yaml:"field_removed"`
	TransactionClosed         string `yaml:"transaction_closed"`
	CompanySuperSecure        string `yaml:"company_super_secure"`
	CompanyTypeNotAllowed     string `yaml:"company_type_not_allowed"`
	CompanyStatusNotAllowed   string `yaml:"company_status_not_allowed"`
}

// Description configures the human readable text sent to the filing generator.
type Description struct {
	Template   string `yaml:"template"`
	Identifier string `yaml:"identifier"`
}

// DefaultRules returns the compiled-in rules.
func DefaultRules() Rules {
	return Rules{
		AllowedCompanyTypes: []string{
			"ltd",
			"plc",
			"private-unlimited",
			"private-unlimited-nsc",
			"private-limited-guarant-nsc",
			"private-limited-guarant-nsc-limited-exemption",
			"private-limited-shares-section-30-exemption",
			"old-public-company",
			"llp",
			"scottish-partnership",
			"uk-establishment",
		},
		DisallowedCompanyStatuses: []string{"dissolved", "converted-closed"},
		Messages: Messages{
			CeasedOnRequired:          "Enter the date the PSC stopped being a PSC",
			RegisterEntryDateRequired: "Enter the date the PSC was removed from the PSC register",
			ReferencePscIDRequired:    "Enter the PSC id",
			ReferenceEtagRequired:     "Enter the PSC etag",
			PscNotFound:               "PSC with id {id} not found",
			EtagMismatch:              "Etag for PSC does not match latest value",
			CeasedBeforeNotified:      "Date the PSC stopped being a PSC must be on or after the date the PSC was notified ({date})",
			RegisterEntryBeforeCeased: "Date the PSC was removed from the register must be on or after the date the PSC stopped being a PSC",
			PscAlreadyCeased:          "PSC has already ceased",
			DateInFuture:              "Date must be today or in the past",
			FieldRemoved:              "{field} must not be removed",
			TransactionClosed:         "Transaction {id} is not open",
			CompanySuperSecure:        "Company has super secure PSCs and cannot file this form",
			CompanyTypeNotAllowed:     "Company type {type} is not allowed to file this form",
			CompanyStatusNotAllowed:   "Company status {status} is not allowed to file this form",
		},
		Description: Description{
			Template:   "(PSC07) Notice of ceasing to be a Person with Significant Control for {name} on {date}",
			Identifier: "cessation-psc",
		},
	}
}

// LoadRules reads path over the defaults. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return rules, nil
}

// CompanyTypeAllowed reports whether companies of this type may file.
func (r Rules) CompanyTypeAllowed(companyType string) bool {
	return slices.Contains(r.AllowedCompanyTypes, companyType)
}

// CompanyStatusAllowed reports whether companies in this status may file.
func (r Rules) CompanyStatusAllowed(status string) bool {
	return !slices.Contains(r.DisallowedCompanyStatuses, status)
}
