package handler

import (
	"errors"

	"pscfiling/internal/filing/models"
	dErrors "pscfiling/pkg/domain-errors"
	pstrings "pscfiling/pkg/platform/strings"
	limits "pscfiling/pkg/platform/validation"
	"pscfiling/pkg/validation"
)

// CreateFilingRequest is the body of a create call. It carries the fields of
// both filing variants; ToFiling keeps the ones the path's PSC type uses.
// Business rules run later through validation_status, so only the format of
// supplied fields is checked here.
type CreateFilingRequest struct {
	CeasedOn          string   `json:"ceased_on" validate:"omitempty,isodate"`
	RegisterEntryDate string   `json:"register_entry_date" validate:"omitempty,isodate"`
	ReferencePscID    *string  `json:"reference_psc_id" validate:"omitempty,notblank"`
	ReferenceEtag     *string  `json:"reference_etag" validate:"omitempty,notblank"`
	NaturesOfControl  []string `json:"natures_of_control"`

	Address             *models.Address `json:"address"`
	StatementActionDate string          `json:"statement_action_date" validate:"omitempty,isodate"`
	StatementType       string          `json:"statement_type"`

	NameElements       *models.NameElements `json:"name_elements"`
	DateOfBirth        *models.PartialDate  `json:"date_of_birth"`
	Nationality        string               `json:"nationality"`
	CountryOfResidence string               `json:"country_of_residence"`
	ResidentialAddress *models.Address      `json:"residential_address"`

	IsResidentialAddressSameAsServiceAddress      *bool `json:"is_residential_address_same_as_service_address"`
	IsServiceAddressSameAsRegisteredOfficeAddress *bool `json:"is_service_address_same_as_registered_office_address"`

	Name           string                 `json:"name"`
	Identification *models.Identification `json:"identification"`
}

// Normalize trims identifiers and drops blank or repeated natures of control.
func (r *CreateFilingRequest) Normalize() {
	if r == nil {
		return
	}
	r.ReferencePscID = pstrings.TrimSpacePtr(r.ReferencePscID)
	r.ReferenceEtag = pstrings.TrimSpacePtr(r.ReferenceEtag)
	r.NaturesOfControl = pstrings.DedupeAndTrim(r.NaturesOfControl)
}

// Validate checks formats and size limits, reporting every failing field.
func (r *CreateFilingRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	var violations []dErrors.Violation
	if err := validation.Validate(r); err != nil {
		if v := dErrors.ViolationsOf(err); len(v) > 0 {
			violations = append(violations, v...)
		} else {
			return err
		}
	}
	for _, err := range []error{
		limits.CheckStringLength("reference_psc_id", deref(r.ReferencePscID), limits.MaxReferenceIDLength),
		limits.CheckStringLength("reference_etag", deref(r.ReferenceEtag), limits.MaxEtagLength),
		limits.CheckSliceCount("natures_of_control", len(r.NaturesOfControl), limits.MaxNaturesOfControl),
		limits.CheckEachStringLength("natures_of_control", r.NaturesOfControl, limits.MaxNatureOfControlLength),
	} {
		violations = append(violations, dErrors.ViolationsOf(err)...)
	}
	if len(violations) == 0 {
		return nil
	}
	return dErrors.WithViolations(dErrors.CodeValidation, violations[0].Message, violations)
}

// ToFiling builds the variant for pscType. Call after Validate.
func (r *CreateFilingRequest) ToFiling(pscType models.PscType) (models.Filing, error) {
	f, err := models.NewFiling(pscType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "unknown psc type")
	}
	c := f.Common()
	c.ReferencePscID = r.ReferencePscID
	c.ReferenceEtag = r.ReferenceEtag
	c.NaturesOfControl = r.NaturesOfControl
	c.Address = r.Address
	c.StatementType = r.StatementType
	if c.CeasedOn, err = optionalDate(r.CeasedOn); err != nil {
		return nil, err
	}
	if c.RegisterEntryDate, err = optionalDate(r.RegisterEntryDate); err != nil {
		return nil, err
	}
	if c.StatementActionDate, err = optionalDate(r.StatementActionDate); err != nil {
		return nil, err
	}

	switch v := f.(type) {
	case *models.IndividualFiling:
		v.NameElements = r.NameElements
		v.DateOfBirth = r.DateOfBirth
		v.Nationality = r.Nationality
		v.CountryOfResidence = r.CountryOfResidence
		v.ResidentialAddress = r.ResidentialAddress
		v.IsResidentialAddressSameAsServiceAddress = r.IsResidentialAddressSameAsServiceAddress
		v.IsServiceAddressSameAsRegisteredOfficeAddress = r.IsServiceAddressSameAsRegisteredOfficeAddress
	case *models.WithIdentificationFiling:
		v.Name = r.Name
		v.Identification = r.Identification
	default:
		return nil, errors.New("unhandled filing variant")
	}
	return f, nil
}

func optionalDate(s string) (*models.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid date")
	}
	return &d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
