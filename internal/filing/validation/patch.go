package validation

import (
	"strings"
	"time"

	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/config"
	limits "pscfiling/pkg/platform/validation"
	dErrors "pscfiling/pkg/domain-errors"
)

// PatchValidator checks a merged filing before it is persisted. It is
// narrower than the rule chain and makes no external calls. stored is the
// filing the patch was applied to; a field only counts as removed when stored
// carried it.
type PatchValidator interface {
	Validate(stored, merged models.Filing, now time.Time) []models.FieldError
}

// PatchValidators returns the validator for a filing's variant.
type PatchValidators struct {
	individual         PatchValidator
	withIdentification PatchValidator
}

func NewPatchValidators(msgs config.Messages) *PatchValidators {
	return &PatchValidators{
		individual:         &IndividualPatchValidator{msgs: msgs},
		withIdentification: &WithIdentificationPatchValidator{msgs: msgs},
	}
}

// For selects by variant.
func (p *PatchValidators) For(f models.Filing) PatchValidator {
	switch f.(type) {
	case *models.IndividualFiling:
		return p.individual
	default:
		return p.withIdentification
	}
}

// IndividualPatchValidator validates merged individual filings.
type IndividualPatchValidator struct {
	msgs config.Messages
}

func (v *IndividualPatchValidator) Validate(stored, merged models.Filing, now time.Time) []models.FieldError {
	ind, ok := merged.(*models.IndividualFiling)
	if !ok {
		return nil
	}
	errs := validateCommunal(commonOf(stored), &ind.Communal, v.msgs, now)
	if ind.IsResidentialAddressSameAsServiceAddress != nil &&
		*ind.IsResidentialAddressSameAsServiceAddress && ind.ResidentialAddress != nil {
		errs = append(errs, models.NewFieldError("residential_address", nil,
			"residential_address must be empty when it is the same as the service address"))
	}
	return errs
}

// WithIdentificationPatchValidator validates merged corporate entity and
// legal person filings.
type WithIdentificationPatchValidator struct {
	msgs config.Messages
}

func (v *WithIdentificationPatchValidator) Validate(stored, merged models.Filing, now time.Time) []models.FieldError {
	wi, ok := merged.(*models.WithIdentificationFiling)
	if !ok {
		return nil
	}
	errs := validateCommunal(commonOf(stored), &wi.Communal, v.msgs, now)
	if hadCountryRegistered(stored) && (wi.Identification == nil || blank(wi.Identification.CountryRegistered)) {
		errs = append(errs, models.NewFieldError("identification.country_registered", nil,
			fill(v.msgs.FieldRemoved, "field", "identification.country_registered")))
	}
	return errs
}

func commonOf(f models.Filing) *models.Communal {
	if f == nil {
		return &models.Communal{}
	}
	return f.Common()
}

func hadCountryRegistered(f models.Filing) bool {
	wi, ok := f.(*models.WithIdentificationFiling)
	return ok && wi.Identification != nil && !blank(wi.Identification.CountryRegistered)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func validateCommunal(prev, c *models.Communal, msgs config.Messages, now time.Time) []models.FieldError {
	var errs []models.FieldError
	today := models.DateOf(now)

	if c.CeasedOn != nil && c.CeasedOn.After(today) {
		errs = append(errs, models.NewFieldError(FieldCeasedOn, c.CeasedOn.String(), msgs.DateInFuture))
	}
	if c.RegisterEntryDate != nil && c.RegisterEntryDate.After(today) {
		errs = append(errs, models.NewFieldError(FieldRegisterEntryDate, c.RegisterEntryDate.String(), msgs.DateInFuture))
	}
	if prev.ReferencePscID != nil && c.ReferencePscID == nil {
		errs = append(errs, models.NewFieldError(FieldReferencePscID, nil, fill(msgs.FieldRemoved, "field", FieldReferencePscID)))
	}
	if prev.ReferenceEtag != nil && c.ReferenceEtag == nil {
		errs = append(errs, models.NewFieldError(FieldReferenceEtag, nil, fill(msgs.FieldRemoved, "field", FieldReferenceEtag)))
	}
	errs = append(errs, limitErrors(
		limits.CheckStringLength(FieldReferencePscID, c.ReferencePscIDValue(), limits.MaxReferenceIDLength),
		limits.CheckStringLength(FieldReferenceEtag, c.ReferenceEtagValue(), limits.MaxEtagLength),
		limits.CheckSliceCount("natures_of_control", len(c.NaturesOfControl), limits.MaxNaturesOfControl),
		limits.CheckEachStringLength("natures_of_control", c.NaturesOfControl, limits.MaxNatureOfControlLength),
	)...)
	return errs
}

func limitErrors(checks ...error) []models.FieldError {
	var errs []models.FieldError
	for _, err := range checks {
		for _, v := range dErrors.ViolationsOf(err) {
			errs = append(errs, models.NewFieldError(v.Field, nil, v.Message))
		}
	}
	return errs
}
