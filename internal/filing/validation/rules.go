package validation

import (
	"context"
	"fmt"
	"strings"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/config"
)

// Field names as they appear in json-path locations.
const (
	FieldCeasedOn          = "ceased_on"
	FieldRegisterEntryDate = "register_entry_date"
	FieldReferencePscID    = "reference_psc_id"
	FieldReferenceEtag     = "reference_etag"
)

// RequiredFields records one error per missing reference field and stops the
// chain if any is missing, so no PSC lookup happens on incomplete filings.
type RequiredFields struct {
	msgs config.Messages
}

func NewRequiredFields(msgs config.Messages) *RequiredFields {
	return &RequiredFields{msgs: msgs}
}

func (r *RequiredFields) Name() string { return "required_fields" }

func (r *RequiredFields) Validate(_ context.Context, vctx *Context) (Verdict, error) {
	c := vctx.Filing.Common()
	missing := false
	check := func(absent bool, field, msg string) {
		if absent {
			vctx.AddError(models.NewFieldError(field, nil, msg))
			missing = true
		}
	}
	check(c.CeasedOn == nil, FieldCeasedOn, r.msgs.CeasedOnRequired)
	check(c.RegisterEntryDate == nil, FieldRegisterEntryDate, r.msgs.RegisterEntryDateRequired)
	check(blankPtr(c.ReferencePscID), FieldReferencePscID, r.msgs.ReferencePscIDRequired)
	check(blankPtr(c.ReferenceEtag), FieldReferenceEtag, r.msgs.ReferenceEtagRequired)

	if missing {
		return Stop, nil
	}
	return Continue, nil
}

func blankPtr(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// pscRule is embedded by rules that read the PSC register. Each rule does its
// own lookup.
type pscRule struct {
	lookup PscLookup
	msgs   config.Messages
}

// fetch returns the PSC details, or nil with the not-found error recorded and
// Stop when the PSC does not exist.
func (p pscRule) fetch(ctx context.Context, vctx *Context) (*models.PscDetails, Verdict, error) {
	c := vctx.Filing.Common()
	pscID := c.ReferencePscIDValue()
	details, err := p.lookup.GetPscDetails(ctx, vctx.Transaction, pscID, vctx.PscType, vctx.Token)
	switch {
	case clients.IsNotFound(err):
		vctx.AddError(models.NewFieldError(FieldReferencePscID, pscID, fill(p.msgs.PscNotFound, "id", pscID)))
		return nil, Stop, nil
	case err != nil:
		return nil, Stop, fmt.Errorf("fetch psc %s: %w", pscID, err)
	}
	return details, Continue, nil
}

// PscExists stops the chain when the referenced PSC is not on the register.
type PscExists struct{ pscRule }

func NewPscExists(lookup PscLookup, msgs config.Messages) *PscExists {
	return &PscExists{pscRule{lookup: lookup, msgs: msgs}}
}

func (r *PscExists) Name() string { return "psc_exists" }

func (r *PscExists) Validate(ctx context.Context, vctx *Context) (Verdict, error) {
	_, verdict, err := r.fetch(ctx, vctx)
	return verdict, err
}

// EtagMatch requires reference_etag to equal the PSC's current etag.
type EtagMatch struct{ pscRule }

func NewEtagMatch(lookup PscLookup, msgs config.Messages) *EtagMatch {
	return &EtagMatch{pscRule{lookup: lookup, msgs: msgs}}
}

func (r *EtagMatch) Name() string { return "etag_match" }

func (r *EtagMatch) Validate(ctx context.Context, vctx *Context) (Verdict, error) {
	details, verdict, err := r.fetch(ctx, vctx)
	if details == nil {
		return verdict, err
	}
	ref := vctx.Filing.Common().ReferenceEtagValue()
	if details.Etag != ref {
		vctx.AddError(models.NewFieldError(FieldReferenceEtag, ref, r.msgs.EtagMismatch))
	}
	return Continue, nil
}

// CeasedOnAfterNotified rejects a cessation dated before the PSC was notified.
type CeasedOnAfterNotified struct{ pscRule }

func NewCeasedOnAfterNotified(lookup PscLookup, msgs config.Messages) *CeasedOnAfterNotified {
	return &CeasedOnAfterNotified{pscRule{lookup: lookup, msgs: msgs}}
}

func (r *CeasedOnAfterNotified) Name() string { return "ceased_on_after_notified_on" }

func (r *CeasedOnAfterNotified) Validate(ctx context.Context, vctx *Context) (Verdict, error) {
	details, verdict, err := r.fetch(ctx, vctx)
	if details == nil {
		return verdict, err
	}
	ceasedOn := vctx.Filing.Common().CeasedOn
	if ceasedOn != nil && details.NotifiedOn != nil && ceasedOn.Before(*details.NotifiedOn) {
		vctx.AddError(models.NewFieldError(FieldCeasedOn, ceasedOn.String(),
			fill(r.msgs.CeasedBeforeNotified, "date", details.NotifiedOn.String())))
	}
	return Continue, nil
}

// RegisterEntryDate rejects a register entry dated before the cessation.
type RegisterEntryDate struct {
	msgs config.Messages
}

func NewRegisterEntryDate(msgs config.Messages) *RegisterEntryDate {
	return &RegisterEntryDate{msgs: msgs}
}

func (r *RegisterEntryDate) Name() string { return "register_entry_date" }

func (r *RegisterEntryDate) Validate(_ context.Context, vctx *Context) (Verdict, error) {
	c := vctx.Filing.Common()
	if c.RegisterEntryDate == nil || c.CeasedOn == nil {
		return Continue, nil
	}
	if c.RegisterEntryDate.Before(*c.CeasedOn) {
		vctx.AddError(models.NewFieldError(FieldRegisterEntryDate, c.RegisterEntryDate.String(), r.msgs.RegisterEntryBeforeCeased))
	}
	return Continue, nil
}

// PscIsActive rejects a cessation for a PSC that has already ceased.
type PscIsActive struct{ pscRule }

func NewPscIsActive(lookup PscLookup, msgs config.Messages) *PscIsActive {
	return &PscIsActive{pscRule{lookup: lookup, msgs: msgs}}
}

func (r *PscIsActive) Name() string { return "psc_is_active" }

func (r *PscIsActive) Validate(ctx context.Context, vctx *Context) (Verdict, error) {
	details, verdict, err := r.fetch(ctx, vctx)
	if details == nil {
		return verdict, err
	}
	if details.CeasedOn != nil {
		vctx.AddError(models.NewFieldError(FieldCeasedOn, details.CeasedOn.String(), r.msgs.PscAlreadyCeased))
	}
	return Continue, nil
}
