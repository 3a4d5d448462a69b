package testutil

import (
	"time"

	"github.com/google/uuid"

	"pscfiling/internal/filing/models"
)

// TestIDs provides fixed identifiers for deterministic test data.
var TestIDs = struct {
	TransactionID string
	CompanyNumber string
	PscID         string
	PscEtag       string
	FilingID1     string
	FilingID2     string
}{
	TransactionID: "178417-909116-690426",
	CompanyNumber: "01234567",
	PscID:         "12345",
	PscEtag:       "6789",
	FilingID1:     "f1111111-1111-1111-1111-111111111111",
	FilingID2:     "f2222222-2222-2222-2222-222222222222",
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// MustDate parses a yyyy-mm-dd date and panics on bad input.
func MustDate(s string) *models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

// FilingBuilder provides a fluent interface for building test filings. The
// defaults describe a filing that passes every validation rule against
// ActivePsc.
type FilingBuilder struct {
	pscType models.PscType
	common  models.Communal
	names   *models.NameElements
	name    string
	ident   *models.Identification
}

// NewFilingBuilder creates a FilingBuilder for pscType with sensible defaults.
func NewFilingBuilder(pscType models.PscType) *FilingBuilder {
	now := time.Date(2022, 10, 6, 9, 0, 0, 0, time.UTC)
	id := uuid.NewString()
	return &FilingBuilder{
		pscType: pscType,
		common: models.Communal{
			ID:                id,
			Etag:              "etag-0",
			Kind:              models.KindCessation,
			PscType:           pscType,
			TransactionID:     TestIDs.TransactionID,
			CreatedAt:         now,
			UpdatedAt:         now,
			Links:             models.NewLinks("/transactions", TestIDs.TransactionID, pscType, id),
			CeasedOn:          MustDate("2022-10-05"),
			RegisterEntryDate: MustDate("2022-10-05"),
			ReferencePscID:    Ptr(TestIDs.PscID),
			ReferenceEtag:     Ptr(TestIDs.PscEtag),
		},
		names: &models.NameElements{Title: "Mr", Forename: "Joe", Surname: "Bloggs"},
		name:  "Acme Holdings Ltd",
		ident: &models.Identification{CountryRegistered: "England", RegistrationNumber: "99999999"},
	}
}

func (b *FilingBuilder) WithID(id string) *FilingBuilder {
	b.common.ID = id
	b.common.Links = models.NewLinks("/transactions", b.common.TransactionID, b.pscType, id)
	return b
}

func (b *FilingBuilder) WithTransactionID(id string) *FilingBuilder {
	b.common.TransactionID = id
	b.common.Links = models.NewLinks("/transactions", id, b.pscType, b.common.ID)
	return b
}

func (b *FilingBuilder) WithEtag(etag string) *FilingBuilder {
	b.common.Etag = etag
	return b
}

func (b *FilingBuilder) WithCeasedOn(d string) *FilingBuilder {
	b.common.CeasedOn = MustDate(d)
	return b
}

func (b *FilingBuilder) WithRegisterEntryDate(d string) *FilingBuilder {
	b.common.RegisterEntryDate = MustDate(d)
	return b
}

func (b *FilingBuilder) WithReferenceEtag(etag string) *FilingBuilder {
	b.common.ReferenceEtag = Ptr(etag)
	return b
}

func (b *FilingBuilder) WithNaturesOfControl(noc ...string) *FilingBuilder {
	b.common.NaturesOfControl = noc
	return b
}

// WithoutReferences clears every field the required-fields rule checks.
func (b *FilingBuilder) WithoutReferences() *FilingBuilder {
	b.common.CeasedOn = nil
	b.common.RegisterEntryDate = nil
	b.common.ReferencePscID = nil
	b.common.ReferenceEtag = nil
	return b
}

func (b *FilingBuilder) WithNameElements(n models.NameElements) *FilingBuilder {
	b.names = &n
	return b
}

func (b *FilingBuilder) WithName(name string) *FilingBuilder {
	b.name = name
	return b
}

// Build returns the variant matching the builder's PSC type.
func (b *FilingBuilder) Build() models.Filing {
	if b.pscType.Variant() == models.VariantIndividual {
		return b.Individual()
	}
	return b.WithIdentification()
}

func (b *FilingBuilder) Individual() *models.IndividualFiling {
	return &models.IndividualFiling{Communal: b.common, NameElements: b.names}
}

func (b *FilingBuilder) WithIdentification() *models.WithIdentificationFiling {
	return &models.WithIdentificationFiling{Communal: b.common, Name: b.name, Identification: b.ident}
}

// ActivePsc returns register details that match the builder defaults.
func ActivePsc() *models.PscDetails {
	return &models.PscDetails{
		Etag:         TestIDs.PscEtag,
		Kind:         "individual-person-with-significant-control",
		NameElements: &models.NameElements{Title: "Mr", Forename: "Joe", Surname: "Bloggs"},
		NotifiedOn:   MustDate("2022-09-01"),
	}
}

// OpenTransaction returns an open transaction for TestIDs.TransactionID.
func OpenTransaction() models.Transaction {
	return models.Transaction{
		ID:            TestIDs.TransactionID,
		CompanyNumber: TestIDs.CompanyNumber,
		CompanyName:   "Test Company Ltd",
		Status:        models.TransactionStatusOpen,
	}
}
