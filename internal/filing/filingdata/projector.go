// Package filingdata turns a stored filing into the document the filing
// generator consumes.
package filingdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/config"
	pstrings "pscfiling/pkg/platform/strings"
)

// ErrMissingCeasedOn means the projected data has no usable ceased_on. The
// filing cannot be described without it.
var ErrMissingCeasedOn = errors.New("filing data has no valid ceased_on")

// DescriptionDateLayout renders the cessation date in the description.
const DescriptionDateLayout = "02/01/2006"

// systemKeys are stored fields the filing generator does not receive.
var systemKeys = []string{"id", "etag", "kind", "links", "created_at", "updated_at", "transaction_id"}

// FilingApi is one entry of the filing generator response.
type FilingApi struct {
	Kind                  string            `json:"kind"`
	Data                  map[string]any    `json:"data"`
	Description           string            `json:"description"`
	DescriptionIdentifier string            `json:"description_identifier"`
	DescriptionValues     map[string]string `json:"description_values"`
}

// Projector builds FilingApi documents. It holds only configuration.
type Projector struct {
	desc config.Description
}

func NewProjector(desc config.Description) *Projector {
	return &Projector{desc: desc}
}

// Project overlays details onto f and renders the result. A nil details
// leaves f as stored. f itself is never modified.
func (p *Projector) Project(f models.Filing, details *models.PscDetails) (FilingApi, error) {
	enriched, err := Enrich(f, details)
	if err != nil {
		return FilingApi{}, err
	}
	data, err := ToData(enriched)
	if err != nil {
		return FilingApi{}, err
	}
	ceasedOn, err := ceasedOnOf(data)
	if err != nil {
		return FilingApi{}, err
	}

	name := DisplayName(enriched)
	date := ceasedOn.Format(DescriptionDateLayout)
	return FilingApi{
		Kind:                  Kind(enriched.Common().PscType),
		Data:                  data,
		Description:           strings.NewReplacer("{name}", name, "{date}", date).Replace(p.desc.Template),
		DescriptionIdentifier: p.desc.Identifier,
		DescriptionValues: map[string]string{
			"psc_name":  name,
			"ceased_on": date,
		},
	}, nil
}

// Kind is the filing generator kind for a PSC type.
func Kind(t models.PscType) string {
	return models.KindCessation + "#" + t.String()
}

// Enrich returns a copy of f with the register's identity fields laid over
// it: name elements for individuals, name and identification otherwise. Only
// fields details supplies are overwritten.
func Enrich(f models.Filing, details *models.PscDetails) (models.Filing, error) {
	out, err := models.Clone(f)
	if err != nil {
		return nil, fmt.Errorf("clone filing: %w", err)
	}
	if details == nil {
		return out, nil
	}
	switch v := out.(type) {
	case *models.IndividualFiling:
		if details.NameElements != nil {
			v.NameElements = details.NameElements
		}
	case *models.WithIdentificationFiling:
		if details.Name != "" {
			v.Name = details.Name
		}
		if details.Identification != nil {
			v.Identification = details.Identification
		}
	}
	return out, nil
}

// ToData flattens f into the snake_case map sent as filing data.
func ToData(f models.Filing) (map[string]any, error) {
	raw, err := models.Encode(f)
	if err != nil {
		return nil, fmt.Errorf("encode filing: %w", err)
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode filing data: %w", err)
	}
	for _, k := range systemKeys {
		delete(data, k)
	}
	return data, nil
}

// DisplayName is the PSC name used in the description.
func DisplayName(f models.Filing) string {
	switch v := f.(type) {
	case *models.IndividualFiling:
		if v.NameElements == nil {
			return ""
		}
		n := v.NameElements
		return pstrings.JoinNonEmpty(n.Title, n.Forename, n.OtherForenames, n.Surname)
	case *models.WithIdentificationFiling:
		return strings.TrimSpace(v.Name)
	default:
		return ""
	}
}

func ceasedOnOf(data map[string]any) (models.Date, error) {
	raw, ok := data["ceased_on"].(string)
	if !ok {
		return models.Date{}, ErrMissingCeasedOn
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %w", ErrMissingCeasedOn, err)
	}
	return d, nil
}
