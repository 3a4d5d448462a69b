package validation

import (
	"context"
	"strings"

	"pscfiling/internal/filing/models"
)

// Verdict tells the dispatcher whether to run the next rule.
type Verdict int

const (
	Continue Verdict = iota
	Stop
)

func (v Verdict) String() string {
	if v == Stop {
		return "stop"
	}
	return "continue"
}

// Rule is one business check. Business violations are recorded on the
// Context; the returned error is reserved for infrastructure failures. Rules
// never modify the filing.
type Rule interface {
	Name() string
	Validate(ctx context.Context, vctx *Context) (Verdict, error)
}

// PscLookup fetches the current register entry for a PSC. Not-found answers
// must satisfy clients.IsNotFound.
type PscLookup interface {
	GetPscDetails(ctx context.Context, tx models.Transaction, pscID string, pscType models.PscType, token string) (*models.PscDetails, error)
}

// fill substitutes {key} placeholders in a configured message.
func fill(msg string, kv ...string) string {
	if len(kv) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
