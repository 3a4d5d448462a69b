package models

import (
	"crypto/sha1" //nolint:gosec // etags are version tokens, not security material
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Encode serialises a filing to its stored JSON document.
func Encode(f Filing) ([]byte, error) {
	return json.Marshal(f)
}

// DecodeFiling reads a stored document, choosing the variant from its
// psc_type field.
func DecodeFiling(data []byte) (Filing, error) {
	var tag struct {
		PscType PscType `json:"psc_type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode filing discriminant: %w", err)
	}
	f, err := NewFiling(tag.PscType)
	if err != nil {
		return nil, fmt.Errorf("decode filing with psc_type %q: %w", tag.PscType, err)
	}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("decode %s filing: %w", f.Variant(), err)
	}
	return f, nil
}

// Clone returns a deep copy of f.
func Clone(f Filing) (Filing, error) {
	data, err := Encode(f)
	if err != nil {
		return nil, err
	}
	return DecodeFiling(data)
}

// NewFilingID returns a fresh filing identifier.
func NewFilingID() string {
	return uuid.NewString()
}

// NextEtag derives a new etag from the previous one. The result changes on
// every call even for the same input.
func NextEtag(prev string) string {
	h := sha1.New() //nolint:gosec // see import
	h.Write([]byte(prev))
	h.Write([]byte(uuid.NewString()))
	h.Write([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))
	return hex.EncodeToString(h.Sum(nil))
}
