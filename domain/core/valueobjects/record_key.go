package valueobjects

import (
	"fmt"
	"strings"
	"unicode"
)

// RecordType identifies one of the record families stored in the single table.
type RecordType string

const (
	RecordTypeItem                RecordType = "ITEM"
	RecordTypeWebsite             RecordType = "WEBSITE"
	RecordTypeFileGroup           RecordType = "FILEGROUP"
	RecordTypeSupplementalData    RecordType = "SUPPLEMENTALDATA"
	RecordTypePortfolioUser       RecordType = "USER"
	RecordTypePortfolioCollection RecordType = "PORTFOLIO"
	RecordTypePortfolioItem       RecordType = "PORTFOLIOITEM"
)

// KeyDelimiter separates the record type prefix from the normalized id.
const KeyDelimiter = "#"

// RecordKey is a typed composite key into the single table. Keys are always
// stored in their normalized form: uppercase, whitespace removed,
// prefixed with the record type.
type RecordKey struct {
	recordType RecordType
	id         string
}

// NormalizeID converts a raw identifier to its canonical stored form:
// uppercase with all whitespace removed. Normalization is idempotent.
func NormalizeID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// NewRecordKey builds a key from a record type and a raw id, normalizing the
// id. The raw id must not normalize to the empty string.
func NewRecordKey(rt RecordType, rawID string) (RecordKey, error) {
	id := NormalizeID(rawID)
	if id == "" {
		return RecordKey{}, fmt.Errorf("record key id is empty after normalization (type %s)", rt)
	}
	if strings.Contains(id, KeyDelimiter) {
		return RecordKey{}, fmt.Errorf("record key id %q contains reserved delimiter", id)
	}
	return RecordKey{recordType: rt, id: id}, nil
}

// ParseRecordKey splits a stored key string back into its record type and id.
func ParseRecordKey(stored string) (RecordKey, error) {
	parts := strings.SplitN(stored, KeyDelimiter, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RecordKey{}, fmt.Errorf("malformed record key %q", stored)
	}
	switch rt := RecordType(parts[0]); rt {
	case RecordTypeItem, RecordTypeWebsite, RecordTypeFileGroup,
		RecordTypeSupplementalData, RecordTypePortfolioUser,
		RecordTypePortfolioCollection, RecordTypePortfolioItem:
		return RecordKey{recordType: rt, id: parts[1]}, nil
	default:
		return RecordKey{}, fmt.Errorf("unknown record type prefix %q", parts[0])
	}
}

// Type returns the record type of the key.
func (k RecordKey) Type() RecordType {
	return k.recordType
}

// ID returns the normalized id portion of the key.
func (k RecordKey) ID() string {
	return k.id
}

// String returns the stored form: "<TYPE>#<NORMALIZED-ID>".
func (k RecordKey) String() string {
	return string(k.recordType) + KeyDelimiter + k.id
}

// IsZero reports whether the key is uninitialized.
func (k RecordKey) IsZero() bool {
	return k.recordType == "" && k.id == ""
}

// TypeListKey is the GSI2 partition key grouping all records of one type,
// used for type-wide listings.
func TypeListKey(rt RecordType) string {
	return "TYPE" + KeyDelimiter + string(rt)
}

// FeaturedListKey is the GSI2 partition key shared by public, featured
// portfolio collections.
const FeaturedListKey = "FEATURED"
