package search

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/Paintersrp/mixsearch/internal/constants"
)

// Keyword is user input normalized for searching.
type Keyword struct {
	Raw     string
	Trimmed string
}

// NewKeyword trims surrounding whitespace from raw.
func NewKeyword(raw string) Keyword {
	return Keyword{Raw: raw, Trimmed: strings.TrimSpace(raw)}
}

func (k Keyword) String() string {
	return k.Trimmed
}

// IsEmpty reports whether nothing is left after trimming.
func (k Keyword) IsEmpty() bool {
	return k.Trimmed == ""
}

// Equal compares trimmed forms.
func (k Keyword) Equal(other Keyword) bool {
	return k.Trimmed == other.Trimmed
}

// MaybeIDOrPhone reports whether the keyword could be an identity number or
// a phone number worth looking up remotely. A keyword with a '+' must parse
// as a valid number for region.
func (k Keyword) MaybeIDOrPhone(region string) bool {
	kw := k.Trimmed
	if len(kw) < constants.MinIDOrPhoneLength {
		return false
	}
	for _, r := range kw {
		if !strings.ContainsRune(constants.IDOrPhoneChars, r) {
			return false
		}
	}
	if !strings.Contains(kw, "+") {
		return true
	}

	number, err := phonenumbers.Parse(kw, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(number)
}
