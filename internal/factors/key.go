package factors

import "fmt"

// Key is the composite lookup key for factor resolution. It is a value
// object: construct it once, never mutate it.
//
// Dataset is a preference, not a filter: an empty Dataset means the caller
// has no source preference and resolution falls back to the tie-break order
// (see Resolver). All other fields are matched exactly, except CountryCode
// which has the GLOBAL relaxation path.
type Key struct {
	Scope        int
	Category     string
	ActivityType string
	CountryCode  string
	Year         int
	Dataset      string
}

// Validate rejects malformed keys eagerly at the API boundary. A malformed
// key is a caller bug, not a data-quality error.
func (k Key) Validate() error {
	switch {
	case k.Category == "":
		return fmt.Errorf("%w: category", ErrMissingField)
	case k.ActivityType == "":
		return fmt.Errorf("%w: activity_type", ErrMissingField)
	case k.CountryCode == "":
		return fmt.Errorf("%w: country_code", ErrMissingField)
	case k.Year == 0:
		return fmt.Errorf("%w: year", ErrMissingField)
	}
	if k.Scope < MinScope || k.Scope > MaxScope {
		return fmt.Errorf("%w: got %d", ErrInvalidScope, k.Scope)
	}
	return nil
}

// WithCountry returns a copy of the key with the country code replaced.
func (k Key) WithCountry(country string) Key {
	k.CountryCode = country
	return k
}

// String renders the key for diagnostics and cache keying.
func (k Key) String() string {
	dataset := k.Dataset
	if dataset == "" {
		dataset = "*"
	}
	return fmt.Sprintf("s%d/%s/%s/%s/%d/%s",
		k.Scope, k.Category, k.ActivityType, k.CountryCode, k.Year, dataset)
}

// matchKey is the index key: every Key field except Dataset. Candidates that
// differ only by dataset share one index bucket.
type matchKey struct {
	scope        int
	category     string
	activityType string
	countryCode  string
	year         int
}

func (k Key) match() matchKey {
	return matchKey{
		scope:        k.Scope,
		category:     k.Category,
		activityType: k.ActivityType,
		countryCode:  k.CountryCode,
		year:         k.Year,
	}
}
