package factors

// Resolver applies the match-and-fallback algorithm against a Table.
//
// Resolution order is total and deterministic:
//
//  1. records matching the key's country, preferring the requested dataset,
//     else the lexicographically smallest dataset name;
//  2. records matching the GLOBAL sentinel country, same dataset preference;
//  3. FactorNotFound, carrying the original key.
//
// Country specificity outranks dataset preference: a country-specific record
// from another dataset wins over a GLOBAL record from the requested dataset.
// No fallback exists for year, scope or category.
type Resolver struct {
	table Table
}

// NewResolver creates a resolver over the given factor table.
func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Resolve returns exactly one factor for the key, or a NotFoundError.
// Malformed keys are rejected eagerly with a validation error distinct from
// NotFoundError.
func (r *Resolver) Resolve(key Key) (Factor, error) {
	if err := key.Validate(); err != nil {
		return Factor{}, err
	}

	if f, ok := r.pick(key); ok {
		return f, nil
	}

	if key.CountryCode != GlobalCountryCode {
		if f, ok := r.pick(key.WithCountry(GlobalCountryCode)); ok {
			return f, nil
		}
	}

	return Factor{}, &NotFoundError{Key: key}
}

// pick selects one factor from the candidates matching the key's country
// level. Candidates arrive sorted by dataset name, so the tie-break reduces
// to one scan for the requested dataset and a first-element fallback.
func (r *Resolver) pick(key Key) (Factor, bool) {
	candidates := r.table.Match(key)
	if len(candidates) == 0 {
		return Factor{}, false
	}

	if key.Dataset != "" {
		for _, f := range candidates {
			if f.Dataset == key.Dataset {
				return f, true
			}
		}
	}

	return candidates[0], true
}
