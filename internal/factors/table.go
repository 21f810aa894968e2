package factors

import (
	"fmt"
	"sort"
)

// Table is the read-only source of emission-factor records. Match returns
// every record whose scope, category, activity type, country code and year
// equal the key's, sorted by dataset name ascending. The key's Dataset field
// is ignored here; dataset preference is the resolver's concern.
type Table interface {
	Match(key Key) []Factor
}

// IndexedTable is an immutable in-memory Table keyed by the composite match
// key. Construction validates every record and pre-sorts each bucket by
// dataset name, so lookups are O(1) average and deterministic without any
// per-call sorting.
type IndexedTable struct {
	index map[matchKey][]Factor
	size  int
}

// NewIndexedTable builds a table from the given records. It returns an error
// for the first invalid record or for two records sharing all six key
// fields (a duplicate would make resolution ambiguous).
func NewIndexedTable(records []Factor) (*IndexedTable, error) {
	index := make(map[matchKey][]Factor, len(records))

	for i, f := range records {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("factor record %d: %w", i, err)
		}

		mk := f.Key().match()
		for _, existing := range index[mk] {
			if existing.Dataset == f.Dataset {
				return nil, fmt.Errorf("factor record %d: %w: %s", i, ErrDuplicateKey, f.Key())
			}
		}
		index[mk] = append(index[mk], f)
	}

	for mk := range index {
		bucket := index[mk]
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].Dataset < bucket[j].Dataset
		})
	}

	return &IndexedTable{index: index, size: len(records)}, nil
}

// Match implements Table.
func (t *IndexedTable) Match(key Key) []Factor {
	return t.index[key.match()]
}

// Len returns the number of records in the table.
func (t *IndexedTable) Len() int {
	return t.size
}
