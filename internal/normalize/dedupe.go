package normalize

// Hashable is any record exposing an identity hash for duplicate suppression.
type Hashable interface {
	IdentityHash() string
}

// Dedupe drops later occurrences of an identity hash, keeping the first in
// original order. It guards against one export carrying duplicate rows;
// duplicates across units are resolved by the store's upsert.
func Dedupe[T Hashable](records []T) []T {
	if len(records) == 0 {
		return records
	}

	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, record := range records {
		hash := record.IdentityHash()
		if seen[hash] {
			continue
		}
		seen[hash] = true
		out = append(out, record)
	}
	return out
}
