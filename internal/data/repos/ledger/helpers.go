package ledger

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// Keeps IN lists under SQLite's bound-parameter limit.
const maxInList = 500

func chunkIDs(ids []uuid.UUID) [][]uuid.UUID {
	ids = dedupeIDs(ids)
	chunks := make([][]uuid.UUID, 0, len(ids)/maxInList+1)
	for len(ids) > maxInList {
		chunks = append(chunks, ids[:maxInList])
		ids = ids[maxInList:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortByID[T any](rows []T, id func(T) uuid.UUID) {
	slices.SortFunc(rows, func(a, b T) int {
		ia, ib := id(a), id(b)
		return bytes.Compare(ia[:], ib[:])
	})
}
