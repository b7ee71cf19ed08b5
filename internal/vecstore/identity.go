package vecstore

// PointID derives the Qdrant point id from a document-store primary
// identifier. The hash is a pure function: any producer deriving the
// point id for the same document id gets the same integer, so the two
// stores reconcile without a mapping table.
//
// The accumulation is hash = hash*31 + charCode in wraparound 32-bit
// signed arithmetic, and the final key is abs(hash) mod 2^31. This must
// stay bit-for-bit stable across implementations; do not change it
// without re-indexing every stored vector.
//
// Distinct document ids can collide. That is an accepted limitation:
// the mapper neither detects nor resolves collisions.
func PointID(docID string) uint64 {
	var hash int32
	for _, c := range docID {
		hash = hash*31 + int32(c)
	}

	v := int64(hash)
	if v < 0 {
		v = -v
	}
	return uint64(v % (1 << 31))
}
