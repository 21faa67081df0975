package catalog

// Hasher computes content checksums for the two tiers.
type Hasher interface {
	Sum(tier ChecksumTier, path *Path) (string, error)
}
