package catalog

import "io"

// Archive stores encrypted snapshots of the catalog database off-host.
// Items are keyed by client id and name ("catalog.db", "public_key",
// "private_key") and carry the operation id they were taken at.
type Archive interface {
	// Put stores an item, replacing any previous one. size is the number of
	// bytes that will be read from r.
	Put(clientID, name string, r io.Reader, size int64, version int64) error

	// Get writes an item to w.
	Get(clientID, name string, w io.Writer) error

	// Version returns the stored version of an item, or 0 when there is none.
	Version(clientID, name string) (int64, error)

	// ValidateSetup verifies that the archive is reachable and writable.
	ValidateSetup() error
}
