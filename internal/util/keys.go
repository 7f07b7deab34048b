package util

// Separator joins segment and id in the embedded path form. Segments and ids
// are assumed not to contain it; that assumption is not validated.
const Separator = "/"

// EmbeddedPath is the flat key of an entry under its partition node.
func EmbeddedPath(segment, id string) string {
	return segment + Separator + id
}

// RemotePath is the hierarchical path sent to the remote cache service.
func RemotePath(partition, segment, id string) []string {
	return []string{partition, segment, id}
}

// PrefixedKey scopes an embedded path to a partition for stores with a single
// flat keyspace shared across partitions (e.g. redis).
func PrefixedKey(partition, path string) string {
	return partition + ":" + path
}
