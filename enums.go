package esgo

// The document API constrains four options to fixed value sets. Each set gets
// its own string type so a caller cannot confuse, say, a consistency level
// with a replication mode. IsValid is the pure membership check the builder
// setters rely on; the Parse helpers are for code that starts from plain
// strings, such as CLI flags or config files.

// VersionType selects how the engine compares document versions.
type VersionType string

// Valid version types.
const (
	VersionTypeInternal VersionType = "internal"
	VersionTypeExternal VersionType = "external"
)

// IsValid reports whether v is one of the supported version types.
func (v VersionType) IsValid() bool {
	return v == VersionTypeInternal || v == VersionTypeExternal
}

// ParseVersionType converts a raw string into a VersionType.
func ParseVersionType(s string) (VersionType, error) {
	v := VersionType(s)
	if !v.IsValid() {
		return "", &InvalidValueError{Option: "version_type", Value: s, Allowed: versionTypeValues}
	}
	return v, nil
}

var versionTypeValues = []string{string(VersionTypeInternal), string(VersionTypeExternal)}

// OpType controls whether a store must create a new document or may also
// replace an existing one.
type OpType string

// Valid op types.
const (
	OpTypeIndex  OpType = "index"
	OpTypeCreate OpType = "create"
)

// IsValid reports whether o is one of the supported op types.
func (o OpType) IsValid() bool {
	return o == OpTypeIndex || o == OpTypeCreate
}

// ParseOpType converts a raw string into an OpType.
func ParseOpType(s string) (OpType, error) {
	o := OpType(s)
	if !o.IsValid() {
		return "", &InvalidValueError{Option: "op_type", Value: s, Allowed: opTypeValues}
	}
	return o, nil
}

var opTypeValues = []string{string(OpTypeIndex), string(OpTypeCreate)}

// Replication selects synchronous or asynchronous shard replication for a
// write.
type Replication string

// Valid replication modes.
const (
	ReplicationAsync   Replication = "async"
	ReplicationSync    Replication = "sync"
	ReplicationDefault Replication = "default"
)

// IsValid reports whether r is one of the supported replication modes.
func (r Replication) IsValid() bool {
	return r == ReplicationAsync || r == ReplicationSync || r == ReplicationDefault
}

// ParseReplication converts a raw string into a Replication.
func ParseReplication(s string) (Replication, error) {
	r := Replication(s)
	if !r.IsValid() {
		return "", &InvalidValueError{Option: "replication", Value: s, Allowed: replicationValues}
	}
	return r, nil
}

var replicationValues = []string{string(ReplicationAsync), string(ReplicationSync), string(ReplicationDefault)}

// Consistency is the number of shard replicas that must acknowledge a write.
type Consistency string

// Valid consistency levels.
const (
	ConsistencyDefault Consistency = "default"
	ConsistencyOne     Consistency = "one"
	ConsistencyQuorum  Consistency = "quorum"
	ConsistencyAll     Consistency = "all"
)

// IsValid reports whether c is one of the supported consistency levels.
func (c Consistency) IsValid() bool {
	return c == ConsistencyDefault || c == ConsistencyOne || c == ConsistencyQuorum || c == ConsistencyAll
}

// ParseConsistency converts a raw string into a Consistency.
func ParseConsistency(s string) (Consistency, error) {
	c := Consistency(s)
	if !c.IsValid() {
		return "", &InvalidValueError{Option: "consistency", Value: s, Allowed: consistencyValues}
	}
	return c, nil
}

var consistencyValues = []string{
	string(ConsistencyDefault), string(ConsistencyOne), string(ConsistencyQuorum), string(ConsistencyAll),
}
