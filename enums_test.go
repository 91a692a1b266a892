package esgo_test

import (
	"errors"
	"testing"

	"github.com/veloq/esgo"
)

func TestEnumIsValid(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		check func() bool
	}{
		{"version_type internal", true, esgo.VersionTypeInternal.IsValid},
		{"version_type external", true, esgo.VersionTypeExternal.IsValid},
		{"version_type bogus", false, esgo.VersionType("bogus").IsValid},
		{"op_type index", true, esgo.OpTypeIndex.IsValid},
		{"op_type create", true, esgo.OpTypeCreate.IsValid},
		{"op_type bogus", false, esgo.OpType("delete").IsValid},
		{"replication async", true, esgo.ReplicationAsync.IsValid},
		{"replication sync", true, esgo.ReplicationSync.IsValid},
		{"replication default", true, esgo.ReplicationDefault.IsValid},
		{"replication bogus", false, esgo.Replication("eventual").IsValid},
		{"consistency default", true, esgo.ConsistencyDefault.IsValid},
		{"consistency one", true, esgo.ConsistencyOne.IsValid},
		{"consistency quorum", true, esgo.ConsistencyQuorum.IsValid},
		{"consistency all", true, esgo.ConsistencyAll.IsValid},
		{"consistency bogus", false, esgo.Consistency("two").IsValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	if v, err := esgo.ParseVersionType("external"); err != nil || v != esgo.VersionTypeExternal {
		t.Errorf("ParseVersionType(external) = %v, %v", v, err)
	}
	if o, err := esgo.ParseOpType("create"); err != nil || o != esgo.OpTypeCreate {
		t.Errorf("ParseOpType(create) = %v, %v", o, err)
	}
	if r, err := esgo.ParseReplication("sync"); err != nil || r != esgo.ReplicationSync {
		t.Errorf("ParseReplication(sync) = %v, %v", r, err)
	}
	if c, err := esgo.ParseConsistency("quorum"); err != nil || c != esgo.ConsistencyQuorum {
		t.Errorf("ParseConsistency(quorum) = %v, %v", c, err)
	}

	_, err := esgo.ParseConsistency("two")
	var ive *esgo.InvalidValueError
	if !errors.As(err, &ive) {
		t.Fatalf("ParseConsistency(two) error = %v, want InvalidValueError", err)
	}
	if ive.Option != "consistency" || ive.Value != "two" {
		t.Errorf("unexpected error fields: %+v", ive)
	}
}
