package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, body string) SyncRecord {
	return SyncRecord{ID: id, Data: []byte(`{"id":"` + id + `","name":"` + body + `"}`)}
}

func ids(recs []SyncRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestMergeLocalWinsOnCollision(t *testing.T) {
	remote := []SyncRecord{rec("A", "remote-a"), rec("B", "remote-b")}
	local := []SyncRecord{rec("B", "local-b"), rec("C", "local-c")}

	merged := mergeRecords(remote, local)
	require.Equal(t, []string{"A", "B", "C"}, ids(merged))
	assert.Equal(t, string(rec("B", "local-b").Data), string(merged[1].Data),
		"id collision must resolve to the local version")
}

func TestMergeEmptySides(t *testing.T) {
	local := []SyncRecord{rec("X", "x")}
	assert.Equal(t, []string{"X"}, ids(mergeRecords(nil, local)))

	remote := []SyncRecord{rec("Y", "y")}
	assert.Equal(t, []string{"Y"}, ids(mergeRecords(remote, nil)))

	assert.Empty(t, mergeRecords(nil, nil))
}

func TestMergeDeduplicatesRemote(t *testing.T) {
	remote := []SyncRecord{rec("A", "1"), rec("A", "2")}
	merged := mergeRecords(remote, nil)
	assert.Equal(t, []string{"A"}, ids(merged))
}

func TestDropTombstoned(t *testing.T) {
	recs := []SyncRecord{rec("A", "a"), rec("B", "b"), rec("C", "c")}
	out := dropTombstoned(recs, map[string]bool{"B": true})
	assert.Equal(t, []string{"A", "C"}, ids(out))

	out = dropTombstoned([]SyncRecord{rec("A", "a")}, nil)
	assert.Equal(t, []string{"A"}, ids(out))
}

func TestEncodeDecodeRecords(t *testing.T) {
	in := []SyncRecord{rec("A", "a"), rec("B", "b")}
	raw, err := EncodeRecords(in)
	require.NoError(t, err)

	out, err := DecodeRecords(raw)
	require.NoError(t, err)
	require.Equal(t, ids(in), ids(out))
	assert.JSONEq(t, string(in[0].Data), string(out[0].Data))
}
