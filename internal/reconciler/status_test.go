package reconciler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKinds(t *testing.T) {
	cases := []struct {
		msg  string
		kind ErrorKind
	}{
		{"new row violates row-level security policy for table \"products\"", KindRLSPolicy},
		{"JWT expired", KindAuthentication},
		{"invalid token", KindAuthentication},
		{"dial tcp: connection refused", KindConnection},
		{"context deadline exceeded", KindConnection},
		{"null value in column \"name\" violates not-null constraint", KindDataStructure},
		{"something completely different", KindUnknown},
	}
	for _, tc := range cases {
		ce := Classify(errors.New(tc.msg))
		assert.Equal(t, tc.kind, ce.Kind, "message: %s", tc.msg)
		assert.Equal(t, tc.msg, ce.TechnicalDetail)
		assert.NotEmpty(t, ce.UserMessage)
		assert.NotEmpty(t, ce.Suggestions)
	}
}

func TestClassifyOrderConnectionFirst(t *testing.T) {
	// a timeout talking to the auth endpoint is a connectivity problem,
	// not an authentication one
	ce := Classify(errors.New("timeout waiting for token endpoint"))
	assert.Equal(t, KindConnection, ce.Kind)
}

func TestTrackerRingBufferBounded(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tracker := NewStatusTracker(func() time.Time { return now })

	for i := 0; i < 25; i++ {
		tracker.RecordError(fmt.Errorf("boom %d", i))
	}
	recent := tracker.Recent()
	require.Len(t, recent, 10)
	assert.Equal(t, "boom 24", recent[0].TechnicalDetail, "newest first")
	assert.Equal(t, "boom 15", recent[9].TechnicalDetail)
}

func TestTrackerSuccessClearsLastError(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tracker := NewStatusTracker(func() time.Time { return now })

	tracker.RecordError(errors.New("boom"))
	require.NotNil(t, tracker.LastError())

	tracker.RecordSuccess()
	assert.Nil(t, tracker.LastError())
	assert.Equal(t, now, tracker.LastSuccess())
	// the bounded log keeps history even after a success
	assert.Len(t, tracker.Recent(), 1)
}

func TestTrackerInstancesAreIsolated(t *testing.T) {
	a := NewStatusTracker(nil)
	b := NewStatusTracker(nil)
	a.RecordError(errors.New("only in a"))
	assert.Empty(t, b.Recent())
}
