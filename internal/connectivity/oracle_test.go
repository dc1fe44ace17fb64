package connectivity

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/events"
)

func TestProbeHTTPTransitions(t *testing.T) {
	var status int32 = http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(atomic.LoadInt32(&status)))
	}))
	defer srv.Close()

	bus := events.NewBus()
	var mu sync.Mutex
	var seen []bool
	require.NoError(t, bus.SubscribeConnectivityChange(func(ev events.ConnectivityChange) {
		mu.Lock()
		seen = append(seen, ev.Online)
		mu.Unlock()
	}))

	o := NewOracle(srv.URL, "", time.Minute, bus)
	assert.True(t, o.ProbeNow())

	// a server error means the remote store is not usable
	atomic.StoreInt32(&status, http.StatusInternalServerError)
	assert.False(t, o.ProbeNow())

	atomic.StoreInt32(&status, http.StatusOK)
	assert.True(t, o.ProbeNow())

	mu.Lock()
	defer mu.Unlock()
	// first probe always announces, then one event per transition
	assert.Equal(t, []bool{true, false, true}, seen)
}

func TestProbeDialFallback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	o := NewOracle("", addr, time.Minute, nil)
	assert.True(t, o.ProbeNow())

	require.NoError(t, ln.Close())
	assert.False(t, o.ProbeNow())
}

func TestStaticOracle(t *testing.T) {
	assert.True(t, Static(true).IsOnline())
	assert.False(t, Static(false).IsOnline())
}
