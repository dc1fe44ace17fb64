package connectivity

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/events"
)

// Oracle reports whether the remote store looks reachable. The answer is
// purely advisory: a true result does not guarantee the next remote call
// succeeds, it only gates whether the reconciler bothers trying.
type Oracle struct {
	probeURL string
	dialAddr string
	interval time.Duration
	bus      *events.Bus

	online int32
	probed int32
}

// NewOracle probes probeURL over HTTP when set, otherwise falls back to a
// TCP dial against dialAddr (normally the database host:port).
func NewOracle(probeURL, dialAddr string, interval time.Duration, bus *events.Bus) *Oracle {
	return &Oracle{
		probeURL: probeURL,
		dialAddr: dialAddr,
		interval: interval,
		bus:      bus,
		online:   1,
	}
}

// IsOnline returns the last observed reachability state.
func (o *Oracle) IsOnline() bool {
	return atomic.LoadInt32(&o.online) == 1
}

// Start launches the background probe loop until ctx is cancelled.
func (o *Oracle) Start(ctx context.Context) {
	go func() {
		o.probeOnce()
		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				o.probeOnce()
			}
		}
	}()
}

// ProbeNow forces an immediate reachability check.
func (o *Oracle) ProbeNow() bool {
	o.probeOnce()
	return o.IsOnline()
}

func (o *Oracle) probeOnce() {
	online := o.probe()
	var val int32
	if online {
		val = 1
	}
	prev := atomic.SwapInt32(&o.online, val)
	first := atomic.CompareAndSwapInt32(&o.probed, 0, 1)
	if prev != val || first {
		zap.L().Info("connectivity transition", zap.Bool("online", online))
		if o.bus != nil {
			o.bus.PublishConnectivityChange(events.ConnectivityChange{
				Online:    online,
				Timestamp: time.Now(),
			})
		}
	}
}

func (o *Oracle) probe() bool {
	if o.probeURL != "" {
		var code int
		err := gout.GET(o.probeURL).SetTimeout(5 * time.Second).Code(&code).Do()
		return err == nil && code > 0 && code < 500
	}
	if o.dialAddr != "" {
		conn, err := net.DialTimeout("tcp", o.dialAddr, 5*time.Second)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}
	return true
}

// Static is a fixed-answer oracle for tests and one-shot tools.
type Static bool

func (s Static) IsOnline() bool { return bool(s) }
