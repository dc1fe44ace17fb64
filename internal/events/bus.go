package events

import (
	"time"

	"github.com/asaskevich/EventBus"
)

const (
	topicDatasetChanged = "catalog.dataset.changed"
	topicConnectivity   = "catalog.connectivity.changed"
)

// Source values carried by a DatasetChange.
const (
	SourceServer = "server"
	SourceLocal  = "local"
)

// DatasetChange is broadcast whenever a dataset's cached value changes.
// Source says whether the data came back from the remote store or from a
// local-only mutation.
type DatasetChange struct {
	Dataset   string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// ConnectivityChange is broadcast on every online/offline transition.
type ConnectivityChange struct {
	Online    bool      `json:"online"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus is the typed publish/subscribe channel shared by the reconciler,
// the connectivity oracle and the presentation layer. Consumers subscribe
// to typed payloads rather than discovering string event names.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

func (b *Bus) PublishDatasetChange(ev DatasetChange) {
	b.bus.Publish(topicDatasetChanged, ev)
}

func (b *Bus) SubscribeDatasetChange(fn func(DatasetChange)) error {
	return b.bus.Subscribe(topicDatasetChanged, fn)
}

func (b *Bus) UnsubscribeDatasetChange(fn func(DatasetChange)) error {
	return b.bus.Unsubscribe(topicDatasetChanged, fn)
}

func (b *Bus) PublishConnectivityChange(ev ConnectivityChange) {
	b.bus.Publish(topicConnectivity, ev)
}

func (b *Bus) SubscribeConnectivityChange(fn func(ConnectivityChange)) error {
	return b.bus.Subscribe(topicConnectivity, fn)
}
