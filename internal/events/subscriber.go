package events

// Message is one event as delivered by the bus: the concrete topic it was
// published on plus its raw JSON payload. Wildcard subscriptions need the
// topic to pick the payload type; Decode does that mapping.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives event messages from the bus. The cancel function
// returned by Subscribe unsubscribes and closes the channel.
type Subscriber interface {
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}
