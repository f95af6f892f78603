package services

// Event names published on the order events queue.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)

// EventPublisher publishes order lifecycle events to the message broker.
// *rabbitmq.Client satisfies it; services tolerate a nil publisher so tests
// and broker outages degrade to log-and-continue.
type EventPublisher interface {
	PublishEvent(event string, payload any) error
}
