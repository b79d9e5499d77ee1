package events

import (
	"context"
	"time"

	"github.com/jhoicas/asseta-api/internal/application/ports"
)

// Broker publicador de bajo nivel (pkg/mq.Publisher lo implementa).
type Broker interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Envelope formato de todos los eventos publicados.
type Envelope struct {
	Event      string    `json:"event"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher envuelve cada payload en un Envelope antes de enviarlo al broker.
type Publisher struct {
	broker  Broker
	source  string
	timeout time.Duration
	now     func() time.Time
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher construye el adaptador; source identifica al servicio emisor.
func NewPublisher(broker Broker, source string) *Publisher {
	return &Publisher{broker: broker, source: source, timeout: 3 * time.Second, now: time.Now}
}

// PublishJSON publica con un timeout propio para no frenar la petición que lo originó.
func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.broker.PublishJSON(ctx, routingKey, Envelope{
		Event:      routingKey,
		Source:     p.source,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
}
