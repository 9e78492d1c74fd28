// Package sink publishes operation results to NATS subjects.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/pulse/internal/operations"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// Static errors for err113 compliance.
var (
	ErrSubjectRequired = errors.New("NATS subject is required")
)

// Publisher is the part of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Message is the payload published for one item.
type Message struct {
	Resource  pulse.ResourceType `json:"resource"`
	Operation string             `json:"operation"`
	Index     int                `json:"index"`
	JSON      interface{}        `json:"json,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// NATSPublisher publishes item results as JSON messages.
type NATSPublisher struct {
	publisher Publisher
	subject   string
	conn      *nats.Conn
	logger    pulse.Logger
}

// NewNATSPublisher wraps an existing publisher.
func NewNATSPublisher(publisher Publisher, subject string, logger pulse.Logger) (*NATSPublisher, error) {
	if subject == "" {
		return nil, ErrSubjectRequired
	}

	return &NATSPublisher{publisher: publisher, subject: subject, logger: logger}, nil
}

// Connect dials url and returns a publisher owning the connection.
func Connect(url, subject string, timeout time.Duration, logger pulse.Logger) (*NATSPublisher, error) {
	if subject == "" {
		return nil, ErrSubjectRequired
	}

	opts := []nats.Option{nats.Name("pulse")}
	if timeout > 0 {
		opts = append(opts, nats.Timeout(timeout))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &NATSPublisher{publisher: conn, subject: subject, conn: conn, logger: logger}, nil
}

// Publish sends one message per result. Every result is attempted; the
// errors are aggregated.
func (p *NATSPublisher) Publish(resource pulse.ResourceType, operation string, results []operations.ItemResult) error {
	var result *multierror.Error

	for _, item := range results {
		data, err := json.Marshal(Message{
			Resource:  resource,
			Operation: operation,
			Index:     item.Index,
			JSON:      item.JSON,
			Error:     item.Error,
		})
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("encoding item %d: %w", item.Index, err))

			continue
		}

		err = p.publisher.Publish(p.subject, data)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("publishing item %d: %w", item.Index, err))

			continue
		}

		if p.logger != nil {
			p.logger.Debug("Published result", map[string]interface{}{
				"subject": p.subject,
				"index":   item.Index,
			})
		}
	}

	return result.ErrorOrNil()
}

// Close flushes and closes the connection when the publisher owns one.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}

	defer p.conn.Close()

	err := p.conn.Flush()
	if err != nil {
		return fmt.Errorf("flushing NATS connection: %w", err)
	}

	return nil
}
