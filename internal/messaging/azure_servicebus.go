package messaging

import (
	"context"
	"time"

	"example.com/bistro/services/restaurant/config"
	"example.com/bistro/services/restaurant/internal/tracing"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MessageHandler processes one received message
type MessageHandler func(ctx context.Context, message *azservicebus.ReceivedMessage, txn *newrelic.Transaction) error

// AzureServiceBus wraps the Azure Service Bus queue used for order events
type AzureServiceBus struct {
	client    *azservicebus.Client
	sender    *azservicebus.Sender
	queueName string
	tracer    tracing.Tracer
	enabled   bool
}

// NewAzureServiceBus creates a new Service Bus client. Without a
// connection string the bus is disabled: sends are dropped and the
// processor exits when the context ends.
func NewAzureServiceBus(cfg config.AzureConfig, tracer tracing.Tracer) (*AzureServiceBus, error) {
	if cfg.QueueConnStr == "" {
		log.Warn().Msg("Service Bus connection string not provided, messaging will be disabled")
		return &AzureServiceBus{enabled: false, tracer: tracer}, nil
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.QueueConnStr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus client")
	}

	sender, err := client.NewSender(cfg.QueueName, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus sender")
	}

	return &AzureServiceBus{
		client:    client,
		sender:    sender,
		queueName: cfg.QueueName,
		tracer:    tracer,
		enabled:   true,
	}, nil
}

// SendMessage sends a raw message body to the queue
func (b *AzureServiceBus) SendMessage(ctx context.Context, body []byte) error {
	if !b.enabled {
		return nil
	}

	msg := &azservicebus.Message{
		Body: body,
		ApplicationProperties: map[string]interface{}{
			"time": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := b.sender.SendMessage(ctx, msg, nil); err != nil {
		return errors.Wrap(err, "failed to send message")
	}
	return nil
}

// ProcessMessages receives messages from the queue and hands each one to
// the handler until the context is cancelled. Handled messages are
// completed; failed ones are abandoned for redelivery.
func (b *AzureServiceBus) ProcessMessages(ctx context.Context, handler MessageHandler) error {
	if !b.enabled {
		<-ctx.Done()
		return nil
	}

	receiver, err := b.client.NewReceiverForQueue(b.queueName, &azservicebus.ReceiverOptions{
		ReceiveMode: azservicebus.ReceiveModePeekLock,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create Service Bus receiver")
	}
	defer receiver.Close(context.Background())

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		messages, err := receiver.ReceiveMessages(ctx, 10, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("Failed to receive messages, retrying")
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		for _, message := range messages {
			b.handleMessage(ctx, receiver, message, handler)
		}
	}
}

func (b *AzureServiceBus) handleMessage(ctx context.Context, receiver *azservicebus.Receiver, message *azservicebus.ReceivedMessage, handler MessageHandler) {
	txn := b.tracer.StartTransaction("process-queue-message")
	defer b.tracer.EndTransaction(txn)

	if err := handler(ctx, message, txn); err != nil {
		b.tracer.RecordError(txn, err)
		log.Error().
			Err(err).
			Str("message_id", message.MessageID).
			Msg("Failed to process message, abandoning for redelivery")
		if abandonErr := receiver.AbandonMessage(ctx, message, nil); abandonErr != nil {
			log.Error().Err(abandonErr).Msg("Failed to abandon message")
		}
		return
	}

	if err := receiver.CompleteMessage(ctx, message, nil); err != nil {
		log.Error().
			Err(err).
			Str("message_id", message.MessageID).
			Msg("Failed to complete message")
	}
}

// Close closes the sender and the client
func (b *AzureServiceBus) Close() error {
	if !b.enabled {
		return nil
	}

	if b.sender != nil {
		if err := b.sender.Close(context.Background()); err != nil {
			return err
		}
	}
	if b.client != nil {
		return b.client.Close(context.Background())
	}
	return nil
}
