package bot

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// Reply is one outgoing reply, queued for whatever delivers messages back to
// users.
type Reply struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// RequestBatchConsumer drains incoming messages off the request queue,
// resolves each into replies and publishes them to the reply queue.
type RequestBatchConsumer struct {
	bot     *Bot
	replies rmq.Queue
}

func NewRequestBatchConsumer(b *Bot, replies rmq.Queue) *RequestBatchConsumer {
	return &RequestBatchConsumer{bot: b, replies: replies}
}

func (c *RequestBatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	processing := pool.New().WithMaxGoroutines(4)
	for _, payload := range payloads {
		processing.Go(func() {
			c.processPayload(payload)
		})
	}
	processing.Wait()

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Error().Err(err).Msg("Failed to ack batch")
		}
	}
}

func (c *RequestBatchConsumer) processPayload(payload string) {
	var message Message
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		log.Error().Err(err).Msg("Failed to decode queued message")
		return
	}

	for _, text := range c.bot.ProcessMessage(context.Background(), message) {
		log.Info().Str("to", message.From).Str("text", text).Msg("Replying")

		encoded, err := json.Marshal(Reply{To: message.From, Text: text})
		if err != nil {
			continue
		}
		if err := c.replies.PublishBytes(encoded); err != nil {
			log.Error().Err(err).Msg("Failed to publish reply")
		}
	}
}
