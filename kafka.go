package algopay

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/usheguard/algopay/schema"
)

const (
	OutcomeTopic = "algopay_outcome"
)

// KWriter publishes recorded submission outcomes as json events, keyed by
// txId so downstream consumers can partition per transaction.
type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KWriter{
		w: w,
	}, nil
}

func (kw *KWriter) WriteOutcome(outcome schema.SubmissionOutcome) error {
	body, err := json.Marshal(&outcome)
	if err != nil {
		return err
	}
	return kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Key:   []byte(outcome.TxId),
			Value: body,
		},
	)
}

func (kw *KWriter) Close() {
	kw.w.Close()
}
