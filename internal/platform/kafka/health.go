package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicChecker reports whether the filing event topic exists and has a leader
// for every partition.
type TopicChecker struct {
	admin   *kadm.Client
	topic   string
	timeout time.Duration
}

// NewTopicChecker builds a checker sharing the producer's client.
func NewTopicChecker(client *kgo.Client, topic string) *TopicChecker {
	return &TopicChecker{
		admin:   kadm.NewClient(client),
		topic:   topic,
		timeout: 5 * time.Second,
	}
}

// Check returns nil when the topic is ready for produce.
func (h *TopicChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	topics, err := h.admin.ListTopics(ctx, h.topic)
	if err != nil {
		return fmt.Errorf("list kafka topics: %w", err)
	}
	detail, ok := topics[h.topic]
	if !ok || detail.Err != nil {
		return fmt.Errorf("kafka topic %s not found", h.topic)
	}
	for _, p := range detail.Partitions {
		if p.Leader < 0 {
			return fmt.Errorf("kafka topic %s partition %d has no leader", h.topic, p.Partition)
		}
	}
	return nil
}

// Name returns the check name for health reporting.
func (h *TopicChecker) Name() string {
	return "kafka"
}
