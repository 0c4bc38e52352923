package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/logging"
)

type mockKafkaConn struct {
	createFunc func(topics ...kafka.TopicConfig) error
	readFunc   func(topics ...string) ([]kafka.Partition, error)
	closeFunc  func() error
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createFunc != nil {
		return m.createFunc(topics...)
	}
	return nil
}

func (m *mockKafkaConn) DeleteTopics(topics ...string) error { return nil }

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.readFunc != nil {
		return m.readFunc(topics...)
	}
	return nil, nil
}

func (m *mockKafkaConn) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func newTestTopicManager(mock ConnInterface) *TopicManager {
	return &TopicManager{
		conn:   mock,
		logger: logging.NewNopLogger(),
	}
}

func TestDefaultTopics_CoverAllPublishedTopics(t *testing.T) {
	defaults := DefaultTopics()
	require.Len(t, defaults, 2)

	names := map[string]bool{}
	for _, tc := range defaults {
		names[tc.Name] = true
		assert.Greater(t, tc.NumPartitions, 0)
		assert.Greater(t, tc.ReplicationFactor, 0)
	}
	assert.True(t, names[TopicFactsExtracted])
	assert.True(t, names[TopicJobCompleted])
}

func TestCreateTopic_Success(t *testing.T) {
	mock := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			require.Len(t, topics, 1)
			assert.Equal(t, "test", topics[0].Topic)
			return nil
		},
	}
	m := newTestTopicManager(mock)

	err := m.CreateTopic(context.Background(), TopicConfig{Name: "test", NumPartitions: 1, ReplicationFactor: 1})
	assert.NoError(t, err)
}

func TestCreateTopic_Validation(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	ctx := context.Background()

	assert.Error(t, m.CreateTopic(ctx, TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestCreateTopic_RetentionBecomesConfigEntry(t *testing.T) {
	var captured kafka.TopicConfig
	mock := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			captured = topics[0]
			return nil
		},
	}
	m := newTestTopicManager(mock)

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name: "t", NumPartitions: 1, ReplicationFactor: 1, RetentionMs: 1000,
	})
	require.NoError(t, err)

	found := false
	for _, e := range captured.ConfigEntries {
		if e.ConfigName == "retention.ms" && e.ConfigValue == "1000" {
			found = true
		}
	}
	assert.True(t, found)
}

// Create against an already existing topic succeeds when the partitions are
// readable.
func TestCreateTopic_AlreadyExists(t *testing.T) {
	mock := &mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			return assert.AnError
		},
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{{Topic: "t"}}, nil
		},
	}
	m := newTestTopicManager(mock)

	err := m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1})
	assert.NoError(t, err)
}

func TestTopicExists(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			if topics[0] == "present" {
				return []kafka.Partition{{Topic: "present"}}, nil
			}
			return nil, nil
		},
	})

	exists, err := m.TopicExists(context.Background(), "present")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = m.TopicExists(context.Background(), "absent")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestListTopics_Deduplicates(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{
		readFunc: func(topics ...string) ([]kafka.Partition, error) {
			return []kafka.Partition{
				{Topic: "a"}, {Topic: "a"}, {Topic: "b"},
			}, nil
		},
	})

	topics, err := m.ListTopics(context.Background())
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, topics)
}

func TestEnsureDefaultTopics(t *testing.T) {
	created := map[string]bool{}
	m := newTestTopicManager(&mockKafkaConn{
		createFunc: func(topics ...kafka.TopicConfig) error {
			for _, tc := range topics {
				created[tc.Topic] = true
			}
			return nil
		},
	})

	require.NoError(t, m.EnsureDefaultTopics(context.Background()))
	assert.True(t, created[TopicFactsExtracted])
	assert.True(t, created[TopicJobCompleted])
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEventEnvelope("facts.extracted", "docfacts", FactsExtractedPayload{
		DocumentID:  "doc-1",
		EntityCount: 2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	msg, err := env.ToMessage(TopicFactsExtracted, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, TopicFactsExtracted, msg.Topic)
	assert.Equal(t, "facts.extracted", msg.Headers["event_type"])

	var payload FactsExtractedPayload
	require.NoError(t, env.DecodePayload(&payload))
	assert.Equal(t, "doc-1", payload.DocumentID)
	assert.Equal(t, 2, payload.EntityCount)
}
