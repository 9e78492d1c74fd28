package sink_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/pulse/internal/operations"
	"github.com/fivetwenty-io/pulse/internal/sink"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

var errBroker = errors.New("broker unavailable")

type fakePublisher struct {
	subjects []string
	messages [][]byte
	failAt   int
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.failAt > 0 && len(f.messages)+1 == f.failAt {
		f.failAt = 0

		return errBroker
	}

	f.subjects = append(f.subjects, subject)
	f.messages = append(f.messages, data)

	return nil
}

func TestNATSPublisher_Publish(t *testing.T) {
	t.Parallel()

	fake := &fakePublisher{}

	publisher, err := sink.NewNATSPublisher(fake, "pulse.results", nil)
	require.NoError(t, err)

	err = publisher.Publish(pulse.ResourceTalent, "getTalent", []operations.ItemResult{
		{Index: 0, JSON: map[string]interface{}{"id": "t1"}},
		{Index: 1, Error: "API request failed: Resource not found"},
	})
	require.NoError(t, err)
	require.Len(t, fake.messages, 2)
	assert.Equal(t, []string{"pulse.results", "pulse.results"}, fake.subjects)

	var first, second sink.Message

	require.NoError(t, json.Unmarshal(fake.messages[0], &first))
	require.NoError(t, json.Unmarshal(fake.messages[1], &second))

	assert.Equal(t, pulse.ResourceTalent, first.Resource)
	assert.Equal(t, "getTalent", first.Operation)
	assert.Equal(t, map[string]interface{}{"id": "t1"}, first.JSON)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, "API request failed: Resource not found", second.Error)
	assert.Nil(t, second.JSON)
}

func TestNATSPublisher_PartialFailure(t *testing.T) {
	t.Parallel()

	fake := &fakePublisher{failAt: 1}

	publisher, err := sink.NewNATSPublisher(fake, "pulse.results", nil)
	require.NoError(t, err)

	err = publisher.Publish(pulse.ResourceQuizz, "getQuizz", []operations.ItemResult{{Index: 0}, {Index: 1}})
	require.ErrorIs(t, err, errBroker)
	assert.Contains(t, err.Error(), "publishing item 0")
	assert.Len(t, fake.messages, 1)
	assert.NoError(t, publisher.Close())
}

func TestNewNATSPublisher_RequiresSubject(t *testing.T) {
	t.Parallel()

	_, err := sink.NewNATSPublisher(&fakePublisher{}, "", nil)
	require.ErrorIs(t, err, sink.ErrSubjectRequired)

	_, err = sink.Connect("nats://127.0.0.1:4222", "", 0, nil)
	require.ErrorIs(t, err, sink.ErrSubjectRequired)
}
