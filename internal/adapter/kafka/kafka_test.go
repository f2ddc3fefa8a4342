package kafka

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBlobStore struct {
	objects map[string][]byte
	err     error
}

func (s *stubBlobStore) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	body, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return body, nil
}

func (s *stubBlobStore) Store(ctx context.Context, key string, body []byte, metadata map[string]string) error {
	return nil
}

func TestParseEnvelope_StreamRecord(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte(`{"id":"p1","text":"flood in Marikina"}`))
	value := []byte(`{
		"eventID": "shardId-000:49590338",
		"kinesis": {
			"data": "` + payload + `",
			"sequenceNumber": "49590338271490256608559692538361571095921575989136588898",
			"partitionKey": "p1"
		}
	}`)

	rec, err := parseEnvelope(context.Background(), value, "p1", nil)
	require.NoError(t, err)

	assert.Equal(t, "shardId-000:49590338", rec.RecordID)
	assert.Equal(t, payload, string(rec.Data))
	assert.Equal(t, "49590338271490256608559692538361571095921575989136588898", rec.SequenceID)
	assert.Equal(t, "p1", rec.PartitionKey)
}

func TestParseEnvelope_ObjectStorageTrigger(t *testing.T) {
	body := []byte(`{"id":"p2","text":"earthquake felt in Cebu"}`)
	blob := &stubBlobStore{objects: map[string][]byte{
		"ingest-bucket/twitter_data/20250615_121500_0_p2.json": body,
	}}
	value := []byte(`{
		"s3": {
			"bucket": {"name": "ingest-bucket"},
			"object": {"key": "twitter_data/20250615_121500_0_p2.json"}
		}
	}`)

	rec, err := parseEnvelope(context.Background(), value, "", blob)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.RecordID)
	assert.Equal(t, base64.StdEncoding.EncodeToString(body), string(rec.Data))
	assert.Equal(t, "twitter_data/20250615_121500_0_p2.json", rec.SequenceID)
	assert.Equal(t, "ingest-bucket", rec.PartitionKey)

	post, err := domain.DecodePost(rec)
	require.NoError(t, err)
	assert.Equal(t, "earthquake felt in Cebu", post.Text)
}

func TestParseEnvelope_TriggerFetchFails(t *testing.T) {
	blob := &stubBlobStore{err: errors.New("access denied")}
	value := []byte(`{"s3":{"bucket":{"name":"b"},"object":{"key":"k"}}}`)

	_, err := parseEnvelope(context.Background(), value, "", blob)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://b/k")
}

func TestParseEnvelope_TriggerWithoutBlobStore(t *testing.T) {
	value := []byte(`{"s3":{"bucket":{"name":"b"},"object":{"key":"k"}}}`)

	_, err := parseEnvelope(context.Background(), value, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no blob store configured")
}

func TestParseEnvelope_PlainValuePassesThrough(t *testing.T) {
	raw := []byte(base64.StdEncoding.EncodeToString([]byte("bare text post")))

	rec, err := parseEnvelope(context.Background(), raw, "key-7", nil)
	require.NoError(t, err)

	assert.Equal(t, raw, rec.Data)
	assert.Equal(t, "key-7", rec.PartitionKey)
	assert.NotEmpty(t, rec.RecordID)
}

func TestParseEnvelope_GarbageStillYieldsRecord(t *testing.T) {
	rec, err := parseEnvelope(context.Background(), []byte("\xff\xfenot json"), "", nil)
	require.NoError(t, err)

	// Resolution never fails on malformed values; the decoder reports them.
	_, err = domain.DecodePost(rec)
	var de *domain.DecodeError
	require.ErrorAs(t, err, &de)
}
