package kafka

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/google/uuid"
)

// envelope is the union of the two ingestion shapes carried on the source
// topic: stream records mirrored from the upstream ingestion system, and
// object-storage trigger notifications.
type envelope struct {
	EventID string         `json:"eventID"`
	Kinesis *kinesisRecord `json:"kinesis"`
	S3      *s3Trigger     `json:"s3"`
}

type kinesisRecord struct {
	Data           string `json:"data"` // base64 payload
	SequenceNumber string `json:"sequenceNumber"`
	PartitionKey   string `json:"partitionKey"`
}

type s3Trigger struct {
	Bucket struct {
		Name string `json:"name"`
	} `json:"bucket"`
	Object struct {
		Key string `json:"key"`
	} `json:"object"`
}

// parseEnvelope maps one message value to an InboundRecord. The
// object-storage shape needs an extra fetch; its body is wrapped in the same
// base64 framing the stream shape uses so every record goes through one
// decoder contract. A value that is neither shape is passed through as the
// payload itself, so plain producers work and garbage fails in the decoder.
func parseEnvelope(ctx context.Context, value []byte, key string, blob domain.BlobStore) (domain.InboundRecord, error) {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil || (env.Kinesis == nil && env.S3 == nil) {
		return domain.InboundRecord{
			RecordID:     recordID(env.EventID),
			Data:         value,
			PartitionKey: key,
		}, nil
	}

	if env.Kinesis != nil {
		return domain.InboundRecord{
			RecordID:     recordID(env.EventID),
			Data:         []byte(env.Kinesis.Data),
			SequenceID:   env.Kinesis.SequenceNumber,
			PartitionKey: env.Kinesis.PartitionKey,
		}, nil
	}

	if blob == nil {
		return domain.InboundRecord{}, fmt.Errorf("object-storage trigger for s3://%s/%s but no blob store configured",
			env.S3.Bucket.Name, env.S3.Object.Key)
	}
	body, err := blob.Fetch(ctx, env.S3.Bucket.Name, env.S3.Object.Key)
	if err != nil {
		return domain.InboundRecord{}, fmt.Errorf("fetch trigger object s3://%s/%s: %w",
			env.S3.Bucket.Name, env.S3.Object.Key, err)
	}
	return domain.InboundRecord{
		RecordID:     recordID(env.EventID),
		Data:         []byte(base64.StdEncoding.EncodeToString(body)),
		SequenceID:   env.S3.Object.Key,
		PartitionKey: env.S3.Bucket.Name,
	}, nil
}

// recordID keeps the source event ID when present so retry bookkeeping lines
// up with the source's identifiers.
func recordID(eventID string) string {
	if eventID != "" {
		return eventID
	}
	return uuid.NewString()
}
