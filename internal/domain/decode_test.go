package domain

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeRecord(t *testing.T, payload any) InboundRecord {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return InboundRecord{
		RecordID:     "rec-1",
		Data:         []byte(base64.StdEncoding.EncodeToString(data)),
		SequenceID:   "seq-1",
		PartitionKey: "pk-1",
	}
}

func TestDecodePost_StructuredPost(t *testing.T) {
	rec := encodeRecord(t, map[string]any{
		"id":          "tw-42",
		"text":        "Flooding in Manila, people trapped",
		"user":        "@reporter",
		"is_verified": true,
		"hashtags":    []string{"#Rescue", "#rescue", " #Flood ", ""},
		"location":    "Manila",
		"timestamp":   "2025-08-30T11:22:33Z",
	})

	post, err := DecodePost(rec)
	require.NoError(t, err)

	want := Post{
		ID:               "tw-42",
		Text:             "Flooding in Manila, people trapped",
		AuthorHandle:     "@reporter",
		IsVerified:       true,
		Hashtags:         []string{"#rescue", "#flood"},
		DeclaredLocation: "Manila",
		Timestamp:        "2025-08-30T11:22:33Z",
	}
	if diff := cmp.Diff(want, post); diff != "" {
		t.Errorf("decoded post mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePost_TweetIDFallback(t *testing.T) {
	rec := encodeRecord(t, map[string]any{"tweet_id": "legacy-7", "text": "hi"})
	post, err := DecodePost(rec)
	require.NoError(t, err)
	assert.Equal(t, "legacy-7", post.ID)

	rec = encodeRecord(t, map[string]any{"text": "hi"})
	post, err = DecodePost(rec)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", post.ID, "falls back to the record ID")
}

func TestDecodePost_BareText(t *testing.T) {
	rec := InboundRecord{
		RecordID: "rec-2",
		Data:     []byte(base64.StdEncoding.EncodeToString([]byte("  Earthquake felt in Cebu  "))),
	}

	post, err := DecodePost(rec)
	require.NoError(t, err)
	assert.Equal(t, "Earthquake felt in Cebu", post.Text)
	assert.Equal(t, "rec-2", post.ID)
	assert.Empty(t, post.Hashtags)
}

func TestDecodePost_EmptyTextFieldIsAccepted(t *testing.T) {
	// An explicit empty text field decodes fine; the pipeline suppresses
	// alerting for it instead of failing the record.
	rec := encodeRecord(t, map[string]any{"id": "tw-1", "text": ""})
	post, err := DecodePost(rec)
	require.NoError(t, err)
	assert.Empty(t, post.Text)
}

func TestDecodePost_Failures(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{name: "invalid base64", data: []byte("%%%not-base64%%%")},
		{name: "invalid utf8", data: []byte(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}))},
		{name: "json object without text", data: []byte(base64.StdEncoding.EncodeToString([]byte(`{"id":"tw-9"}`)))},
		{name: "blank bare text", data: []byte(base64.StdEncoding.EncodeToString([]byte("   \n\t ")))},
		{name: "empty payload", data: []byte(base64.StdEncoding.EncodeToString(nil))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePost(InboundRecord{RecordID: "rec-x", Data: tc.data})
			require.Error(t, err)

			var de *DecodeError
			assert.ErrorAs(t, err, &de)
			assert.False(t, IsRetryable(err), "decode failures are permanent")
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&ServiceError{Dependency: "comprehend", Err: errors.New("timeout")}))
	assert.True(t, IsRetryable(&PublishError{Err: errors.New("throttled")}))
	assert.False(t, IsRetryable(&DecodeError{Reason: "bad"}))
}
