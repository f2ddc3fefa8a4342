package domain

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// rawPost is the flat JSON shape produced by the social ingestion system.
// Text is a pointer so an absent field can be told apart from an empty one.
type rawPost struct {
	ID         string   `json:"id"`
	TweetID    string   `json:"tweet_id"`
	Text       *string  `json:"text"`
	User       string   `json:"user"`
	Location   string   `json:"location"`
	Hashtags   []string `json:"hashtags"`
	IsVerified bool     `json:"is_verified"`
	Timestamp  string   `json:"timestamp"`
}

// DecodePost turns one inbound record into a normalized post: base64 decode,
// UTF-8 validation, then JSON parse. A payload that is not a JSON object is
// still accepted when the decoded text itself is usable as the post body.
//
// Returns a *DecodeError on bad framing, invalid UTF-8, a JSON object with no
// text key, or a bare-text payload that is blank. A JSON object whose text
// field is present but empty decodes successfully; alerting for it is
// suppressed by the caller.
func DecodePost(rec InboundRecord) (Post, error) {
	raw, err := DecodePayload(rec)
	if err != nil {
		return Post{}, err
	}
	if !utf8.Valid(raw) {
		return Post{}, &DecodeError{Reason: "payload is not valid UTF-8"}
	}

	var rp rawPost
	if err := json.Unmarshal(raw, &rp); err != nil {
		// Format tolerance: no JSON structure, treat the decoded text as the
		// post body.
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return Post{}, &DecodeError{Reason: "blank payload"}
		}
		return Post{ID: rec.RecordID, Text: text, Timestamp: ""}, nil
	}

	if rp.Text == nil {
		return Post{}, &DecodeError{Reason: "post has no text field"}
	}

	id := rp.ID
	if id == "" {
		id = rp.TweetID
	}
	if id == "" {
		id = rec.RecordID
	}

	return Post{
		ID:               id,
		Text:             *rp.Text,
		AuthorHandle:     rp.User,
		IsVerified:       rp.IsVerified,
		Hashtags:         normalizeHashtags(rp.Hashtags),
		DeclaredLocation: rp.Location,
		Timestamp:        rp.Timestamp,
	}, nil
}

// DecodePayload unwraps the base64 framing around a record's payload without
// interpreting the content.
func DecodePayload(rec InboundRecord) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(string(rec.Data))
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64 payload", Err: err}
	}
	return raw, nil
}

// normalizeHashtags lowercases and deduplicates hashtags, preserving source
// order. Tags are carried with their leading '#'.
func normalizeHashtags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
