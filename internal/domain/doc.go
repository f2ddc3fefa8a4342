// Package domain models social-media disaster reports and the rules that turn
// them into alerts.
//
// # Data Source
//
// Posts arrive as batched stream records mirrored from the upstream social
// ingestion system. Each record's payload is base64-encoded; the decoded text
// is either a structured post (flat JSON with text, user, hashtags,
// is_verified, location, timestamp fields) or a bare text body. Both forms go
// through the same decoder, see [DecodePost].
//
// # Corroboration
//
// A post's disaster claim is cross-checked against live weather at every
// location it mentions. The confirmation rule, evaluated on the current
// conditions at a resolved coordinate:
//
//	confirmed = rain(1h) > 5mm, OR the condition label or description
//	contains a severe-weather indicator ("thunderstorm", "heavy", "extreme",
//	"torrential", "violent", "flood", "storm", "hurricane", "typhoon",
//	"cyclone", "tornado").
//
// The 5mm/h threshold is strict: exactly 5mm does not confirm. See
// [AssessConditions].
//
// # Severity Classification
//
// Severity is a three-level urgency tier (low < medium < high) derived from a
// fixed rule table over the post text, hashtags, author verification flag and
// sentiment. Rules are evaluated in priority order and the first match wins:
//
//  1. high: emergency keywords ("trapped", "urgent", "help needed",
//     "evacuate", "buried", "rescue", "hospitals", "drowning") or the
//     #rescue/#help/#urgent hashtags.
//  2. medium: hazard keywords ("power outage", "fire", "wildfire",
//     "landslide", "flood", "earthquake", "tremor", "storm", "typhoon") or
//     the #flood/#wildfire/#earthquake/#stormalert/#typhoon hashtags.
//  3. medium: verified author with NEGATIVE or MIXED sentiment.
//  4. low: everything else.
//
// The classifier is a pure function with no failure mode, see
// [ClassifySeverity].
//
// # Failure Taxonomy
//
// [DecodeError] marks a malformed record (bad base64, invalid UTF-8,
// unusable body); it is permanent and never worth retrying. [ServiceError]
// marks a failed or timed-out external dependency call and is retryable.
// [PublishError] marks a notification-channel failure. Missing credentials
// for a dependency surface as [ErrNotConfigured] and degrade that dependency
// rather than failing the record.
package domain
