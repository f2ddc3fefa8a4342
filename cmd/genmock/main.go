// Command genmock generates mock stream fixtures for the alerting pipeline:
// one JSON envelope per line, in the shape the source topic carries. The
// fixture mixes severities, unverified chatter, bare-text payloads, and a few
// malformed records so replay runs exercise the per-record failure handling.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/posts.jsonl -count 50
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

var baseTime = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

type post struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	User       string   `json:"user"`
	Location   string   `json:"location"`
	Hashtags   []string `json:"hashtags"`
	IsVerified bool     `json:"is_verified"`
	Timestamp  string   `json:"timestamp"`
}

type envelope struct {
	EventID string        `json:"eventID"`
	Kinesis kinesisRecord `json:"kinesis"`
}

type kinesisRecord struct {
	Data           string `json:"data"`
	SequenceNumber string `json:"sequenceNumber"`
	PartitionKey   string `json:"partitionKey"`
}

type scenario struct {
	text     string
	location string
	hashtags []string
	verified bool
}

var scenarios = []scenario{
	{
		text:     "Water is rising fast, family trapped on the roof in Marikina. Urgent, please send rescue!",
		location: "Marikina City",
		hashtags: []string{"#rescue", "#FloodPH"},
		verified: false,
	},
	{
		text:     "Flood waters reaching the second floor near Tumana Bridge, Marikina. Evacuate now.",
		location: "Marikina City",
		hashtags: []string{"#flood", "#urgent"},
		verified: true,
	},
	{
		text:     "Strong tremor felt across Cebu a few minutes ago, buildings evacuated downtown.",
		location: "Cebu City",
		hashtags: []string{"#earthquake"},
		verified: true,
	},
	{
		text:     "Power outage in our barangay since the storm passed, no word from the utility yet.",
		location: "Quezon City",
		hashtags: []string{"#stormalert"},
		verified: false,
	},
	{
		text:     "Beautiful sunset over Manila Bay tonight!",
		location: "Manila",
		hashtags: []string{"#sunset"},
		verified: false,
	},
	{
		text:     "Roads are passable again in Davao, cleanup crews doing great work.",
		location: "Davao City",
		hashtags: []string{},
		verified: true,
	},
	{
		text:     "Wildfire smoke visible from the highway near the ridge, hoping it stays away from the houses.",
		location: "Baguio",
		hashtags: []string{"#wildfire"},
		verified: false,
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the JSONL fixture")
	count := flag.Int("count", 50, "number of records to generate")
	seed := flag.Int64("seed", 1, "rng seed, fixed by default for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := 0; i < *count; i++ {
		env, err := makeEnvelope(rng, i)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	log.Printf("wrote %d records: %s", *count, *out)
	return nil
}

func makeEnvelope(rng *rand.Rand, i int) (envelope, error) {
	payload, key, err := makePayload(rng, i)
	if err != nil {
		return envelope{}, err
	}
	return envelope{
		EventID: fmt.Sprintf("shardId-000000000000:%08d", i),
		Kinesis: kinesisRecord{
			Data:           payload,
			SequenceNumber: fmt.Sprintf("4959033827149025660855969253836157109592157598913658%04d", i),
			PartitionKey:   key,
		},
	}, nil
}

func makePayload(rng *rand.Rand, i int) (data, partitionKey string, err error) {
	// Roughly one in twelve records is deliberately bad: garbage bytes or a
	// JSON object with no text. These must be skipped, not retried.
	switch rng.Intn(12) {
	case 0:
		return base64.StdEncoding.EncodeToString([]byte(`{"id":"bad","user":"someone"}`)), "bad", nil
	case 1:
		return "%%%not-base64%%%", "garbage", nil
	case 2:
		// Bare text without JSON framing still alerts.
		return base64.StdEncoding.EncodeToString([]byte("Landslide blocking the road out of the valley, need help")), "bare", nil
	}

	s := scenarios[rng.Intn(len(scenarios))]
	p := post{
		ID:         fmt.Sprintf("post-%04d", i),
		Text:       s.text,
		User:       fmt.Sprintf("user_%03d", rng.Intn(500)),
		Location:   s.location,
		Hashtags:   s.hashtags,
		IsVerified: s.verified,
		Timestamp:  baseTime.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", "", err
	}
	return base64.StdEncoding.EncodeToString(raw), p.ID, nil
}
