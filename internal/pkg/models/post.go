package models

import "time"

// PostRecord is one registered publication, keyed by its content fingerprint.
// The fingerprint is a SHA-256 hex digest of the normalized post text plus the
// optional media signature; the store enforces its uniqueness.
type PostRecord struct {
	Fingerprint    string    `json:"fingerprint"`
	Text           string    `json:"text"`
	MediaSignature string    `json:"media_signature,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuestionPost is one queued question waiting to be answered and published.
type QuestionPost struct {
	Question   string    `json:"question"`
	Source     string    `json:"source,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitempty"`
}

// OutboundPost is the payload handed to the publisher once a question has an
// answer and the dedup gate has been passed.
type OutboundPost struct {
	Question    string `json:"question"`
	Text        string `json:"text"`
	MediaURL    string `json:"media_url,omitempty"`
	Fingerprint string `json:"fingerprint"`
}
