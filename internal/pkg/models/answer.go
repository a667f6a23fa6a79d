package models

// Answer is the reply payload a question resolves to. MediaURL is empty for
// text-only answers.
type Answer struct {
	Text     string `json:"text" yaml:"text"`
	MediaURL string `json:"media_url" yaml:"media_url"`
}
