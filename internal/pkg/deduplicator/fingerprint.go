package deduper

import (
    "crypto/sha256"
    "encoding/hex"
    "strings"
)

// Folds the narrow set of full-width punctuation that shows up in feed text.
// This is deliberately not general Unicode folding.
var punctFolder = strings.NewReplacer("！", "!", "？", "?")

// Normalize collapses runs of whitespace to a single space, trims, lower-cases
// and folds full-width ！ and ？ to their ASCII forms. All other characters
// pass through unchanged.
func Normalize(text string) string {
    collapsed := strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
    return punctFolder.Replace(strings.ToLower(collapsed))
}

// Fingerprint returns the lowercase SHA-256 hex digest of the normalized text.
// A non-empty media signature is appended behind a '|' delimiter before
// hashing, so the same text with different media hashes differently.
func Fingerprint(text, mediaSignature string) string {
    composed := Normalize(text)
    if mediaSignature != "" {
        composed = composed + "|" + mediaSignature
    }
    sum := sha256.Sum256([]byte(composed))
    return hex.EncodeToString(sum[:])
}
