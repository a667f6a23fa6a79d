package matcher

import (
    "sort"
    "strings"
    "unicode/utf8"

    "go.uber.org/zap"

    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/metrics"
    "postguard/internal/pkg/models"
    "postguard/internal/pkg/qa"
)

// NoAnswerText is the fixed reply for questions nothing in the store matches.
const NoAnswerText = "申し訳ありませんが、この質問に対する回答はまだ用意されていません。"

// matchErrorText is the fixed reply when the lookup itself fails.
const matchErrorText = "回答の検索中にエラーが発生しました。"

// Strips the punctuation ignored by the punctuation-insensitive stage.
var punctStripper = strings.NewReplacer(
    "、", "", "。", "", "？", "", "！", "",
    ".", "", ",", "", "?", "", "!", "",
)

// Grammatical particles replaced with spaces before word-overlap
// tokenization. Multi-rune entries come first so they are not shredded by
// their single-rune components.
var particles = []string{
    "について", "とは", "から", "まで", "より",
    "の", "は", "が", "を", "に", "で", "と", "へ", "や", "も", "か",
}

// Two terms that together mark a short-term dispatch work inquiry. A question
// and key that both carry both terms match immediately during the overlap scan.
const (
    professionTerm = "メンエス"
    dispatchTerm   = "出稼ぎ"
)

// FindAnswer resolves a question against the QA snapshot through a cascade of
// increasingly loose matching stages; the first stage that matches wins. It
// always returns a usable Answer: the fixed no-answer reply when nothing
// matches, and the fixed error reply if the lookup panics.
func FindAnswer(store qa.Store, question string) (answer models.Answer) {
    defer func() {
        if r := recover(); r != nil {
            logger.Log.Error("Answer lookup panicked",
                zap.Any("panic", r), zap.String("question", question))
            metrics.MatchStageHits.WithLabelValues("error").Inc()
            answer = models.Answer{Text: matchErrorText}
        }
    }()

    // Exact match.
    if answer, ok := store[question]; ok {
        metrics.MatchStageHits.WithLabelValues("exact").Inc()
        return answer
    }

    // Map iteration order is randomized, so all scanning stages walk keys in
    // sorted order to keep "first encountered" deterministic.
    keys := make([]string, 0, len(store))
    for key := range store {
        keys = append(keys, key)
    }
    sort.Strings(keys)

    // Case-insensitive match.
    lowered := strings.ToLower(question)
    for _, key := range keys {
        if strings.ToLower(key) == lowered {
            metrics.MatchStageHits.WithLabelValues("case_insensitive").Inc()
            return store[key]
        }
    }

    // Punctuation-insensitive match.
    stripped := punctStripper.Replace(question)
    for _, key := range keys {
        if punctStripper.Replace(key) == stripped {
            metrics.MatchStageHits.WithLabelValues("punctuation").Inc()
            return store[key]
        }
    }

    // Substring containment, longest matched span wins. The span metric is
    // the question length when the question sits inside a key and the key
    // length when a key sits inside the question. The asymmetry is inherited
    // behavior, kept pending product review (see DESIGN.md).
    if key, ok := bestSubstringMatch(keys, question); ok {
        metrics.MatchStageHits.WithLabelValues("substring").Inc()
        return store[key]
    }

    // Word overlap with the dispatch-inquiry short-circuit.
    if key, ok := bestOverlapMatch(keys, question); ok {
        metrics.MatchStageHits.WithLabelValues("word_overlap").Inc()
        return store[key]
    }

    metrics.MatchStageHits.WithLabelValues("fallback").Inc()
    return models.Answer{Text: NoAnswerText}
}

func bestSubstringMatch(keys []string, question string) (string, bool) {
    if question == "" {
        return "", false
    }

    questionLen := utf8.RuneCountInString(question)
    bestLen := 0
    bestKey := ""

    for _, key := range keys {
        if key == "" {
            continue
        }
        if strings.Contains(key, question) && questionLen > bestLen {
            bestLen = questionLen
            bestKey = key
        }
        if strings.Contains(question, key) {
            if keyLen := utf8.RuneCountInString(key); keyLen > bestLen {
                bestLen = keyLen
                bestKey = key
            }
        }
    }
    return bestKey, bestKey != ""
}

func bestOverlapMatch(keys []string, question string) (string, bool) {
    questionWords := tokenize(question)
    questionIsDispatch := isDispatchInquiry(question)

    bestCount := 0
    bestRatio := 0.0
    bestKey := ""

    for _, key := range keys {
        if questionIsDispatch && isDispatchInquiry(key) {
            return key, true
        }
        if len(questionWords) == 0 {
            continue
        }

        keyWords := tokenize(key)
        common := 0
        for word := range questionWords {
            if _, ok := keyWords[word]; ok {
                common++
            }
        }

        ratio := float64(common) / float64(len(questionWords))
        if common > bestCount || (common == bestCount && ratio > bestRatio) {
            bestCount = common
            bestRatio = ratio
            bestKey = key
        }
    }

    if bestCount >= 1 {
        return bestKey, true
    }
    return "", false
}

func isDispatchInquiry(text string) bool {
    return strings.Contains(text, professionTerm) && strings.Contains(text, dispatchTerm)
}

// Replaces particles with spaces and splits on whitespace into a word set.
// Empty tokens disappear via strings.Fields.
func tokenize(text string) map[string]struct{} {
    for _, particle := range particles {
        text = strings.ReplaceAll(text, particle, " ")
    }

    words := make(map[string]struct{})
    for _, word := range strings.Fields(text) {
        words[word] = struct{}{}
    }
    return words
}
