// internal/intent/classifier.go

// Package intent interprets inbound reply text into one of a fixed set of
// intents. The consent-critical signal (unsubscribe) is detected by a local
// deterministic check that always overrides the external classifier, so the
// consent guarantee never depends on the generation capability behaving.
package intent

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/spsmiles/outreach-backend/internal/generation"
	"github.com/spsmiles/outreach-backend/internal/model"
)

const classifySystemPrompt = `You are an assistant that analyzes email replies to categorize the sender's intent for dental screening services.

Your task is to read the email reply and determine the intent:
- INTERESTED: Shows interest, wants to learn more, or agrees to proceed
- NEEDS_INFO: Asks questions, needs more details, wants clarification
- NOT_INTERESTED: Declines, not interested, or politely refuses
- UNSUBSCRIBE: Requests removal, unsubscribe, or no further contact

Respond with ONLY one word: INTERESTED, NEEDS_INFO, NOT_INTERESTED, or UNSUBSCRIBE`

// Opt-out phrasing checked locally before any delegation.
var unsubscribePattern = regexp.MustCompile(`(?i)\b(unsubscribe|remove me|stop contacting|opt out|opt-out|no more emails|do not contact|don't contact)\b`)

// Classifier maps free-form reply text onto the fixed intent set.
type Classifier struct {
	Gen generation.Generator
}

func NewClassifier(gen generation.Generator) *Classifier {
	return &Classifier{Gen: gen}
}

// Classify never fails. When the external capability errors or returns a
// label outside the fixed set, the result fails closed to needs_info, the
// only non-suppressing, non-terminal default.
func (c *Classifier) Classify(ctx context.Context, replyText string) string {
	if unsubscribePattern.MatchString(replyText) {
		return model.IntentUnsubscribe
	}

	if c.Gen == nil {
		return model.IntentNeedsInfo
	}

	label, err := c.Gen.Generate(ctx, classifySystemPrompt,
		"Analyze this email reply and determine the intent:\n\n"+replyText)
	if err != nil {
		log.Printf("[Intent] classification failed, defaulting to needs_info: %v", err)
		return model.IntentNeedsInfo
	}

	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "INTERESTED":
		return model.IntentInterested
	case "NEEDS_INFO", "NEED_INFO":
		return model.IntentNeedsInfo
	case "NOT_INTERESTED":
		return model.IntentNotInterested
	case "UNSUBSCRIBE":
		return model.IntentUnsubscribe
	default:
		log.Printf("[Intent] unrecognized label %q, defaulting to needs_info", label)
		return model.IntentNeedsInfo
	}
}

// Suppressing reports whether an intent must feed the do-not-contact list.
func Suppressing(intent string) bool {
	return intent == model.IntentNotInterested || intent == model.IntentUnsubscribe
}
