package consultant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ship-consultant-be/internal/constant"
	"ship-consultant-be/pkg/llm"
)

// Signal is the parsed user reaction to a proposed ship.
type Signal string

const (
	SignalAccept    Signal = "accept"
	SignalReject    Signal = "reject"
	SignalDone      Signal = "done"
	SignalMore      Signal = "more"
	SignalRemove    Signal = "remove"
	SignalAmbiguous Signal = "ambiguous"
)

type parsedSignal struct {
	Signal   Signal
	ShipName string
}

type signalPayload struct {
	Signal   string `json:"signal"`
	ShipName string `json:"ship_name"`
}

// parseSignal classifies the user's reply to a pending candidate, preferring
// the LLM and degrading to keyword matching when it is unavailable or
// returns garbage.
func (o *Orchestrator) parseSignal(ctx context.Context, pendingShipName, userMessage string) parsedSignal {
	prompt := fmt.Sprintf(constant.ParseSignalPrompt, pendingShipName, userMessage)

	raw, err := o.llm.Generate(ctx, prompt, llm.WithTemperature(0), llm.WithMaxTokens(128))
	if err == nil {
		var payload signalPayload
		if jsonErr := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); jsonErr == nil {
			switch Signal(payload.Signal) {
			case SignalAccept, SignalReject, SignalDone, SignalMore, SignalRemove, SignalAmbiguous:
				return parsedSignal{Signal: Signal(payload.Signal), ShipName: payload.ShipName}
			}
		}
		o.logger.Printf("[SIGNAL] Unparseable signal payload, falling back to keywords: %.80s", raw)
	} else {
		o.logger.Printf("[SIGNAL] LLM signal parse failed, falling back to keywords: %v", err)
	}

	return parsedSignal{Signal: keywordSignal(userMessage)}
}

var (
	doneWords   = []string{"that's all", "thats all", "i'm done", "im done", "that's enough", "wrap it up", "wrap up", "finish", "checkout", "that covers it"}
	acceptWords = []string{"yes", "yeah", "yep", "sure", "add it", "i'll take", "ill take", "sounds good", "perfect", "love it", "let's do it", "take it"}
	rejectWords = []string{"no", "nah", "nope", "pass", "not for me", "don't like", "dont like", "something else", "not that"}
	moreWords   = []string{"what else", "another", "keep looking", "show me more", "other options", "next"}
	removeWords = []string{"remove", "take out", "drop the", "swap out"}
)

func keywordSignal(userMessage string) Signal {
	text := strings.ToLower(userMessage)

	for _, w := range removeWords {
		if matchTrigger(text, w) {
			return SignalRemove
		}
	}
	for _, w := range doneWords {
		if matchTrigger(text, w) {
			return SignalDone
		}
	}
	for _, w := range moreWords {
		if matchTrigger(text, w) {
			return SignalMore
		}
	}
	for _, w := range rejectWords {
		if matchTrigger(text, w) {
			return SignalReject
		}
	}
	for _, w := range acceptWords {
		if matchTrigger(text, w) {
			return SignalAccept
		}
	}
	return SignalAmbiguous
}

// matchTrigger uses whole-word matching for single-word triggers so "no"
// does not fire inside "know"; multi-word phrases use substring matching.
func matchTrigger(text, trigger string) bool {
	if strings.ContainsRune(trigger, ' ') {
		return strings.Contains(text, trigger)
	}
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	}) {
		if word == trigger {
			return true
		}
	}
	return false
}
