package consultant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordSignal(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    Signal
	}{
		{"plain yes", "Yes, add it to the fleet", SignalAccept},
		{"enthusiastic accept", "sounds good, I'll take it!", SignalAccept},
		{"plain no", "No thanks", SignalReject},
		{"soft reject", "nah, not for me", SignalReject},
		{"done phrase", "that's all I need today", SignalDone},
		{"wrap up", "ok wrap it up", SignalDone},
		{"wants more", "what else do you have?", SignalMore},
		{"next option", "next", SignalMore},
		{"remove request", "please remove the Gladius", SignalRemove},
		{"question is ambiguous", "how big is the cargo hold?", SignalAmbiguous},
		{"empty message", "", SignalAmbiguous},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, keywordSignal(tc.message))
		})
	}
}

func TestMatchTriggerWholeWord(t *testing.T) {
	// single-word triggers must not fire inside larger words
	assert.False(t, matchTrigger("i know what i want", "no"))
	assert.True(t, matchTrigger("no, skip it", "no"))

	// multi-word phrases use substring matching
	assert.True(t, matchTrigger("honestly that's all for now", "that's all"))
	assert.False(t, matchTrigger("that is everything", "that's all"))
}
