package consultant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ship-consultant-be/internal/constant"
	"ship-consultant-be/pkg/llm"
	"ship-consultant-be/pkg/store"
)

// extractedPreferences is the JSON schema the LLM fills in.
type extractedPreferences struct {
	Playstyles           []string `json:"playstyles"`
	BudgetMaxUSD         float64  `json:"budget_max_usd"`
	BudgetMinUSD         float64  `json:"budget_min_usd"`
	CrewMax              int      `json:"crew_max"`
	CargoMinSCU          int      `json:"cargo_min_scu"`
	Manufacturer         string   `json:"manufacturer"`
	WantsRecommendations bool     `json:"wants_recommendations"`
	Done                 bool     `json:"done"`
}

// extractorResult carries turn-scoped intent flags alongside the merged
// preferences.
type extractorResult struct {
	WantsRecommendations bool
	Done                 bool
}

// extractPreferences asks the LLM for structured preferences and merges them
// into the session. On any collaborator or parse failure it falls back to
// keyword extraction so Discovery keeps moving.
func (o *Orchestrator) extractPreferences(ctx context.Context, sess *store.Session, history []llm.Message, userMessage string) extractorResult {
	prompt := fmt.Sprintf(constant.ExtractPreferencesPrompt, renderHistory(history), userMessage)

	raw, err := o.llm.Generate(ctx, prompt, llm.WithTemperature(0.1), llm.WithMaxTokens(512))
	if err == nil {
		var parsed extractedPreferences
		if jsonErr := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); jsonErr == nil {
			mergePreferences(&sess.Preferences, parsed)
			return extractorResult{
				WantsRecommendations: parsed.WantsRecommendations,
				Done:                 parsed.Done,
			}
		}
		o.logger.Printf("[EXTRACT] Unparseable extraction payload, falling back to keywords: %.80s", raw)
	} else {
		o.logger.Printf("[EXTRACT] LLM extraction failed, falling back to keywords: %v", err)
	}

	return keywordExtract(sess, userMessage)
}

func mergePreferences(prefs *store.Preferences, parsed extractedPreferences) {
	for _, style := range parsed.Playstyles {
		addPlaystyle(prefs, strings.ToLower(strings.TrimSpace(style)))
	}
	if parsed.BudgetMaxUSD > 0 {
		prefs.BudgetMaxUSD = parsed.BudgetMaxUSD
	}
	if parsed.BudgetMinUSD > 0 {
		prefs.BudgetMinUSD = parsed.BudgetMinUSD
	}
	if parsed.CrewMax > 0 {
		prefs.CrewMax = parsed.CrewMax
	}
	if parsed.CargoMinSCU > 0 {
		prefs.CargoMinSCU = parsed.CargoMinSCU
	}
	if parsed.Manufacturer != "" {
		prefs.Manufacturer = parsed.Manufacturer
	}
	if parsed.Done {
		prefs.DoneSignal = true
	}
}

func addPlaystyle(prefs *store.Preferences, style string) {
	if style == "" {
		return
	}
	for _, existing := range prefs.Playstyles {
		if existing == style {
			return
		}
	}
	prefs.Playstyles = append(prefs.Playstyles, style)
}

// interestKeywords maps playstyle tags to trigger words, ported from the
// keyword heuristics the consultant used before structured extraction.
var interestKeywords = map[string][]string{
	"combat":      {"combat", "fight", "battle", "bounty", "pvp", "dogfight"},
	"trading":     {"trade", "trading", "cargo", "haul", "freight"},
	"exploration": {"explore", "exploration", "discover", "scan"},
	"mining":      {"mine", "mining", "ore", "resource"},
	"multi_role":  {"versatile", "multi", "all-around", "everything"},
	"starter":     {"starter", "beginner", "first ship", "new to"},
	"luxury":      {"luxury", "fancy", "premium"},
	"stealth":     {"stealth", "infiltration", "covert"},
}

var budgetPattern = regexp.MustCompile(`(?:under|less than|below|max|up to|budget of|around)\s*\$?\s*(\d+)`)

func keywordExtract(sess *store.Session, userMessage string) extractorResult {
	text := strings.ToLower(userMessage)
	prefs := &sess.Preferences

	for style, words := range interestKeywords {
		for _, w := range words {
			if strings.Contains(text, w) {
				addPlaystyle(prefs, style)
				break
			}
		}
	}

	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			prefs.BudgetMaxUSD = v
		}
	}

	if strings.Contains(text, "solo") || strings.Contains(text, "alone") || strings.Contains(text, "single player") {
		prefs.CrewMax = 1
	}
	if strings.Contains(text, "cargo") || strings.Contains(text, "haul") {
		if prefs.CargoMinSCU == 0 {
			prefs.CargoMinSCU = 20
		}
	}

	var result extractorResult
	if strings.Contains(text, "recommend") || strings.Contains(text, "show me") || strings.Contains(text, "suggest") {
		result.WantsRecommendations = true
	}
	return result
}

func renderHistory(history []llm.Message) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(msg.Role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// stripCodeFences tolerates models that wrap JSON in markdown fences despite
// instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
