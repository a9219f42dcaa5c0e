package consultant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ship-consultant-be/internal/constant"
	"ship-consultant-be/pkg/catalog"
	"ship-consultant-be/pkg/fleet"
	"ship-consultant-be/pkg/llm"
	"ship-consultant-be/pkg/retrieval"
	"ship-consultant-be/pkg/store"
)

// ErrSessionClosed rejects turns against a terminal session.
var ErrSessionClosed = errors.New("session is no longer active")

// Orchestrator drives the conversation phase machine. It mutates only the
// runtime session and accumulator it is handed; durable persistence is the
// caller's job, so a cancelled turn commits nothing.
type Orchestrator struct {
	llm        llm.LLMProvider
	engine     *retrieval.Engine
	logger     *log.Logger
	genTimeout time.Duration
	now        func() time.Time
}

func NewOrchestrator(provider llm.LLMProvider, engine *retrieval.Engine, genTimeout time.Duration, logger *log.Logger) *Orchestrator {
	if genTimeout <= 0 {
		genTimeout = 20 * time.Second
	}
	return &Orchestrator{
		llm:        provider,
		engine:     engine,
		logger:     logger,
		genTimeout: genTimeout,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests use this to drive timeout
// transitions without a live clock.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// TurnInput is everything one turn operates on.
type TurnInput struct {
	Session     *store.Session
	Fleet       *fleet.Accumulator
	History     []llm.Message
	UserMessage string
}

// TurnResult reports what the turn produced. Accepted/RemovedShipID are set
// when the fleet changed this turn.
type TurnResult struct {
	Reply         string
	Phase         string
	Accepted      *fleet.Selection
	RemovedShipID string
	LowConfidence bool
	Completed     bool
}

// Turn processes one user message through the phase machine. Collaborator
// failures surface as a clarifying reply, never as a terminal transition.
func (o *Orchestrator) Turn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	sess := in.Session
	switch sess.Phase {
	case store.PhaseCompleted, store.PhaseAbandoned:
		return nil, ErrSessionClosed
	}

	// Greeting always yields to Discovery on the first user turn; the
	// message itself is still mined for preferences below.
	if sess.Phase == store.PhaseGreeting {
		sess.Phase = store.PhaseDiscovery
		o.logger.Printf("[PHASE] %s: GREETING -> DISCOVERY", sess.ID)
	}

	switch sess.Phase {
	case store.PhaseDiscovery:
		return o.discoveryTurn(ctx, in)
	case store.PhaseRecommending:
		return o.recommendingTurn(ctx, in)
	case store.PhaseWrappingUp:
		return o.wrappingUpTurn(ctx, in)
	default:
		return nil, fmt.Errorf("unknown phase %q", sess.Phase)
	}
}

func (o *Orchestrator) discoveryTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	sess := in.Session
	extracted := o.extractPreferences(ctx, sess, in.History, in.UserMessage)

	if sess.Preferences.Actionable() || extracted.WantsRecommendations {
		sess.Phase = store.PhaseRecommending
		o.logger.Printf("[PHASE] %s: DISCOVERY -> RECOMMENDING", sess.ID)
		return o.presentNextCandidate(ctx, in)
	}

	reply := o.generateReply(ctx, in.History, in.UserMessage, constant.DiscoveryPrompt, "")
	return &TurnResult{Reply: reply, Phase: sess.Phase}, nil
}

func (o *Orchestrator) recommendingTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	sess := in.Session

	if sess.Pending == nil {
		// Entry turn, or the previous turn ended without a proposal:
		// refresh preferences and put a candidate on the table.
		o.extractPreferences(ctx, sess, in.History, in.UserMessage)
		if sess.Preferences.DoneSignal {
			return o.startWrapUp(ctx, in)
		}
		return o.presentNextCandidate(ctx, in)
	}

	sig := o.parseSignal(ctx, sess.Pending.ShipName, in.UserMessage)
	o.logger.Printf("[SIGNAL] %s: %s on pending %s", sess.ID, sig.Signal, sess.Pending.ShipName)

	switch sig.Signal {
	case SignalAccept:
		return o.acceptPending(ctx, in)

	case SignalReject:
		// Exclusion persists for the whole session lifetime.
		sess.Exclude(sess.Pending.ShipID)
		sess.Pending = nil
		return o.presentNextCandidate(ctx, in)

	case SignalDone:
		return o.startWrapUp(ctx, in)

	case SignalMore:
		sess.Pending = nil
		o.extractPreferences(ctx, sess, in.History, in.UserMessage)
		return o.presentNextCandidate(ctx, in)

	case SignalRemove:
		return o.removeFromFleet(ctx, in, sig.ShipName)

	default: // ambiguous: clarify, keep the pending candidate on the table
		reply := o.generateReply(ctx, in.History, in.UserMessage, constant.DiscoveryPrompt, "")
		if reply == constant.ClarifyFallbackMessage {
			reply = fmt.Sprintf("Just to check - did you want the %s in your fleet, or should we look at something else?", sess.Pending.ShipName)
		}
		return &TurnResult{Reply: reply, Phase: sess.Phase}, nil
	}
}

func (o *Orchestrator) acceptPending(ctx context.Context, in TurnInput) (*TurnResult, error) {
	sess := in.Session
	pending := sess.Pending

	ordinal, err := in.Fleet.Propose(pending.ShipID, pending.ShipName, pending.Rationale)
	if err != nil {
		// Business-rule rejections become conversational replies, never
		// faults.
		switch {
		case errors.Is(err, fleet.ErrDuplicateSelection):
			sess.Pending = nil
			return &TurnResult{
				Reply: fmt.Sprintf("The %s is already in your fleet! Want to look at something different?", pending.ShipName),
				Phase: sess.Phase,
			}, nil
		case errors.Is(err, fleet.ErrCapacityExceeded):
			return &TurnResult{
				Reply: fmt.Sprintf("Your fleet is already at %d ships, which is the most I can put in one guide. Say the word if you want to swap one out for the %s.", fleet.MaxSelections, pending.ShipName),
				Phase: sess.Phase,
			}, nil
		default:
			return nil, err
		}
	}

	accepted := fleet.Selection{
		ShipID:    pending.ShipID,
		ShipName:  pending.ShipName,
		Rationale: pending.Rationale,
		Ordinal:   ordinal,
	}
	sess.Pending = nil

	if in.Fleet.Full() || sess.Preferences.DoneSignal {
		res, err := o.startWrapUp(ctx, in)
		if err != nil {
			return nil, err
		}
		res.Accepted = &accepted
		return res, nil
	}

	next, err := o.presentNextCandidate(ctx, in)
	if err != nil {
		return nil, err
	}
	next.Accepted = &accepted
	next.Reply = fmt.Sprintf("The %s is in your fleet (#%d). %s", accepted.ShipName, ordinal, next.Reply)
	return next, nil
}

func (o *Orchestrator) removeFromFleet(ctx context.Context, in TurnInput, shipName string) (*TurnResult, error) {
	sess := in.Session

	var removed string
	for _, sel := range in.Fleet.Snapshot() {
		if shipName != "" && strings.EqualFold(sel.ShipName, shipName) {
			removed = sel.ShipID
			in.Fleet.Remove(sel.ShipID)
			break
		}
	}
	if removed == "" {
		reply := "Which ship should I take out of the fleet?"
		return &TurnResult{Reply: reply, Phase: sess.Phase}, nil
	}

	return &TurnResult{
		Reply:         fmt.Sprintf("Done - the %s is out of your fleet. Want me to line up a replacement?", shipName),
		Phase:         sess.Phase,
		RemovedShipID: removed,
	}, nil
}

// presentNextCandidate retrieves against current preferences and proposes
// exactly one top candidate. Degrades gracefully on retrieval failure and
// low-confidence results.
func (o *Orchestrator) presentNextCandidate(ctx context.Context, in TurnInput) (*TurnResult, error) {
	sess := in.Session

	fleetIDs := make([]string, 0, in.Fleet.Size())
	for _, sel := range in.Fleet.Snapshot() {
		fleetIDs = append(fleetIDs, sel.ShipID)
	}

	query := buildSearchQuery(sess.Preferences)
	sess.LastQuery = query

	result, err := o.engine.Retrieve(ctx, query, buildConstraints(sess, fleetIDs), 5)
	if err != nil {
		if errors.Is(err, retrieval.ErrUnavailable) {
			o.logger.Printf("[RETRIEVAL] %s: unavailable, trying filter-only fallback: %v", sess.ID, err)
			if fallback := o.engine.Fallback(buildConstraints(sess, fleetIDs), 1); len(fallback) > 0 {
				top := fallback[0]
				sess.Pending = &store.PendingCandidate{
					ShipID:    top.Item.ID,
					ShipName:  top.Item.Name,
					Rationale: "A popular pick that fits what you've told me so far.",
				}
				reply := fmt.Sprintf("Semantic search is acting up on my end, but going by what you've told me, the %s is a popular fit. Want me to add it to your fleet?", top.Item.Name)
				return &TurnResult{Reply: reply, Phase: sess.Phase, LowConfidence: true}, nil
			}
			return &TurnResult{Reply: constant.RetrievalDownMessage, Phase: sess.Phase}, nil
		}
		return nil, err
	}

	if result.LowConfidence || len(result.Candidates) == 0 {
		return &TurnResult{Reply: constant.LowConfidenceMessage, Phase: sess.Phase, LowConfidence: true}, nil
	}

	top := result.Candidates[0]
	rationale := buildRationale(top, sess.Preferences)
	sess.Pending = &store.PendingCandidate{
		ShipID:    top.Item.ID,
		ShipName:  top.Item.Name,
		Score:     top.Score,
		Rationale: rationale,
	}

	shipContext := formatCandidatesForContext(result.Candidates, 2)
	reply := o.generateReply(ctx, in.History, in.UserMessage, constant.PresentCandidatePrompt, shipContext)
	if reply == constant.ClarifyFallbackMessage {
		// Generation collaborator is down; present from the template so the
		// turn still moves forward.
		reply = fmt.Sprintf("How about the %s? %s Want me to add it to your fleet?", top.Item.Name, rationale)
	}
	return &TurnResult{Reply: reply, Phase: sess.Phase}, nil
}

func (o *Orchestrator) startWrapUp(ctx context.Context, in TurnInput) (*TurnResult, error) {
	sess := in.Session
	sess.Phase = store.PhaseWrappingUp
	sess.Pending = nil
	o.logger.Printf("[PHASE] %s: -> WRAPPING_UP", sess.ID)

	recapContext := formatFleetForRecap(in.Fleet.Snapshot())
	reply := o.generateReply(ctx, in.History, in.UserMessage, constant.RecapPrompt, recapContext)
	if reply == constant.ClarifyFallbackMessage {
		reply = "Here's your fleet so far:\n" + recapContext + "\nSay the word when you're ready to finish up and I'll send your fleet guide."
	}
	return &TurnResult{Reply: reply, Phase: sess.Phase}, nil
}

func (o *Orchestrator) wrappingUpTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	sess := in.Session
	sig := o.parseSignal(ctx, "", in.UserMessage)

	switch sig.Signal {
	case SignalDone, SignalAccept:
		sess.Phase = store.PhaseCompleted
		o.logger.Printf("[PHASE] %s: WRAPPING_UP -> COMPLETED", sess.ID)
		return &TurnResult{
			Reply:     "You're all set - your fleet guide is on its way. Have fun out there, see you in the verse!",
			Phase:     sess.Phase,
			Completed: true,
		}, nil

	case SignalMore, SignalReject:
		sess.Phase = store.PhaseRecommending
		o.logger.Printf("[PHASE] %s: WRAPPING_UP -> RECOMMENDING", sess.ID)
		o.extractPreferences(ctx, sess, in.History, in.UserMessage)
		return o.presentNextCandidate(ctx, in)

	default:
		reply := o.generateReply(ctx, in.History, in.UserMessage, constant.RecapPrompt, formatFleetForRecap(in.Fleet.Snapshot()))
		return &TurnResult{Reply: reply, Phase: sess.Phase}, nil
	}
}

// generateReply calls the language-generation collaborator with a bounded
// timeout; on failure it returns the canned clarifying message so callers
// can substitute something phase-appropriate.
func (o *Orchestrator) generateReply(ctx context.Context, history []llm.Message, userMessage, phasePrompt, shipContext string) string {
	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	content := userMessage
	if shipContext != "" {
		content = fmt.Sprintf("%s\n\n[AVAILABLE SHIPS]\n%s", userMessage, shipContext)
	}
	messages := append(append([]llm.Message{}, history...), llm.Message{Role: "user", Content: content})

	reply, err := o.llm.Chat(genCtx, messages,
		llm.WithSystem(constant.ConsultantSystemPrompt+"\n\n"+phasePrompt),
		llm.WithMaxTokens(2048),
	)
	if err != nil || strings.TrimSpace(reply) == "" {
		o.logger.Printf("[GENERATE] LLM reply failed: %v", err)
		return constant.ClarifyFallbackMessage
	}
	return reply
}

func buildRationale(c catalog.Candidate, prefs store.Preferences) string {
	focus := c.Item.Focus
	if focus == "" {
		focus = "versatile gameplay"
	}
	if len(prefs.Playstyles) > 0 {
		return fmt.Sprintf("Matches your interest in %s with its %s focus.", strings.Join(prefs.Playstyles, ", "), strings.ToLower(focus))
	}
	return fmt.Sprintf("A solid pick for %s.", strings.ToLower(focus))
}

func formatCandidatesForContext(candidates []catalog.Candidate, max int) string {
	if len(candidates) == 0 {
		return "No ships found matching criteria."
	}
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	var b strings.Builder
	for i, c := range candidates {
		item := c.Item
		fmt.Fprintf(&b, "%d. **%s** (%s)\n", i+1, item.Name, item.Manufacturer)
		fmt.Fprintf(&b, "Role: %s | Cargo: %d SCU | Crew: %d-%d\n", item.Focus, item.CargoCapacity, item.CrewMin, item.CrewMax)
		if item.PriceUSD > 0 {
			fmt.Fprintf(&b, "Price: $%.0f USD\n", item.PriceUSD)
		}
		if item.Description != "" {
			desc := item.Description
			if len(desc) > 200 {
				desc = desc[:200] + "..."
			}
			fmt.Fprintf(&b, "Description: %s\n", desc)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatFleetForRecap(selections []fleet.Selection) string {
	if len(selections) == 0 {
		return "The fleet is empty so far."
	}
	var b strings.Builder
	for _, sel := range selections {
		fmt.Fprintf(&b, "%d. %s - %s\n", sel.Ordinal, sel.ShipName, sel.Rationale)
	}
	return b.String()
}
