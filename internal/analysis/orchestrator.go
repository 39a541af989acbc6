package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"courtside/internal/intent"
	"courtside/internal/logging"
	"courtside/internal/nba"
)

// evaluatorDownFeedback conditions the regeneration when the judge
// itself is unreachable. The candidate is treated as rejected rather
// than silently accepted.
const evaluatorDownFeedback = "The review step was unavailable. Be conservative: cite only the numbers provided and state the lean plainly."

// QueryExtractor turns free text into a structured query.
type QueryExtractor interface {
	Extract(ctx context.Context, userText string) intent.StructuredQuery
}

// DataFetcher resolves a subject and retrieves its history.
type DataFetcher interface {
	Fetch(ctx context.Context, subject string) (nba.FetchResult, error)
}

// AnswerGenerator produces candidate answers. Neither method fails;
// degraded output is still a string.
type AnswerGenerator interface {
	Generate(ctx context.Context, q intent.StructuredQuery, res nba.FetchResult) string
	Regenerate(ctx context.Context, q intent.StructuredQuery, res nba.FetchResult, feedback string) string
}

// AnswerEvaluator judges a candidate answer against the same domain
// context the generator saw.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, domainContext, candidate, userText string, history []Turn) (Verdict, error)
}

// Orchestrator sequences one conversational turn: extract, fetch,
// generate, evaluate, and at most one feedback-conditioned
// regeneration. Its output is always a single user-facing string.
type Orchestrator struct {
	extractor QueryExtractor
	fetcher   DataFetcher
	generator AnswerGenerator
	evaluator AnswerEvaluator
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(e QueryExtractor, f DataFetcher, g AnswerGenerator, ev AnswerEvaluator) *Orchestrator {
	return &Orchestrator{extractor: e, fetcher: f, generator: g, evaluator: ev}
}

// Respond processes one user message against the conversation history
// and returns the reply to display.
func (o *Orchestrator) Respond(ctx context.Context, userText string, history []Turn) string {
	rlog := logging.WithRequestID(logging.CategoryAnalysis, uuid.NewString()[:8])
	timer := logging.StartTimer(logging.CategorySession, "turn")
	defer timer.Stop()

	q := o.extractor.Extract(ctx, userText)
	rlog.Info("query: subject=%q stat=%q line=%.1f dir=%s", q.Subject, q.Stat, q.Line, q.Direction)

	res, err := o.fetcher.Fetch(ctx, q.Subject)
	if err != nil {
		return fetchErrorMessage(q, err, rlog)
	}

	candidate := o.generator.Generate(ctx, q, res)

	// The judge gets the same rendered data the generator worked from.
	verdict, err := o.evaluator.Evaluate(ctx, BuildContext(q, res), candidate, userText, history)
	if err != nil {
		// Default-reject: a silent accept would void the safeguard.
		rlog.Error("evaluation failed, treating candidate as rejected: %v", err)
		verdict = Verdict{Acceptable: false, Feedback: evaluatorDownFeedback}
	}

	if verdict.Acceptable {
		rlog.Info("candidate accepted")
		return candidate
	}

	// One-shot retry. The second answer is returned as-is; no second
	// evaluation, no loop.
	rlog.Info("candidate rejected, regenerating with feedback")
	return o.generator.Regenerate(ctx, q, res, verdict.Feedback)
}

func fetchErrorMessage(q intent.StructuredQuery, err error, rlog *logging.RequestLogger) string {
	switch {
	case errors.Is(err, nba.ErrPlayerNotFound):
		subject := q.Subject
		if subject == "" {
			subject = "that player"
		}
		rlog.Info("subject not found: %q", subject)
		return fmt.Sprintf("I couldn't find a player matching %q. Check the spelling and try the full name.", subject)
	case errors.Is(err, nba.ErrUpstream):
		rlog.Error("stats retrieval exhausted retries: %v", err)
		return "The stats service isn't responding right now, most likely rate limiting. Give it a minute and ask again."
	default:
		rlog.Error("fetch failed: %v", err)
		return "Something went wrong while fetching the data. Please try again."
	}
}
