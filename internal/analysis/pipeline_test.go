package analysis

import (
	"context"
	"strings"
	"testing"

	"courtside/internal/intent"
)

// End-to-end through the real extractor and generator with the
// generative service down: the pattern fallback parses the question
// and the numeric fallback produces the answer.
func TestPipelineGenerativeServiceDisabled(t *testing.T) {
	extractor := intent.NewExtractor(&failingLLM{})
	fetcher := &stubFetcher{result: curryResult()}
	generator := NewGenerator(&failingLLM{})
	evaluator := &stubEvaluator{verdict: Verdict{Acceptable: true}}

	o := NewOrchestrator(extractor, fetcher, generator, evaluator)
	got := o.Respond(context.Background(), "Steph Curry over 4.5 3 pointers", nil)

	if !strings.Contains(got, "UNDER 4.5") {
		t.Errorf("expected an UNDER 4.5 call (mean 2.4):\n%s", got)
	}
	if !strings.Contains(got, "2.4") {
		t.Errorf("expected the computed 2.4 average:\n%s", got)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d", fetcher.calls)
	}
}

func TestProfileAnalystRejectedRetriesOnce(t *testing.T) {
	c := &recordingLLM{response: "profile answer"}
	eval := &stubEvaluator{verdict: Verdict{Acceptable: false, Feedback: "quote the profile"}}
	p := NewProfileAnalyst(c, eval, "Guard, 6'2\", elite shooter.")

	got := p.Respond(context.Background(), "How tall are they?", nil)
	if got != "profile answer" {
		t.Errorf("got %q", got)
	}
	if eval.calls != 1 {
		t.Errorf("evaluate calls = %d, want 1", eval.calls)
	}
	if !strings.Contains(eval.lastContext, "elite shooter") {
		t.Errorf("judge did not receive the profile text: %q", eval.lastContext)
	}
	if !strings.Contains(c.lastSystem, "Reject feedback: quote the profile") {
		t.Errorf("retry not conditioned on feedback: %q", c.lastSystem)
	}
}
