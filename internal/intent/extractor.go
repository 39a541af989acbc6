// Package intent turns a free-text question into a structured query the
// rest of the pipeline can act on. Extraction never fails: every path
// ends in a fully-populated StructuredQuery.
package intent

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"courtside/internal/llm"
	"courtside/internal/logging"
)

// Direction of the comparison against the threshold line.
const (
	DirectionAbove = "above"
	DirectionBelow = "below"
)

// Default values applied whenever a field is absent or malformed.
const (
	DefaultStat = "Points"
	DefaultLine = 20.5
)

// StructuredQuery is the normalized form of a user question. All fields
// are always populated; downstream code never checks for missing values.
type StructuredQuery struct {
	Subject   string
	Stat      string
	Line      float64
	Direction string
}

// extractionSchema constrains the structured-output call. Line is typed
// as a string so the model can echo whatever number form it saw; we
// coerce it ourselves.
const extractionSchema = `{
  "type": "object",
  "properties": {
    "player": {"type": "string"},
    "stat": {"type": "string"},
    "line": {"type": "string"},
    "direction": {"type": "string", "enum": ["over", "under"]}
  },
  "required": ["player", "stat", "line", "direction"],
  "additionalProperties": false
}`

const extractionSystemPrompt = `You extract structured sports queries from user messages.
Return ONLY JSON with keys: "player", "stat", "line", "direction".
"direction" must be "over" or "under". "line" is the numeric threshold.
If a field is not present in the message, use an empty string.`

// fallbackPattern matches "<subject> over|under <number> [stat words]".
var fallbackPattern = regexp.MustCompile(`(?i)([A-Za-z .'-]+?)\s+(over|under)\s+([0-9]+(?:\.[0-9]+)?)\s*(.*)`)

// Extractor converts free text into a StructuredQuery.
type Extractor struct {
	client llm.Client
}

// NewExtractor builds an extractor on the given client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract parses userText into a StructuredQuery. The generative path is
// preferred; if the call fails, the output does not parse, or the
// subject is trivial, the deterministic pattern fallback runs instead.
// Never returns an error.
func (e *Extractor) Extract(ctx context.Context, userText string) StructuredQuery {
	if q, ok := e.extractStructured(ctx, userText); ok {
		logging.Intent("structured extraction: subject=%q stat=%q line=%.1f dir=%s",
			q.Subject, q.Stat, q.Line, q.Direction)
		return q
	}

	q := extractWithPattern(userText)
	logging.Intent("pattern fallback: subject=%q stat=%q line=%.1f dir=%s",
		q.Subject, q.Stat, q.Line, q.Direction)
	return q
}

func (e *Extractor) extractStructured(ctx context.Context, userText string) (StructuredQuery, bool) {
	raw, err := e.client.CompleteWithSchema(ctx, extractionSystemPrompt, userText, extractionSchema)
	if err != nil {
		logging.IntentDebug("structured call failed: %v", err)
		return StructuredQuery{}, false
	}

	var parsed struct {
		Player    string          `json:"player"`
		Stat      string          `json:"stat"`
		Line      json.RawMessage `json:"line"`
		Direction string          `json:"direction"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		logging.IntentDebug("structured output did not parse: %v", err)
		return StructuredQuery{}, false
	}

	subject := strings.TrimSpace(parsed.Player)
	if len(subject) < 2 {
		// Trivial subject means the model had nothing real to extract.
		return StructuredQuery{}, false
	}

	return StructuredQuery{
		Subject:   subject,
		Stat:      normalizeStat(parsed.Stat),
		Line:      coerceLine(parsed.Line),
		Direction: normalizeDirection(parsed.Direction),
	}, true
}

func extractWithPattern(userText string) StructuredQuery {
	q := StructuredQuery{
		Subject:   "",
		Stat:      DefaultStat,
		Line:      DefaultLine,
		Direction: DirectionAbove,
	}

	m := fallbackPattern.FindStringSubmatch(userText)
	if m == nil {
		return q
	}

	q.Subject = strings.TrimSpace(m[1])
	q.Direction = normalizeDirection(m[2])
	if v, err := strconv.ParseFloat(m[3], 64); err == nil {
		q.Line = v
	}
	if stat := normalizeStat(m[4]); stat != "" {
		q.Stat = stat
	}
	return q
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// coerceLine accepts the threshold as either a JSON number or a string
// containing one. Anything else falls back to the default. A literal
// null needs its own check: unmarshalling null into a float64 is a
// no-op that would leave the line at 0.
func coerceLine(raw json.RawMessage) float64 {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return DefaultLine
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return DefaultLine
}

func normalizeDirection(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "under", "below":
		return DirectionBelow
	default:
		return DirectionAbove
	}
}

// normalizeStat maps free-text stat words to the canonical stat names
// understood by the data layer. Empty input yields empty output so
// callers can apply their own default.
func normalizeStat(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "3") || strings.Contains(t, "three"):
		return "3PM"
	case strings.Contains(t, "reb"):
		return "Rebounds"
	case strings.Contains(t, "assist") || strings.Contains(t, "ast"):
		return "Assists"
	case strings.Contains(t, "min"):
		return "Minutes"
	case strings.Contains(t, "point") || strings.Contains(t, "pts"):
		return DefaultStat
	default:
		return DefaultStat
	}
}
