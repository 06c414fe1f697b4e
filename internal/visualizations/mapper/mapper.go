// Package mapper turns free-form model output into a structured
// visualization response.
//
// The model is not held to any output format, so extraction is heuristic:
// numbered lines become steps, bracketed arrays become data snapshots,
// index mentions become highlights, and O(...) notations near complexity
// headings become the complexity fields. Anything that cannot be extracted
// degrades to a safe fallback; Map never fails.
package mapper

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
)

const (
	defaultTimeComplexity  = "O(n)"
	defaultSpaceComplexity = "O(1)"
	fallbackExplanation    = "No explanation was generated."
)

var (
	// Matches step openers such as "Step 3:", "3.", "3)", "**Step 3**".
	stepStartRe = regexp.MustCompile(`(?i)^\s*(?:[*#]+\s*)?(?:step\s+)?(\d+)\s*[.:)\]]\s*(.*)$`)

	// Section headings that end step accumulation.
	sectionRe = regexp.MustCompile(`(?i)^\s*(?:[*#]+\s*)?(time\s+complexity|space\s+complexity|explanation)\b`)

	// A bracketed array literal, e.g. [3, 1, 2] or ["b", "a"].
	arrayRe = regexp.MustCompile(`\[[^\[\]]*\]`)

	// Index mentions, e.g. "indices 0 and 2", "position 4", "index 1, 3".
	highlightRe = regexp.MustCompile(`(?i)\b(?:index|indices|position|positions)\s+(\d+(?:\s*(?:,|and|&)\s*\d+)*)`)

	complexityTimeRe  = regexp.MustCompile(`(?i)time\s+complexity[^O]{0,40}(O\([^)]*\))`)
	complexitySpaceRe = regexp.MustCompile(`(?i)space\s+complexity[^O]{0,40}(O\([^)]*\))`)

	digitsRe = regexp.MustCompile(`\d+`)
)

// Map extracts a structured response from raw model text. The full raw text
// is always preserved verbatim as the explanation, and the result always
// carries at least one step.
func Map(raw string, req domain.VisualizationRequest) domain.VisualizationResponse {
	resp := domain.VisualizationResponse{
		TimeComplexity:  defaultTimeComplexity,
		SpaceComplexity: defaultSpaceComplexity,
		Explanation:     raw,
	}
	if strings.TrimSpace(raw) == "" {
		resp.Explanation = fallbackExplanation
	}

	if m := complexityTimeRe.FindStringSubmatch(raw); m != nil {
		resp.TimeComplexity = m[1]
	}
	if m := complexitySpaceRe.FindStringSubmatch(raw); m != nil {
		resp.SpaceComplexity = m[1]
	}

	resp.Steps = extractSteps(raw, req)
	return resp
}

// extractSteps walks the text line by line, opening a new step on every
// numbered line and folding following lines into it until the next step or
// a complexity/explanation heading.
func extractSteps(raw string, req domain.VisualizationRequest) []domain.VisualizationStep {
	fallbackData := inputData(req)

	type rawStep struct {
		number int
		text   []string
	}

	var (
		collected []rawStep
		current   *rawStep
	)
	for _, line := range strings.Split(raw, "\n") {
		if m := stepStartRe.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 {
				collected = append(collected, rawStep{number: n, text: []string{m[2]}})
				current = &collected[len(collected)-1]
				continue
			}
		}
		if sectionRe.MatchString(line) {
			current = nil
			continue
		}
		if current != nil {
			current.text = append(current.text, line)
		}
	}

	var steps []domain.VisualizationStep
	lastNumber := 0
	prevData := fallbackData
	for _, rs := range collected {
		// Step numbers must increase; a reset usually means the model
		// started a second numbered list (e.g. the five prompt bullets
		// echoed back), so stop at the first regression.
		if rs.number <= lastNumber {
			break
		}
		lastNumber = rs.number

		text := strings.TrimSpace(strings.Join(rs.text, " "))
		if text == "" {
			continue
		}

		data := extractArray(text)
		if data == nil {
			data = prevData
		}
		prevData = data

		steps = append(steps, domain.VisualizationStep{
			Step:        len(steps) + 1,
			Description: text,
			Data:        data,
			Highlights:  extractHighlights(text),
		})
	}

	if len(steps) == 0 {
		steps = []domain.VisualizationStep{{
			Step:        1,
			Description: "Initial state",
			Data:        fallbackData,
		}}
	}
	return steps
}

// extractArray returns the first bracketed substring that parses as a JSON
// array, or nil.
func extractArray(text string) json.RawMessage {
	for _, candidate := range arrayRe.FindAllString(text, 4) {
		normalized := strings.ReplaceAll(candidate, "'", `"`)
		var arr []any
		if err := json.Unmarshal([]byte(normalized), &arr); err == nil {
			compact, err := json.Marshal(arr)
			if err == nil {
				return compact
			}
		}
	}
	return nil
}

func extractHighlights(text string) []int {
	m := highlightRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	var out []int
	seen := make(map[int]bool)
	for _, d := range digitsRe.FindAllString(m[1], -1) {
		n, err := strconv.Atoi(d)
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func inputData(req domain.VisualizationRequest) json.RawMessage {
	if json.Valid(req.Input) && len(req.Input) > 0 {
		return req.Input
	}
	return json.RawMessage("null")
}
