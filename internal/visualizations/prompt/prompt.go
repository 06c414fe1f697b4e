// Package prompt builds the text sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
)

// SystemPrompt frames every model call.
const SystemPrompt = "You are an expert in data structures and algorithms. " +
	"Generate a step-by-step visualization of the requested algorithm."

// Build renders a deterministic prompt for the given request. It is a pure
// function: any request value, including a zero one, yields a non-empty
// prompt.
func Build(req domain.VisualizationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a step-by-step visualization for %s (%s) with the following input: %s.\n",
		req.Algorithm, req.AlgorithmType, serializeInput(req.Input))

	b.WriteString("Please include:\n")
	b.WriteString("1. Each step of the algorithm\n")
	b.WriteString("2. The state of the data at each step\n")
	b.WriteString("3. Time complexity\n")
	b.WriteString("4. Space complexity\n")
	b.WriteString("5. A clear explanation of how the algorithm works\n")

	if req.Speed != "" {
		fmt.Fprintf(&b, "Animation speed: %s\n", req.Speed)
	}

	return b.String()
}

func serializeInput(input []byte) string {
	s := strings.TrimSpace(string(input))
	if s == "" {
		return "null"
	}
	return s
}
