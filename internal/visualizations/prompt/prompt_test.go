package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
)

func TestBuild_ContainsRequestFields(t *testing.T) {
	req := domain.VisualizationRequest{
		AlgorithmType: domain.TypeSorting,
		Algorithm:     "bubble-sort",
		Input:         json.RawMessage(`[3,1,2]`),
	}

	p := Build(req)

	assert.NotEmpty(t, p)
	assert.Contains(t, p, "bubble-sort")
	assert.Contains(t, p, "sorting")
	assert.Contains(t, p, "[3,1,2]")
	assert.Contains(t, p, "Time complexity")
	assert.Contains(t, p, "Space complexity")
	assert.NotContains(t, p, "Animation speed")
}

func TestBuild_IncludesSpeedWhenSet(t *testing.T) {
	req := domain.VisualizationRequest{
		AlgorithmType: domain.TypeGraph,
		Algorithm:     "dfs",
		Input:         json.RawMessage(`{"a":["b","c"]}`),
		Speed:         domain.SpeedFast,
	}

	p := Build(req)

	assert.Contains(t, p, "Animation speed: fast")
	assert.Contains(t, p, `{"a":["b","c"]}`)
}

func TestBuild_Deterministic(t *testing.T) {
	req := domain.VisualizationRequest{
		AlgorithmType: domain.TypeSearching,
		Algorithm:     "binary-search",
		Input:         json.RawMessage(`[1,2,3,4]`),
		Speed:         domain.SpeedSlow,
	}

	assert.Equal(t, Build(req), Build(req))
}

func TestBuild_ZeroRequestStillNonEmpty(t *testing.T) {
	p := Build(domain.VisualizationRequest{})

	assert.NotEmpty(t, p)
	assert.Contains(t, p, "null")
	assert.True(t, strings.HasPrefix(p, "Generate a step-by-step visualization"))
}
