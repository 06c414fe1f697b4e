// Package domain holds the core types for algorithm visualizations.
package domain

import (
	"encoding/json"
	"time"
)

type AlgorithmType string

const (
	TypeSorting    AlgorithmType = "sorting"
	TypeSearching  AlgorithmType = "searching"
	TypeGraph      AlgorithmType = "graph"
	TypeTree       AlgorithmType = "tree"
	TypeLinkedList AlgorithmType = "linked-list"
	TypeStack      AlgorithmType = "stack"
	TypeQueue      AlgorithmType = "queue"
	TypeHeap       AlgorithmType = "heap"
)

// AlgorithmTypes lists every accepted algorithm category.
var AlgorithmTypes = []AlgorithmType{
	TypeSorting, TypeSearching, TypeGraph, TypeTree,
	TypeLinkedList, TypeStack, TypeQueue, TypeHeap,
}

func (t AlgorithmType) Valid() bool {
	for _, v := range AlgorithmTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedMedium Speed = "medium"
	SpeedFast   Speed = "fast"
)

func (s Speed) Valid() bool {
	return s == SpeedSlow || s == SpeedMedium || s == SpeedFast
}

// VisualizationRequest describes what the caller wants visualized. Input is
// kept as raw JSON: the original payload may be a number array, a string
// array, or a string-keyed object, and it is stored and echoed back as-is.
type VisualizationRequest struct {
	AlgorithmType AlgorithmType   `json:"algorithmType"`
	Algorithm     string          `json:"algorithm"`
	Input         json.RawMessage `json:"input"`
	Speed         Speed           `json:"speed,omitempty"`
}

// VisualizationStep is one snapshot of algorithm state. Step numbers are
// 1-based and strictly increasing within a response.
type VisualizationStep struct {
	Step        int             `json:"step"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	Highlights  []int           `json:"highlights,omitempty"`
}

type VisualizationResponse struct {
	Steps           []VisualizationStep `json:"steps"`
	TimeComplexity  string              `json:"timeComplexity"`
	SpaceComplexity string              `json:"spaceComplexity"`
	Explanation     string              `json:"explanation"`
}

// SavedVisualization is the persisted record. It is created atomically with
// its embedded response and is immutable afterwards except for deletion.
type SavedVisualization struct {
	ID          string                `json:"id"`
	UserID      string                `json:"userId"`
	Request     VisualizationRequest  `json:"request"`
	Response    VisualizationResponse `json:"response"`
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}
