package domain

import "errors"

var (
	ErrNotFound         = errors.New("visualization not found")
	ErrUpstream         = errors.New("model service failure")
	ErrUpstreamTimeout  = errors.New("model service timed out")
	ErrGenerationFailed = errors.New("failed to generate visualization")
)
