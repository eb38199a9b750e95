package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Tags are stored as a comma-separated string; MySQL has no native array
// column and the lists are tiny.

// JoinTags serializes a tag list for storage
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}

// SplitTags deserializes a stored tag string
func SplitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// ProblemExample is one sample input/output pair on a problem
type ProblemExample struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ProblemResponse DTO
type ProblemResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Statement   string           `json:"statement"`
	TimeLimitMs int              `json:"time_limit_ms"`
	MemoryLimit int              `json:"memory_limit_mb"`
	Author      *UserRef         `json:"author"`
	Examples    []ProblemExample `json:"examples"`
	Tags        []string         `json:"tags"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (p *Problem) ToResponse() *ProblemResponse {
	resp := &ProblemResponse{
		ID:          p.ID,
		Title:       p.Title,
		Statement:   p.Statement,
		TimeLimitMs: p.TimeLimitMs,
		MemoryLimit: p.MemoryLimit,
		Examples:    []ProblemExample{},
		Tags:        SplitTags(p.Tags),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Author != nil {
		resp.Author = p.Author.ToRef()
	}
	if p.Examples != "" {
		var examples []ProblemExample
		if err := json.Unmarshal([]byte(p.Examples), &examples); err == nil {
			resp.Examples = examples
		}
	}
	return resp
}

// EncodeExamples serializes example pairs for storage
func EncodeExamples(examples []ProblemExample) (string, error) {
	if len(examples) == 0 {
		return "", nil
	}
	b, err := json.Marshal(examples)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
