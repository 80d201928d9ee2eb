package relationship

import (
	"SchemaFlow/backend/go/internal/models"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModelResponse 表示模型的回复不是一个 JSON 数组。
var ErrInvalidModelResponse = errors.New("invalid response from language model")

// rawRelationship 宽松地接收模型输出，confidence 可能是字符串也可能是数字。
type rawRelationship struct {
	Source      string          `json:"source"`
	Target      string          `json:"target"`
	SourceField string          `json:"sourceField"`
	TargetField string          `json:"targetField"`
	Confidence  json.RawMessage `json:"confidence"`
}

// ParseRelationships 解析模型回复。回复可以被 markdown 代码块包裹，
// 但内容必须是 JSON 数组；空回复视为没有关系。
func ParseRelationships(content string) ([]models.Relationship, error) {
	body := stripCodeFence(content)
	if body == "" {
		body = "[]"
	}

	var raw []rawRelationship
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelResponse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: reply is not an array", ErrInvalidModelResponse)
	}

	rels := make([]models.Relationship, 0, len(raw))
	for _, r := range raw {
		if r.Source == "" || r.Target == "" {
			continue
		}
		targetField := r.TargetField
		if targetField == "" {
			targetField = "_id"
		}
		rels = append(rels, models.Relationship{
			Source:      r.Source,
			Target:      r.Target,
			SourceField: r.SourceField,
			TargetField: targetField,
			Confidence:  normalizeConfidence(r.Confidence),
		})
	}
	return rels, nil
}

func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// 去掉语言标记，例如 ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func normalizeConfidence(raw json.RawMessage) models.Confidence {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch models.Confidence(strings.ToLower(strings.TrimSpace(s))) {
		case models.ConfidenceHigh:
			return models.ConfidenceHigh
		case models.ConfidenceMedium:
			return models.ConfidenceMedium
		}
		return models.ConfidenceLow
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		switch {
		case f >= 0.75:
			return models.ConfidenceHigh
		case f >= 0.4:
			return models.ConfidenceMedium
		}
	}
	return models.ConfidenceLow
}
