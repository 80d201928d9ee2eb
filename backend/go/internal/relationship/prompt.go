package relationship

import (
	"SchemaFlow/backend/go/internal/models"
	"encoding/json"
	"fmt"
	"strings"
)

var instructions = []string{
	"Analyze the provided MongoDB collection schemas and identify relationships between all collections.",
	"Focus on ObjectId fields, fields ending with 'Id', and Array fields likely containing ObjectIds.",
	"For sourceField and targetField, use the actual field names from the collections.",
	"Infer relationships based on field types and names.",
	"Include relationships between all collections in the provided schemas.",
	"Only include relationships that can be confidently inferred from the schema structures and field names.",
	"Exclude uncertain or speculative relationships.",
	"IMPORTANT: Respond ONLY with a valid JSON array of relationship objects. Do not include any explanations, comments, or additional text outside of the JSON structure.",
}

// GeneratePrompt 生成发送给大模型的提示词（一个 JSON 字符串）。
func GeneratePrompt(schemas []models.PreprocessedSchema) (string, error) {
	prompt := models.PromptStructure{
		Task:         "MongoDB Schema Relationship Analysis",
		Instructions: strings.Join(instructions, " "),
		Schemas:      schemas,
		ResponseFormat: []models.RelationshipExample{{
			Source:      "sourceCollectionName",
			Target:      "targetCollectionName",
			SourceField: "fieldNameInSourceCollection",
			TargetField: "fieldNameInTargetCollection",
			Confidence:  "high|medium|low",
		}},
	}
	data, err := json.Marshal(prompt)
	if err != nil {
		return "", fmt.Errorf("序列化提示词失败: %w", err)
	}
	return string(data), nil
}
