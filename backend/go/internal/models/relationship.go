package models

// Confidence 表示推断出的关系的可信程度。
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // 有强烈迹象表明存在关系
	ConfidenceMedium Confidence = "medium" // 可能存在关系，但不确定
	ConfidenceLow    Confidence = "low"    // 仅是猜测，需要人工确认
)

// Relationship 表示两个集合之间的引用关系。
type Relationship struct {
	Source      string     `json:"source"`      // 源集合名称
	Target      string     `json:"target"`      // 目标集合名称
	SourceField string     `json:"sourceField"` // 源集合中引用目标的字段
	TargetField string     `json:"targetField"` // 目标集合中被引用的字段，通常为 "_id"
	Confidence  Confidence `json:"confidence"`
}

// RawSchemaField 是客户端提交的字段描述。
type RawSchemaField struct {
	Type  string `json:"type"`
	Items string `json:"items,omitempty"`
}

// RawSchema 是客户端提交的单个集合的 schema。
type RawSchema struct {
	Name   string                    `json:"name"`
	Fields map[string]RawSchemaField `json:"fields"`
}

// SchemaField 是预处理后、仅保留与关系推断相关信息的字段。
type SchemaField struct {
	Type                    string `json:"type"`
	IsArray                 bool   `json:"isArray"`
	LikelyContainsObjectIds bool   `json:"likelyContainsObjectIds"`
	IsID                    bool   `json:"isId"`
}

// PreprocessedSchema 只包含可能指示关系的字段。
type PreprocessedSchema struct {
	Name   string                 `json:"name"`
	Fields map[string]SchemaField `json:"fields"`
}

// RelationshipExample 是提示词中给出的响应格式示例。
type RelationshipExample struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	SourceField string `json:"sourceField"`
	TargetField string `json:"targetField"`
	Confidence  string `json:"confidence"`
}

// PromptStructure 是发送给大模型的提示词结构，会被序列化为 JSON。
type PromptStructure struct {
	Task           string                `json:"task"`
	Instructions   string                `json:"instructions"`
	Schemas        []PreprocessedSchema  `json:"schemas"`
	ResponseFormat []RelationshipExample `json:"response_format"`
}

// SchemasFromCollections 将类型推断结果转换为关系推断所需的原始 schema。
func SchemasFromCollections(collections []Collection) []RawSchema {
	schemas := make([]RawSchema, 0, len(collections))
	for _, c := range collections {
		fields := make(map[string]RawSchemaField, len(c.Fields))
		for name, f := range c.Fields {
			fields[name] = RawSchemaField{Type: f.Type, Items: f.Items}
		}
		schemas = append(schemas, RawSchema{Name: c.Name, Fields: fields})
	}
	return schemas
}
