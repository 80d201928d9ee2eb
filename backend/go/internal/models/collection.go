package models

import "go.mongodb.org/mongo-driver/bson"

// Field 描述了采样文档中单个字段推断出的类型。
type Field struct {
	Name string `json:"name"` // 字段名称
	Type string `json:"type"` // 推断出的类型标签，例如 "String"、"ObjectId"、"Object"
	Key  bool   `json:"key"`  // 是否为主键（仅顶层 _id）
	// Fields 仅在 Type 为 "Object" 时存在，包含嵌套字段的描述。
	Fields map[string]Field `json:"fields,omitempty"`
	// Items 仅在 Type 为 "Array" 时存在，为数组第一个元素的类型标签。
	Items string `json:"items,omitempty"`
}

// Collection 是一个集合经过类型推断后的结果。
type Collection struct {
	Name   string           `json:"name"`   // 集合名称
	Fields map[string]Field `json:"fields"` // 顶层字段描述
	Count  int64            `json:"count"`  // 集合中的文档数量
}

// RawCollection 是从数据库采样得到的原始数据，尚未做类型推断。
type RawCollection struct {
	Name     string // 集合名称
	Document bson.D // 采样到的第一条文档，空集合时为空
	Count    int64  // 文档数量
}

// DatabaseConnectionResult 是 /api/connect 的响应体。
type DatabaseConnectionResult struct {
	Collections  []Collection `json:"collections"`
	DatabaseName string       `json:"databaseName"`
}
