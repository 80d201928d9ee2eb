package store

import (
	"SchemaFlow/backend/go/internal/database/neo4j"
	"SchemaFlow/backend/go/internal/models"
	"context"
	"encoding/json"
	"fmt"

	neo4jdriver "github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphStore 把分析得到的关系图持久化到图数据库。
type GraphStore interface {
	SaveDiagram(ctx context.Context, diagram *models.Diagram) error
	// HealthCheck 检查图数据库是否可达。
	HealthCheck(ctx context.Context) error
}

const (
	mergeCollections = `
	UNWIND $collections AS c
	MERGE (n:Collection {database: $database, name: c.name})
	SET n.count = c.count, n.fields = c.fields`

	mergeReferences = `
	UNWIND $relationships AS r
	MATCH (s:Collection {database: $database, name: r.source})
	MATCH (t:Collection {database: $database, name: r.target})
	MERGE (s)-[ref:REFERENCES {sourceField: r.sourceField, targetField: r.targetField}]->(t)
	SET ref.confidence = r.confidence`
)

// Neo4jStore 是 GraphStore 基于 Neo4j 的实现。
type Neo4jStore struct {
	client *neo4j.Neo4jClient
}

// NewNeo4jStore creates a new Neo4jStore.
func NewNeo4jStore(client *neo4j.Neo4jClient) *Neo4jStore {
	return &Neo4jStore{client: client}
}

func (s *Neo4jStore) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}

// SaveDiagram 在同一个写事务中 MERGE 所有集合节点和引用关系。
func (s *Neo4jStore) SaveDiagram(ctx context.Context, diagram *models.Diagram) error {
	params, err := diagramParams(diagram)
	if err != nil {
		return err
	}

	_, err = s.client.ExecuteWrite(ctx, func(tx neo4jdriver.ManagedTransaction) (interface{}, error) {
		if _, err := tx.Run(ctx, mergeCollections, params); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, mergeReferences, params); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to export diagram to neo4j: %w", err)
	}
	return nil
}

// diagramParams 构造查询参数；字段映射以 JSON 字符串保存，Neo4j 属性不支持嵌套 map。
func diagramParams(diagram *models.Diagram) (map[string]interface{}, error) {
	collections := make([]map[string]interface{}, 0, len(diagram.Collections))
	for _, c := range diagram.Collections {
		fields, err := json.Marshal(c.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode fields of %s: %w", c.Name, err)
		}
		collections = append(collections, map[string]interface{}{
			"name":   c.Name,
			"count":  c.Count,
			"fields": string(fields),
		})
	}

	relationships := make([]map[string]interface{}, 0, len(diagram.Relationships))
	for _, r := range diagram.Relationships {
		relationships = append(relationships, map[string]interface{}{
			"source":      r.Source,
			"target":      r.Target,
			"sourceField": r.SourceField,
			"targetField": r.TargetField,
			"confidence":  string(r.Confidence),
		})
	}

	return map[string]interface{}{
		"database":      diagram.DatabaseName,
		"collections":   collections,
		"relationships": relationships,
	}, nil
}
