package layout

import (
	"SchemaFlow/backend/go/internal/config"
	"SchemaFlow/backend/go/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collections(names ...string) []models.Collection {
	out := make([]models.Collection, 0, len(names))
	for _, n := range names {
		out = append(out, models.Collection{Name: n, Fields: map[string]models.Field{}, Count: 1})
	}
	return out
}

func rel(source, sourceField, target string) models.Relationship {
	return models.Relationship{Source: source, SourceField: sourceField, Target: target, TargetField: "_id", Confidence: models.ConfidenceHigh}
}

func positionsByID(data models.FlowData) map[string]models.Position {
	out := make(map[string]models.Position)
	for _, n := range data.Nodes {
		out[n.ID] = n.Position
	}
	return out
}

func TestGenerateLayersLeftToRight(t *testing.T) {
	data := Generate(
		collections("users", "orders", "products", "logs"),
		[]models.Relationship{rel("orders", "userId", "users"), rel("orders", "productId", "products")},
		DefaultOptions(),
	)

	pos := positionsByID(data)
	assert.Equal(t, models.Position{X: 30, Y: 220}, pos["orders"])
	assert.Equal(t, models.Position{X: 460, Y: 30}, pos["users"])
	assert.Equal(t, models.Position{X: 460, Y: 410}, pos["products"])
	assert.Equal(t, models.Position{X: 860, Y: 30}, pos["logs"], "isolated nodes start right of the connected block")

	require.Len(t, data.Nodes, 4)
	assert.Equal(t, "collection", data.Nodes[0].Type)
	assert.Equal(t, "users", data.Nodes[0].Data.Label)
	assert.Equal(t, int64(1), data.Nodes[0].Data.RecordCount)
}

func TestGenerateEdgeShape(t *testing.T) {
	data := Generate(collections("users", "orders"), []models.Relationship{rel("orders", "userId", "users")}, DefaultOptions())

	require.Len(t, data.Edges, 1)
	e := data.Edges[0]
	assert.Equal(t, "orders-userId-users-_id", e.ID)
	assert.Equal(t, "orders-userId-source", e.SourceHandle)
	assert.Equal(t, "users-_id-target", e.TargetHandle)
	assert.Equal(t, "relationship", e.Type)
	assert.Equal(t, models.ConfidenceHigh, e.Data.Confidence)
	assert.Equal(t, "userId", e.Data.SourceField)
}

func TestGenerateKeepsParallelEdgesApart(t *testing.T) {
	data := Generate(
		collections("users", "messages"),
		[]models.Relationship{rel("messages", "from", "users"), rel("messages", "to", "users"), rel("messages", "to", "users")},
		DefaultOptions(),
	)
	require.Len(t, data.Edges, 2)
	assert.NotEqual(t, data.Edges[0].ID, data.Edges[1].ID)
}

func TestGenerateDropsUnknownEndpoints(t *testing.T) {
	data := Generate(collections("users"), []models.Relationship{rel("users", "ghostId", "ghosts")}, DefaultOptions())

	assert.Empty(t, data.Edges)
	require.Len(t, data.Nodes, 1)
	assert.Equal(t, models.Position{X: 30, Y: 30}, data.Nodes[0].Position)
}

func TestGenerateIsolatedGrid(t *testing.T) {
	data := Generate(collections("a", "b", "c", "d", "e"), nil, DefaultOptions())

	pos := positionsByID(data)
	assert.Equal(t, models.Position{X: 30, Y: 30}, pos["a"])
	assert.Equal(t, models.Position{X: 380, Y: 30}, pos["b"])
	assert.Equal(t, models.Position{X: 730, Y: 30}, pos["c"])
	assert.Equal(t, models.Position{X: 30, Y: 530}, pos["d"])
	assert.Equal(t, models.Position{X: 380, Y: 530}, pos["e"])
}

func TestOptionsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(config.Default().Layout))

	cfg := config.Default().Layout
	cfg.Padding = 10
	cfg.NodeWidth = 100
	cfg.IsolatedGapX = 50
	data := Generate(collections("a", "b", "c", "d"), nil, OptionsFromConfig(cfg))

	pos := positionsByID(data)
	assert.Equal(t, models.Position{X: 10, Y: 10}, pos["a"])
	assert.Equal(t, models.Position{X: 160, Y: 10}, pos["b"])
	assert.Equal(t, models.Position{X: 10, Y: 510}, pos["c"])
}

func TestGenerateHandlesCyclesAndSelfReferences(t *testing.T) {
	data := Generate(
		collections("a", "b", "c"),
		[]models.Relationship{rel("a", "bId", "b"), rel("b", "aId", "a"), rel("c", "parentId", "c")},
		DefaultOptions(),
	)

	pos := positionsByID(data)
	assert.Len(t, data.Edges, 3)
	assert.Less(t, pos["a"].X, pos["b"].X)
	assert.Equal(t, pos["a"].X, pos["c"].X, "self references do not add a layer")
	assert.Equal(t, models.Position{X: 30, Y: 410}, pos["c"])
}

func TestGenerateIsDeterministic(t *testing.T) {
	cols := collections("users", "orders", "products", "reviews", "tags", "audit")
	rels := []models.Relationship{
		rel("orders", "userId", "users"),
		rel("orders", "productIds", "products"),
		rel("reviews", "productId", "products"),
		rel("reviews", "userId", "users"),
		rel("products", "tagIds", "tags"),
	}

	first := Generate(cols, rels, DefaultOptions())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(cols, rels, DefaultOptions()))
	}
}
