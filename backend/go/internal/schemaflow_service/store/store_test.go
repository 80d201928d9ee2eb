package store

import (
	"SchemaFlow/backend/go/internal/models"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeReader struct {
	mu      sync.Mutex
	names   []string
	docs    map[string]bson.D
	counts  map[string]int64
	failOn  string
	visited []string
}

func (f *fakeReader) CollectionNames(context.Context) ([]string, error) {
	return f.names, nil
}

func (f *fakeReader) FirstDocument(_ context.Context, name string) (bson.D, error) {
	f.mu.Lock()
	f.visited = append(f.visited, name)
	f.mu.Unlock()
	if name == f.failOn {
		return nil, errors.New("read failed")
	}
	if d, ok := f.docs[name]; ok {
		return d, nil
	}
	return bson.D{}, nil
}

func (f *fakeReader) Count(_ context.Context, name string) (int64, error) {
	return f.counts[name], nil
}

func TestSampleCollectionsSkipsSystemAndSorts(t *testing.T) {
	r := &fakeReader{
		names:  []string{"users", "system.views", "orders", "empty"},
		docs:   map[string]bson.D{"users": {{Key: "name", Value: "ada"}}},
		counts: map[string]int64{"users": 3, "orders": 7},
	}

	got, err := sampleCollections(context.Background(), r, 2)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"empty", "orders", "users"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, int64(0), got[0].Count)
	assert.Empty(t, got[0].Document)
	assert.Equal(t, int64(7), got[1].Count)
	assert.Equal(t, bson.D{{Key: "name", Value: "ada"}}, got[2].Document)
	assert.NotContains(t, r.visited, "system.views")
}

func TestSampleCollectionsPropagatesErrors(t *testing.T) {
	r := &fakeReader{names: []string{"a", "b"}, failOn: "b"}

	_, err := sampleCollections(context.Background(), r, 0)
	assert.ErrorContains(t, err, "failed to sample b")
}

func TestDiagramParams(t *testing.T) {
	d := &models.Diagram{
		DatabaseName: "shop",
		Collections: []models.Collection{{
			Name:   "users",
			Count:  2,
			Fields: map[string]models.Field{"_id": {Name: "_id", Type: "ObjectId", Key: true}},
		}},
		Relationships: []models.Relationship{{
			Source: "orders", Target: "users", SourceField: "userId", TargetField: "_id", Confidence: models.ConfidenceHigh,
		}},
	}

	params, err := diagramParams(d)
	require.NoError(t, err)
	assert.Equal(t, "shop", params["database"])

	cols := params["collections"].([]map[string]interface{})
	require.Len(t, cols, 1)
	assert.Equal(t, int64(2), cols[0]["count"])
	assert.JSONEq(t, `{"_id":{"name":"_id","type":"ObjectId","key":true}}`, cols[0]["fields"].(string))

	rels := params["relationships"].([]map[string]interface{})
	require.Len(t, rels, 1)
	assert.Equal(t, "high", rels[0]["confidence"])
}
