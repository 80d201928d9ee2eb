package schema

import (
	"SchemaFlow/backend/go/internal/models"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLabel(t *testing.T) {
	dec, err := primitive.ParseDecimal128("12.50")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, TypeNull},
		{"bson null", primitive.Null{}, TypeNull},
		{"undefined", primitive.Undefined{}, TypeUndefined},
		{"datetime", primitive.NewDateTimeFromTime(time.Now()), TypeDate},
		{"time", time.Now(), TypeDate},
		{"array", bson.A{1, 2}, TypeArray},
		{"object id", primitive.NewObjectID(), TypeObjectID},
		{"decimal", dec, TypeDecimal128},
		{"double", 3.14, TypeDouble},
		{"whole double", float64(3), TypeDouble},
		{"int32", int32(7), TypeInt32},
		{"int64", int64(7), TypeLong},
		{"small int", 7, TypeInt32},
		{"large int", math.MaxInt32 + 1, TypeLong},
		{"binary", primitive.Binary{Subtype: 0x00, Data: []byte{1}}, TypeBinary},
		{"uuid", primitive.Binary{Subtype: 0x04, Data: make([]byte, 16)}, TypeUUID},
		{"legacy uuid", primitive.Binary{Subtype: 0x03, Data: make([]byte, 16)}, TypeUUID},
		{"string", "hello", TypeString},
		{"bool", true, TypeBoolean},
		{"timestamp", primitive.Timestamp{T: 1, I: 1}, TypeTimestamp},
		{"regex", primitive.Regex{Pattern: "^a"}, TypeRegExp},
		{"javascript", primitive.JavaScript("function(){}"), TypeJavaScript},
		{"symbol", primitive.Symbol("s"), TypeSymbol},
		{"min key", primitive.MinKey{}, TypeMinKey},
		{"max key", primitive.MaxKey{}, TypeMaxKey},
		{"document", bson.D{{Key: "a", Value: 1}}, TypeObject},
		{"map", bson.M{"a": 1}, TypeObject},
		{"unknown", struct{}{}, TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.value))
		})
	}
}

func TestDescribeNestedDocument(t *testing.T) {
	value := bson.D{
		{Key: "street", Value: "Main St"},
		{Key: "geo", Value: bson.D{
			{Key: "lat", Value: 1.5},
			{Key: "lng", Value: 2.5},
		}},
	}

	f := Describe(value, "address")
	assert.Equal(t, "address", f.Name)
	assert.Equal(t, TypeObject, f.Type)
	assert.False(t, f.Key)
	require.Contains(t, f.Fields, "geo")
	assert.Equal(t, TypeString, f.Fields["street"].Type)
	assert.Equal(t, TypeObject, f.Fields["geo"].Type)
	assert.Equal(t, TypeDouble, f.Fields["geo"].Fields["lat"].Type)
}

func TestDescribeArrayRecordsFirstItemType(t *testing.T) {
	f := Describe(bson.A{primitive.NewObjectID(), primitive.NewObjectID()}, "tags")
	assert.Equal(t, TypeArray, f.Type)
	assert.Equal(t, TypeObjectID, f.Items)
	assert.Nil(t, f.Fields)

	empty := Describe(bson.A{}, "tags")
	assert.Equal(t, TypeArray, empty.Type)
	assert.Empty(t, empty.Items)
}

func TestDescribeStopsAtMaxDepth(t *testing.T) {
	var value interface{} = "leaf"
	for i := 0; i < maxDepth+5; i++ {
		value = bson.D{{Key: "n", Value: value}}
	}

	f := Describe(value, "root")
	depth := 0
	for f.Fields != nil {
		f = f.Fields["n"]
		depth++
	}
	assert.Equal(t, maxDepth, depth)
	assert.Equal(t, TypeObject, f.Type)
}

func TestExtractFieldTypes(t *testing.T) {
	id := primitive.NewObjectID()
	raw := []models.RawCollection{
		{
			Name: "users",
			Document: bson.D{
				{Key: "_id", Value: id},
				{Key: "name", Value: "ada"},
				{Key: "age", Value: int32(36)},
				{Key: "deletedAt", Value: nil},
			},
			Count: 42,
		},
		{Name: "empty", Count: 0},
	}

	got := ExtractFieldTypes(raw)
	require.Len(t, got, 2)

	users := got[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, int64(42), users.Count)
	assert.Equal(t, models.Field{Name: "_id", Type: TypeObjectID, Key: true}, users.Fields["_id"])
	assert.Equal(t, models.Field{Name: "name", Type: TypeString}, users.Fields["name"])
	assert.Equal(t, TypeInt32, users.Fields["age"].Type)
	assert.Equal(t, TypeNull, users.Fields["deletedAt"].Type)

	assert.Equal(t, "empty", got[1].Name)
	assert.Empty(t, got[1].Fields)
	assert.NotNil(t, got[1].Fields)
}
