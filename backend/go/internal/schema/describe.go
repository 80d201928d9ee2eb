// Package schema 根据采样文档推断集合的字段类型。
package schema

import (
	"SchemaFlow/backend/go/internal/models"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 类型标签。
const (
	TypeNull       = "Null"
	TypeUndefined  = "Undefined"
	TypeDate       = "Date"
	TypeArray      = "Array"
	TypeObjectID   = "ObjectId"
	TypeDecimal128 = "Decimal128"
	TypeDouble     = "Double"
	TypeInt32      = "Int32"
	TypeLong       = "Long"
	TypeBinary     = "Binary"
	TypeUUID       = "UUID"
	TypeString     = "String"
	TypeBoolean    = "Boolean"
	TypeTimestamp  = "Timestamp"
	TypeRegExp     = "RegExp"
	TypeJavaScript = "JavaScript"
	TypeSymbol     = "Symbol"
	TypeDBPointer  = "DBPointer"
	TypeMinKey     = "MinKey"
	TypeMaxKey     = "MaxKey"
	TypeObject     = "Object"
	TypeUnknown    = "Unknown"
)

// maxDepth 限制嵌套文档的递归深度。
const maxDepth = 32

// Describe 返回单个值的字段描述，嵌套文档会被递归展开。
func Describe(value interface{}, name string) models.Field {
	return describe(value, name, 0)
}

func describe(value interface{}, name string, depth int) models.Field {
	f := models.Field{Name: name, Type: Label(value)}
	switch f.Type {
	case TypeObject:
		if depth < maxDepth {
			f.Fields = describeDocument(value, depth+1)
		}
	case TypeArray:
		if items := arrayItems(value); len(items) > 0 {
			f.Items = Label(items[0])
		}
	}
	return f
}

// Label 返回值对应的类型标签，不做递归。
func Label(value interface{}) string {
	switch v := value.(type) {
	case nil, primitive.Null:
		return TypeNull
	case primitive.Undefined:
		return TypeUndefined
	case primitive.DateTime, time.Time:
		return TypeDate
	case primitive.A, []interface{}:
		return TypeArray
	case primitive.ObjectID:
		return TypeObjectID
	case primitive.Decimal128:
		return TypeDecimal128
	case float64, float32:
		return TypeDouble
	case int32, int8, int16, uint8, uint16:
		return TypeInt32
	case int64, uint32, uint64:
		return TypeLong
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return TypeInt32
		}
		return TypeLong
	case primitive.Binary:
		if v.Subtype == bson.TypeBinaryUUIDOld || v.Subtype == bson.TypeBinaryUUID {
			return TypeUUID
		}
		return TypeBinary
	case []byte:
		return TypeBinary
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case primitive.Timestamp:
		return TypeTimestamp
	case primitive.Regex:
		return TypeRegExp
	case primitive.JavaScript, primitive.CodeWithScope:
		return TypeJavaScript
	case primitive.Symbol:
		return TypeSymbol
	case primitive.DBPointer:
		return TypeDBPointer
	case primitive.MinKey:
		return TypeMinKey
	case primitive.MaxKey:
		return TypeMaxKey
	case primitive.D, primitive.M, map[string]interface{}:
		return TypeObject
	default:
		return TypeUnknown
	}
}

func describeDocument(value interface{}, depth int) map[string]models.Field {
	fields := make(map[string]models.Field)
	switch doc := value.(type) {
	case primitive.D:
		for _, e := range doc {
			fields[e.Key] = describe(e.Value, e.Key, depth)
		}
	case primitive.M:
		for k, v := range doc {
			fields[k] = describe(v, k, depth)
		}
	case map[string]interface{}:
		for k, v := range doc {
			fields[k] = describe(v, k, depth)
		}
	}
	return fields
}

func arrayItems(value interface{}) []interface{} {
	switch a := value.(type) {
	case primitive.A:
		return a
	case []interface{}:
		return a
	}
	return nil
}

// ExtractFieldTypes 对每个采样集合的文档做类型推断，顶层 _id 标记为主键。
func ExtractFieldTypes(raw []models.RawCollection) []models.Collection {
	collections := make([]models.Collection, 0, len(raw))
	for _, rc := range raw {
		fields := make(map[string]models.Field, len(rc.Document))
		for _, e := range rc.Document {
			f := Describe(e.Value, e.Key)
			f.Key = e.Key == "_id"
			fields[e.Key] = f
		}
		collections = append(collections, models.Collection{
			Name:   rc.Name,
			Fields: fields,
			Count:  rc.Count,
		})
	}
	return collections
}
