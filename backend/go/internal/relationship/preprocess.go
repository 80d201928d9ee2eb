// Package relationship 负责推断集合之间的引用关系：预处理 schema、生成提示词、
// 解析模型回复，以及不依赖模型的启发式匹配。
package relationship

import (
	"SchemaFlow/backend/go/internal/models"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	referenceSuffixes = []string{"id", "ids", "ref", "refs"}
	referenceSuffixRe = regexp.MustCompile(`(id|ref)s?$`)
	commonPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^related`),
		regexp.MustCompile(`(?i)^linked`),
		regexp.MustCompile(`(?i)^associated`),
		regexp.MustCompile(`(?i)^parent`),
		regexp.MustCompile(`(?i)^child`),
		regexp.MustCompile(`(?i)^sub`),
		regexp.MustCompile(`(?i)^super`),
	}
)

// singular 去掉结尾的一个 "s" 并转为小写。
func singular(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "s"))
}

// InferArrayContent 根据字段名和所有集合名判断数组字段是否可能存放 ObjectId。
func InferArrayContent(fieldName string, allSchemaNames []string) bool {
	singularField := singular(fieldName)
	lowerField := strings.ToLower(fieldName)

	for _, suffix := range referenceSuffixes {
		if strings.HasSuffix(singularField, suffix) || strings.HasSuffix(lowerField, suffix) {
			return true
		}
	}

	stripped := referenceSuffixRe.ReplaceAllString(singularField, "")
	for _, name := range allSchemaNames {
		s := singular(name)
		if s == singularField || s == stripped {
			return true
		}
	}

	return matchesCommonPattern(fieldName)
}

func matchesCommonPattern(fieldName string) bool {
	for _, p := range commonPatterns {
		if p.MatchString(fieldName) {
			return true
		}
	}
	return false
}

// PreprocessSchemas 只保留 _id、ObjectId 和 Array 字段（排除 __v），
// 并为每个字段标注关系推断需要的信息。
func PreprocessSchemas(schemas []models.RawSchema) []models.PreprocessedSchema {
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}

	out := make([]models.PreprocessedSchema, 0, len(schemas))
	for _, s := range schemas {
		fields := make(map[string]models.SchemaField)
		for key, f := range s.Fields {
			if key == "__v" {
				continue
			}
			if key != "_id" && f.Type != "ObjectId" && f.Type != "Array" {
				continue
			}
			isArray := f.Type == "Array"
			fields[key] = models.SchemaField{
				Type:                    f.Type,
				IsArray:                 isArray,
				LikelyContainsObjectIds: isArray && (f.Items == "ObjectId" || InferArrayContent(key, names)),
				IsID:                    key == "_id" || strings.HasSuffix(strings.ToLower(key), "id"),
			}
		}
		out = append(out, models.PreprocessedSchema{Name: s.Name, Fields: fields})
	}
	return out
}

// SchemaHash 返回原始 schema 的 SHA-256 十六进制摘要，用作缓存键。
// encoding/json 对 map 的键排序，因此相同的 schema 总是得到相同的摘要。
func SchemaHash(schemas []models.RawSchema) (string, error) {
	data, err := json.Marshal(schemas)
	if err != nil {
		return "", fmt.Errorf("序列化 schema 失败: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
