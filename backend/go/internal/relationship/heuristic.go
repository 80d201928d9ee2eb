package relationship

import (
	"SchemaFlow/backend/go/internal/models"
	"sort"
	"strings"
)

// 按从长到短的顺序匹配引用后缀，保证 "_ids" 优先于 "ids"。
var strippableSuffixes = []string{"_ids", "_id", "_refs", "_ref", "ids", "id", "refs", "ref"}

// hierarchyWords 单独出现（或后接本集合单数名）时表示指向本集合的层级引用。
var hierarchyWords = []string{"parent", "child", "children"}

// nestingPrefixes 只有后接本集合单数名时才表示自引用，例如 categories 中的 subcategory。
var nestingPrefixes = []string{"sub", "super"}

// nonReferenceTypes 中的类型永远不会被当作引用字段。
var nonReferenceTypes = map[string]bool{
	"Object":  true,
	"Boolean": true,
	"Date":    true,
	"Double":  true,
	"Null":    true,
}

// InferHeuristic 在不调用大模型的情况下，根据字段名和集合名猜测引用关系。
// 目标字段总是 "_id"；结果按源集合和源字段排序。
func InferHeuristic(schemas []models.RawSchema) []models.Relationship {
	names := make([]string, 0, len(schemas))
	for _, s := range schemas {
		names = append(names, s.Name)
	}
	index := buildNameIndex(names)

	seen := make(map[string]bool)
	var rels []models.Relationship
	for _, s := range schemas {
		for _, key := range sortedKeys(s.Fields) {
			rel, ok := guess(s.Name, key, s.Fields[key], names, index)
			if !ok {
				continue
			}
			dedupKey := rel.Source + "\x00" + rel.SourceField + "\x00" + rel.Target
			if seen[dedupKey] {
				continue
			}
			seen[dedupKey] = true
			rels = append(rels, rel)
		}
	}

	sort.SliceStable(rels, func(i, j int) bool {
		if rels[i].Source != rels[j].Source {
			return rels[i].Source < rels[j].Source
		}
		return rels[i].SourceField < rels[j].SourceField
	})
	return rels
}

func guess(source, key string, f models.RawSchemaField, names []string, index map[string]string) (models.Relationship, bool) {
	if key == "_id" || key == "__v" || nonReferenceTypes[f.Type] {
		return models.Relationship{}, false
	}

	isObjectID := f.Type == "ObjectId"
	isArray := f.Type == "Array"
	arrayOfIDs := isArray && f.Items == "ObjectId"

	switch {
	case isObjectID, arrayOfIDs:
	case isArray && InferArrayContent(key, names):
	case hasReferenceSuffix(key):
	default:
		return models.Relationship{}, false
	}

	base := stripReferenceSuffix(key)
	if base == "" {
		return models.Relationship{}, false
	}

	target := lookup(index, base)
	if target == "" || target == source {
		if !isSelfReference(base, source) || !(isObjectID || arrayOfIDs || hasReferenceSuffix(key)) {
			return models.Relationship{}, false
		}
		target = source
	}

	confidence := models.ConfidenceMedium
	if (isObjectID || arrayOfIDs) && target != source {
		confidence = models.ConfidenceHigh
	}

	return models.Relationship{
		Source:      source,
		Target:      target,
		SourceField: key,
		TargetField: "_id",
		Confidence:  confidence,
	}, true
}

func hasReferenceSuffix(key string) bool {
	lower := strings.ToLower(key)
	for _, suffix := range strippableSuffixes {
		if len(lower) > len(suffix) && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// stripReferenceSuffix 返回去掉引用后缀并转为小写的字段名，例如 "authorIds" -> "author"。
func stripReferenceSuffix(key string) string {
	lower := strings.ToLower(key)
	for _, suffix := range strippableSuffixes {
		if len(lower) > len(suffix) && strings.HasSuffix(lower, suffix) {
			lower = strings.TrimSuffix(lower, suffix)
			break
		}
	}
	return strings.Trim(lower, "_")
}

// isSelfReference 判断去掉后缀的字段名是否描述了集合内部的层级关系。
// subjectId、supervisorId 之类仅以相同字母开头的字段不算。
func isSelfReference(base, source string) bool {
	own := singularIES(strings.ToLower(source))
	forms := []string{base, singularIES(base)}
	matches := func(word string) bool {
		for _, f := range forms {
			if f == word {
				return true
			}
		}
		return false
	}
	for _, w := range hierarchyWords {
		if matches(w) || matches(w+own) {
			return true
		}
	}
	for _, p := range nestingPrefixes {
		if matches(p + own) {
			return true
		}
	}
	return false
}

// buildNameIndex 为每个集合名建立单复数两种小写形式的索引。
func buildNameIndex(names []string) map[string]string {
	index := make(map[string]string, len(names)*3)
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, k := range []string{lower, singular(lower), singularIES(lower)} {
			if _, exists := index[k]; !exists {
				index[k] = name
			}
		}
	}
	return index
}

func singularIES(name string) string {
	if strings.HasSuffix(name, "ies") {
		return strings.TrimSuffix(name, "ies") + "y"
	}
	return singular(name)
}

func lookup(index map[string]string, base string) string {
	for _, k := range []string{base, singular(base), singularIES(base)} {
		if name, ok := index[k]; ok {
			return name
		}
	}
	return ""
}

func sortedKeys(fields map[string]models.RawSchemaField) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
