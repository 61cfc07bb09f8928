package repositories

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Помощники для типизированной проекции строк графа. Драйвер возвращает
// значения как any: проекции карт приходят как map[string]any, datetime —
// как time.Time.

func recordValue(rec *neo4j.Record, key string) any {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	return v
}

func recordString(rec *neo4j.Record, key string) string {
	return asString(recordValue(rec, key))
}

func recordInt(rec *neo4j.Record, key string) int64 {
	v, _ := recordValue(rec, key).(int64)
	return v
}

func recordMaps(rec *neo4j.Record, key string) []map[string]any {
	items, _ := recordValue(rec, key).([]any)
	maps := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			maps = append(maps, m)
		}
	}
	return maps
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func mapString(m map[string]any, key string) string {
	return asString(m[key])
}
