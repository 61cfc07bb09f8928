package services

import "strings"

// equalFold сравнивает значения из графа без учёта регистра и краевых
// пробелов: сиды и ручные правки не гарантируют канонический вид.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
