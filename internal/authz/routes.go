package authz

import "strings"

// RoutePolicy - таблица "МЕТОД /шаблон/пути" -> требуемая привилегия.
// Пустая строка: достаточно аутентификации.
type RoutePolicy map[string]string

func RouteKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Allow регистрирует одну привилегию для нескольких методов пути.
func (p RoutePolicy) Allow(required, path string, methods ...string) {
	for _, m := range methods {
		p[RouteKey(m, path)] = required
	}
}

// Lookup: ok=false означает маршрут вне таблицы, такой запрос отклоняется.
func (p RoutePolicy) Lookup(method, path string) (string, bool) {
	required, ok := p[RouteKey(method, path)]
	return required, ok
}
