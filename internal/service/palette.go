package service

import "hash/fnv"

// tagColorPalette - фиксированная палитра из 8 цветов для новых тегов.
var tagColorPalette = []string{
	"#6366F1",
	"#8B5CF6",
	"#EC4899",
	"#F59E0B",
	"#10B981",
	"#3B82F6",
	"#EF4444",
	"#14B8A6",
}

// pickTagColor выбирает цвет палитры детерминированно по имени тега.
// Чистая функция вместо случайного выбора, чтобы тесты были воспроизводимыми.
func pickTagColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return tagColorPalette[h.Sum32()%uint32(len(tagColorPalette))]
}
