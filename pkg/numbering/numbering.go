// Package numbering формирует и разбирает человекочитаемые номера документов
// вида ZAP/2024/05/17/3 и индексы товаров вида 000042.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind описывает серию номеров.
type Kind struct {
	Code  string // ZAP, HR, TR; пусто - серия без даты
	Width int    // дополнение нулями слева, 0 - без дополнения
}

var (
	Requisition      = Kind{Code: "ZAP"}
	HRRequisition    = Kind{Code: "HR"}
	TransportRequest = Kind{Code: "TR"}
	ItemIndex        = Kind{Width: 6}
)

// Prefix возвращает общий префикс серии на дату t.
func (k Kind) Prefix(t time.Time) string {
	if k.Code == "" {
		return ""
	}
	return DatedPrefix(k.Code, t)
}

// Scope - ключ счётчика серии.
func (k Kind) Scope(t time.Time) string {
	if k.Code == "" {
		return "ITEM"
	}
	return k.Prefix(t)
}

// Max - наибольший номер, который помещается в Width цифр; 0 - без ограничения.
// Колонка items.index рассчитана ровно на Width символов.
func (k Kind) Max() int64 {
	if k.Width <= 0 {
		return 0
	}
	limit := int64(1)
	for i := 0; i < k.Width; i++ {
		limit *= 10
	}
	return limit - 1
}

func (k Kind) Format(prefix string, n int64) string {
	if k.Width > 0 {
		return prefix + fmt.Sprintf("%0*d", k.Width, n)
	}
	return prefix + strconv.FormatInt(n, 10)
}

func DatedPrefix(code string, t time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/", code, t.Year(), int(t.Month()), t.Day())
}

// TrailingNumber извлекает число после префикса. Для пустого префикса
// всё значение должно быть числом.
func TrailingNumber(value, prefix string) (int64, bool) {
	if !strings.HasPrefix(value, prefix) {
		return 0, false
	}
	rest := value[len(prefix):]
	if prefix != "" && strings.Contains(rest, "/") {
		return 0, false
	}
	if rest == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MaxSuffix возвращает максимальный номер серии и значения, которые не удалось разобрать.
func MaxSuffix(values []string, prefix string) (int64, []string) {
	var (
		maxN      int64
		anomalies []string
	)
	for _, v := range values {
		n, ok := TrailingNumber(v, prefix)
		if !ok {
			anomalies = append(anomalies, v)
			continue
		}
		if n > maxN {
			maxN = n
		}
	}
	return maxN, anomalies
}
