package types

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"
)

const DateLayout = "2006-01-02"

// Date принимает в JSON "2024-05-17" или полный RFC3339.
type Date time.Time

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(DateLayout) + `"`), nil
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) IsZero() bool { return time.Time(d).IsZero() }

// NullDate - необязательная дата; по структуре совпадает с null.Time.
type NullDate null.Time

func (d *NullDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = NullDate{}
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	*d = NullDate{Time: t, Valid: true}
	return nil
}

func (d NullDate) Null() null.Time { return null.Time(d) }
