package authz

import (
	"encoding/json"
	"slices"
	"strings"
)

// Privileges - набор привилегий профиля без повторов, в порядке добавления.
type Privileges struct {
	list []string
}

// ParsePrivileges разбирает строку вида "manage_projects, export_data".
// Пробелы обрезаются, пустые элементы и повторы отбрасываются.
func ParsePrivileges(raw string) Privileges {
	return NewPrivileges(strings.Split(raw, ",")...)
}

func NewPrivileges(tokens ...string) Privileges {
	var p Privileges
	for _, t := range tokens {
		p.Add(t)
	}
	return p
}

func (p Privileges) Has(privilege string) bool {
	return slices.Contains(p.list, privilege)
}

func (p Privileges) HasAny(privileges ...string) bool {
	for _, priv := range privileges {
		if p.Has(priv) {
			return true
		}
	}
	return false
}

// HasAll для пустого списка возвращает true.
func (p Privileges) HasAll(privileges ...string) bool {
	for _, priv := range privileges {
		if !p.Has(priv) {
			return false
		}
	}
	return true
}

// Add возвращает false, если привилегия пустая или уже есть.
func (p *Privileges) Add(privilege string) bool {
	privilege = strings.TrimSpace(privilege)
	if privilege == "" || p.Has(privilege) {
		return false
	}
	p.list = append(p.list, privilege)
	return true
}

func (p *Privileges) Remove(privilege string) bool {
	privilege = strings.TrimSpace(privilege)
	i := slices.Index(p.list, privilege)
	if i < 0 {
		return false
	}
	p.list = slices.Delete(p.list, i, i+1)
	return true
}

func (p Privileges) List() []string {
	return slices.Clone(p.list)
}

func (p Privileges) Len() int { return len(p.list) }

func (p Privileges) String() string {
	return strings.Join(p.list, ",")
}

func (p Privileges) MarshalJSON() ([]byte, error) {
	if p.list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.list)
}

func (p *Privileges) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*p = NewPrivileges(list...)
	return nil
}
