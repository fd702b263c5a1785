package authz

// Gatekeeper проверяет привилегию, объявленную маршрутом.
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// Can: staff проходит всегда; маршрут без привилегии доступен любому
// аутентифицированному пользователю; без профиля - отказ; иначе точное совпадение токена.
func (g *Gatekeeper) Can(actor *Actor, required string) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff {
		return true
	}
	if required == "" {
		return true
	}
	if !actor.HasProfile {
		return false
	}
	return actor.Privileges.Has(required)
}
