package authz

// Scope - область видимости списков для актора.
// All=false означает "только свои записи" (created_by = UserID).
type Scope struct {
	All    bool
	UserID uint64
}

// Broadening - привилегии, снимающие ограничение "только свои" для ресурса.
const (
	ResourceProjects     = "projects"
	ResourceRequisitions = "requisitions"
	ResourceReports      = "progress_reports"
)

var broadening = map[string]string{
	ResourceProjects:     ViewAllProjects,
	ResourceRequisitions: ViewAllRequisitions,
	ResourceReports:      ViewReports,
}

// VisibilityFor возвращает область видимости ресурса для актора.
func VisibilityFor(actor *Actor, resource string) Scope {
	if actor == nil {
		return Scope{}
	}
	if actor.IsStaff {
		return Scope{All: true, UserID: actor.UserID}
	}
	if priv, ok := broadening[resource]; ok && actor.HasProfile && actor.Privileges.Has(priv) {
		return Scope{All: true, UserID: actor.UserID}
	}
	return Scope{UserID: actor.UserID}
}

// Owned - сущность с автором.
type Owned interface {
	OwnerID() uint64
}

// CanModify: staff, автор записи или держатель расширяющей привилегии ресурса.
func CanModify(actor *Actor, target Owned, resource string) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.IsStaff {
		return true
	}
	if target.OwnerID() != 0 && target.OwnerID() == actor.UserID {
		return true
	}
	return VisibilityFor(actor, resource).All
}
