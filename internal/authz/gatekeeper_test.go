package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ownedStub uint64

func (o ownedStub) OwnerID() uint64 { return uint64(o) }

func TestGatekeeper_Can(t *testing.T) {
	g := NewGatekeeper()

	staff := &Actor{UserID: 1, IsStaff: true}
	noProfile := &Actor{UserID: 2}
	manager := &Actor{UserID: 3, HasProfile: true, Privileges: NewPrivileges(ManageProjects)}

	tests := []struct {
		name     string
		actor    *Actor
		required string
		want     bool
	}{
		{"staff без профиля проходит всё", staff, AdminUsers, true},
		{"без профиля, маршрут без привилегии", noProfile, "", true},
		{"без профиля, маршрут с привилегией", noProfile, ManageProjects, false},
		{"есть привилегия", manager, ManageProjects, true},
		{"нет привилегии", manager, ManageClients, false},
		{"нет актора", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Can(tt.actor, tt.required))
		})
	}
}

func TestVisibilityFor(t *testing.T) {
	staff := &Actor{UserID: 1, IsStaff: true}
	viewer := &Actor{UserID: 2, HasProfile: true, Privileges: NewPrivileges(ViewAllProjects)}
	plain := &Actor{UserID: 3, HasProfile: true, Privileges: NewPrivileges(ManageRequisitions)}

	assert.True(t, VisibilityFor(staff, ResourceRequisitions).All)
	assert.True(t, VisibilityFor(viewer, ResourceProjects).All)
	assert.False(t, VisibilityFor(viewer, ResourceRequisitions).All)

	scope := VisibilityFor(plain, ResourceRequisitions)
	assert.False(t, scope.All)
	assert.Equal(t, uint64(3), scope.UserID)
}

func TestCanModify(t *testing.T) {
	owner := &Actor{UserID: 5, HasProfile: true}
	other := &Actor{UserID: 6, HasProfile: true}
	broad := &Actor{UserID: 7, HasProfile: true, Privileges: NewPrivileges(ViewAllRequisitions)}

	assert.True(t, CanModify(owner, ownedStub(5), ResourceRequisitions))
	assert.False(t, CanModify(other, ownedStub(5), ResourceRequisitions))
	assert.True(t, CanModify(broad, ownedStub(5), ResourceRequisitions))
	assert.True(t, CanModify(&Actor{UserID: 9, IsStaff: true}, ownedStub(5), ResourceProjects))
	assert.False(t, CanModify(other, ownedStub(0), ResourceProjects))
}
