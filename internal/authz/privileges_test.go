package authz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrivileges_TrimsAndDeduplicates(t *testing.T) {
	p := ParsePrivileges(" manage_projects, export_data ,,manage_projects,  ")

	assert.Equal(t, []string{"manage_projects", "export_data"}, p.List())
	assert.Equal(t, "manage_projects,export_data", p.String())
}

func TestPrivileges_HasIsExactMatch(t *testing.T) {
	p := ParsePrivileges("manage_clients , view_reports")

	assert.True(t, p.Has("manage_clients"))
	assert.True(t, p.Has("view_reports"))
	assert.False(t, p.Has("manage_client"))
	assert.False(t, p.Has("manage"))
	assert.False(t, p.Has(" manage_clients"))
	assert.False(t, ParsePrivileges("").Has(""))
}

func TestPrivileges_HasAnyHasAll(t *testing.T) {
	p := NewPrivileges(ManageProjects, ExportData)

	assert.True(t, p.HasAny(ManageUsers, ExportData))
	assert.False(t, p.HasAny(ManageUsers, ManageClients))
	assert.False(t, p.HasAny())
	assert.True(t, p.HasAll(ManageProjects, ExportData))
	assert.False(t, p.HasAll(ManageProjects, ManageUsers))
	assert.True(t, p.HasAll())
}

func TestPrivileges_AddRemove(t *testing.T) {
	var p Privileges

	assert.True(t, p.Add("manage_hr"))
	assert.False(t, p.Add(" manage_hr "))
	assert.False(t, p.Add("  "))
	assert.True(t, p.Add("manage_transport"))
	assert.Equal(t, 2, p.Len())

	assert.True(t, p.Remove("manage_hr"))
	assert.False(t, p.Remove("manage_hr"))
	assert.Equal(t, "manage_transport", p.String())
}

func TestPrivileges_JSONAsList(t *testing.T) {
	data, err := json.Marshal(NewPrivileges("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	var p Privileges
	require.NoError(t, json.Unmarshal([]byte(`["x"," x ","y"]`), &p))
	assert.Equal(t, []string{"x", "y"}, p.List())

	data, err = json.Marshal(Privileges{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
