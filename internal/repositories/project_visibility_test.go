package repositories

import (
	"testing"

	"solarforyou/internal/authz"
	"solarforyou/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectVisibility(t *testing.T) {
	assert.Nil(t, projectVisibility(authz.Scope{All: true}))

	pred := projectVisibility(authz.Scope{UserID: 7})
	require.NotNil(t, pred)
	sql, args, err := pred.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(p.created_by = ? OR c.user_id = ?)", sql)
	assert.Equal(t, []interface{}{uint64(7), uint64(7)}, args)
}

func TestProjectListQuery_AppliesVisibility(t *testing.T) {
	filter := types.Filter{Filter: map[string]interface{}{"status": "new"}}

	builder := applyListConditions(psql.Select("p.id").From(projectListParams.From), projectListParams,
		filter, []sq.Sqlizer{projectVisibility(authz.Scope{UserID: 7})})
	sql, args, err := builder.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "JOIN clients c ON c.id = p.client_id")
	assert.Contains(t, sql, "(p.created_by = $1 OR c.user_id = $2)")
	assert.Contains(t, sql, "p.status = $3")
	assert.Equal(t, []interface{}{uint64(7), uint64(7), "new"}, args)

	unscoped := applyListConditions(psql.Select("p.id").From(projectListParams.From), projectListParams,
		filter, []sq.Sqlizer{projectVisibility(authz.Scope{All: true})})
	sql, args, err = unscoped.ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "created_by")
	assert.Equal(t, []interface{}{"new"}, args)
}
