package services

import (
	"errors"
	"net/http"
	"testing"

	"solarforyou/internal/authz"
	"solarforyou/internal/dto"
	apperrors "solarforyou/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidHours(t *testing.T) {
	testCases := []struct {
		hours string
		want  bool
	}{
		{"0", true},
		{"7.5", true},
		{"24", true},
		{"24.01", false},
		{"-0.5", false},
	}
	for _, tc := range testCases {
		t.Run(tc.hours, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidHours(decimal.RequireFromString(tc.hours)))
		})
	}
}

func TestCreateBulk_RejectsBeforeTransaction(t *testing.T) {
	// без репозитория: до транзакции дело не должно дойти
	svc := NewProgressReportService(fakeTxManager{}, nil, nil, zap.NewNop())
	ctx := actorCtx(5, false, authz.ManageReports)

	_, err := svc.CreateBulk(ctx, dto.BulkProgressReportDTO{
		ProjectID: 1,
		Entries: []dto.ReportEntryLineDTO{
			{EmployeeID: 10, HoursWorked: decimal.NewFromInt(8)},
			{EmployeeID: 10, HoursWorked: decimal.NewFromInt(25)},
		},
	})

	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	details, ok := httpErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "date")
	assert.Contains(t, details, "entries[1].hours_worked")
	assert.Contains(t, details, "entries[1].employee")
	assert.NotContains(t, details, "entries[0].hours_worked")
}
