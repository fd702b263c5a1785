package controllers

import (
	"bytes"
	"testing"
	"time"

	"solarforyou/internal/dto"
	"solarforyou/internal/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildRequisitionWorkbook(t *testing.T) {
	deadline := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	withLines := dto.NewRequisitionDTO(&entities.Requisition{
		Number:          "ZAP/2024/05/17/1",
		ProjectName:     "Farma Opole",
		RequisitionType: "material",
		Status:          "to_accept",
		Deadline:        deadline,
		CreatedByName:   "Jan Kowalski",
		Items: []entities.RequisitionItem{
			{ItemIndex: "000001", ItemName: "Panel 450W", ItemUnit: "szt", Quantity: decimal.NewFromInt(4), Price: decimal.RequireFromString("10.00")},
			{ItemIndex: "000002", ItemName: "Kabel", ItemUnit: "m", Quantity: decimal.RequireFromString("2.5"), Price: decimal.RequireFromString("3.20")},
		},
	})
	empty := dto.NewRequisitionDTO(&entities.Requisition{
		Number:          "ZAP/2024/05/17/2",
		ProjectName:     "Farma Opole",
		RequisitionType: "tool",
		Status:          "accepted",
		Deadline:        deadline,
	})

	f, err := buildRequisitionWorkbook([]*dto.RequisitionDTO{withLines, empty})
	require.NoError(t, err)

	// перечитываем файл целиком, как его получит клиент
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	read, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer read.Close()

	rows, err := read.GetRows("Zapotrzebowania")
	require.NoError(t, err)
	require.Len(t, rows, 4, "заголовок, две позиции первой заявки и строка пустой заявки")

	assert.Equal(t, requisitionExportHeaders, rows[0])

	assert.Equal(t, "ZAP/2024/05/17/1", rows[1][0])
	assert.Equal(t, "01.06.2024", rows[1][4])
	assert.Equal(t, "Panel 450W", rows[1][7])
	assert.Equal(t, "40", rows[1][11])
	assert.Equal(t, "48", rows[1][12])
	assert.Equal(t, "8", rows[2][11])

	assert.Equal(t, "ZAP/2024/05/17/2", rows[3][0])
	assert.Equal(t, "0", rows[3][12])
}
