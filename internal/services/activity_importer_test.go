package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGroupActivityRows(t *testing.T) {
	rows := [][]string{
		{"Zona", "Rząd", "Numer stołu", "Ilość modułów", "Typ"},
		{"2", "1", "T3", "28", "A"},
		{"1", "2", "T2", "26", "A"},
		{"1", "1", "T1", "28", "A"},
		{"1", "1", "T4", "26", "A"},
		{"10", "1", "T5", "28", "B"},
		{"", "1", "T6", "28", "B"},
	}

	records := GroupActivityRows(rows)
	require.Len(t, records, 4)

	// числовая сортировка: 10 после 2
	order := make([][2]interface{}, 0, len(records))
	for _, r := range records {
		order = append(order, [2]interface{}{r["zona"], r["rzad"]})
	}
	assert.Equal(t, [][2]interface{}{
		{int64(1), int64(1)},
		{int64(1), int64(2)},
		{int64(2), int64(1)},
		{int64(10), int64(1)},
	}, order)

	first := records[0]
	assert.Equal(t, "A", first["typ"])
	assert.Equal(t, []interface{}{"T1", "T4"}, first["numer_stołu"])
	assert.Equal(t, []interface{}{int64(28), int64(26)}, first["ilość_modułów"])
	assert.Equal(t, []map[string]interface{}{
		{"numer_stolu": "T1", "ilosc_modulow": int64(28)},
		{"numer_stolu": "T4", "ilosc_modulow": int64(26)},
	}, first["stoly"])
	assert.NotContains(t, first, "stoly_struktura")
}

func TestGroupActivityRows_StructureColumns(t *testing.T) {
	rows := [][]string{
		{"Zona", "Rząd", "Numer stołu", "Przedłużki", "Płatwie"},
		{"1", "1", "T1", "2", "4,5"},
		{"1", "1", "T2", "", "4"},
	}

	records := GroupActivityRows(rows)
	require.Len(t, records, 1)
	assert.Equal(t, []map[string]interface{}{
		{"numer_stolu": "T1", "przedłużki": int64(2), "płatwie": 4.5},
		{"numer_stolu": "T2", "płatwie": int64(4)},
	}, records[0]["stoly_struktura"])
	assert.NotContains(t, records[0], "stoly")
}

func TestGroupActivityRows_MissingKeyColumns(t *testing.T) {
	assert.Empty(t, GroupActivityRows(nil))
	assert.Empty(t, GroupActivityRows([][]string{{"Zona", "Opis"}, {"1", "x"}}))
}

func workbook(t *testing.T, projectType string, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Info"))
	require.NoError(t, f.SetCellValue("Info", "A1", "Farma Kowalewo"))
	require.NoError(t, f.SetCellValue("Info", "A2", projectType))
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestConvertActivityWorkbook_Ground(t *testing.T) {
	buf := workbook(t, "Ground", map[string][][]interface{}{
		"Moduły": {
			{"Zona", "Rząd", "Numer stołu", "Ilość modułów"},
			{1, 1, "T1", 28},
		},
		"Transport kabli": {
			{"Zona", "Rząd", "Długość"},
			{1, 1, 120},
		},
		"Konstrukcja - Stal": {
			{"Zona", "Rząd", "Numer stołu", "Belki główne"},
			{1, 1, "T1", 2},
		},
	})

	config, err := ConvertActivityWorkbook(buf)
	require.NoError(t, err)

	assert.Equal(t, "Farma Kowalewo", config["nazwa_projektu"])
	assert.Equal(t, "Ground", config["typ_projektu"])
	assert.NotContains(t, config, "logistyka")
	require.Contains(t, config, "moduly")
	assert.Len(t, config["moduly"], 1)

	transport, ok := config["transport"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, transport, "kabli")
	assert.NotContains(t, transport, "konstrukcji")

	construction, ok := config["konstrukcja"].(map[string]interface{})
	require.True(t, ok)
	steel, ok := construction["stal"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, steel, 1)
	assert.Equal(t, []map[string]interface{}{
		{"numer_stolu": "T1", "belki_główne": int64(2)},
	}, steel[0]["stoly_struktura"])
}

func TestConvertActivityWorkbook_Floating(t *testing.T) {
	config, err := ConvertActivityWorkbook(workbook(t, "Floating", nil))
	require.NoError(t, err)
	assert.Equal(t, "Floating", config["typ_projektu"])
	assert.Contains(t, config, "message")
}

func TestConvertActivityWorkbook_UnknownType(t *testing.T) {
	_, err := ConvertActivityWorkbook(workbook(t, "Dach", nil))
	assert.True(t, errors.Is(err, ErrUnknownProjectType))
}

func TestConvertActivityWorkbook_NotAWorkbook(t *testing.T) {
	_, err := ConvertActivityWorkbook(bytes.NewBufferString("to nie jest plik xlsx"))
	assert.Error(t, err)
}
