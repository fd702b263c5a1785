package services

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	infoSheet           = "Info"
	projectTypeGround   = "Ground"
	projectTypeFloating = "Floating"

	columnZona    = "Zona"
	columnRow     = "Rząd"
	columnTable   = "Numer stołu"
	columnModules = "Ilość modułów"
)

var (
	// Стандартные листы наземного проекта и ключи документа.
	groundSheets = []struct{ sheet, key string }{
		{"Logistyka", "logistyka"},
		{"Moduły", "moduly"},
	}
	transportSheets = []struct{ sheet, key string }{
		{"Transport kabli", "kabli"},
		{"Transport konstrukcji", "konstrukcji"},
	}
	constructionSheet = regexp.MustCompile(`^Konstrukcja - (.+)$`)
	structureColumns  = []string{"Przedłużki", "Belki główne", "Stężenia ukośne", "Płatwie"}

	ErrUnknownProjectType = errors.New("nieznany typ projektu")
)

// ConvertActivityWorkbook строит конфигурацию активностей проекта из книги Excel.
// Лист Info: A1 - название проекта, A2 - тип (Ground/Floating).
func ConvertActivityWorkbook(r io.Reader) (map[string]interface{}, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	name, err := f.GetCellValue(infoSheet, "A1")
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %s: %w", infoSheet, err)
	}
	projectType, err := f.GetCellValue(infoSheet, "A2")
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %s: %w", infoSheet, err)
	}

	switch strings.TrimSpace(projectType) {
	case projectTypeGround:
		return convertGround(f, typedCell(name))
	case projectTypeFloating:
		return map[string]interface{}{
			"nazwa_projektu": typedCell(name),
			"typ_projektu":   projectTypeFloating,
			"message":        "Struktura dla projektu typu Floating nie została jeszcze zaimplementowana.",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s. Dostępne typy: Ground, Floating", ErrUnknownProjectType, projectType)
	}
}

func convertGround(f *excelize.File, name interface{}) (map[string]interface{}, error) {
	result := map[string]interface{}{
		"nazwa_projektu": name,
		"typ_projektu":   projectTypeGround,
	}
	sheets := make(map[string]bool)
	for _, s := range f.GetSheetList() {
		sheets[s] = true
	}

	for _, gs := range groundSheets {
		if !sheets[gs.sheet] {
			continue
		}
		records, err := sheetRecords(f, gs.sheet)
		if err != nil {
			return nil, err
		}
		result[gs.key] = records
	}

	transport := make(map[string]interface{})
	for _, ts := range transportSheets {
		if !sheets[ts.sheet] {
			continue
		}
		records, err := sheetRecords(f, ts.sheet)
		if err != nil {
			return nil, err
		}
		transport[ts.key] = records
	}
	if len(transport) > 0 {
		result["transport"] = transport
	}

	construction := make(map[string]interface{})
	for _, sheet := range f.GetSheetList() {
		m := constructionSheet.FindStringSubmatch(sheet)
		if m == nil {
			continue
		}
		records, err := sheetRecords(f, sheet)
		if err != nil {
			return nil, err
		}
		construction[strings.ToLower(m[1])] = records
	}
	result["konstrukcja"] = construction
	return result, nil
}

func sheetRecords(f *excelize.File, sheet string) ([]map[string]interface{}, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать лист %s: %w", sheet, err)
	}
	return GroupActivityRows(rows), nil
}

type rowGroup struct {
	zona, row interface{}
	rows      [][]string
}

// GroupActivityRows группирует строки листа по (Zona, Rząd). Первая строка - заголовок.
// Без колонок Zona или Rząd возвращается пустой список.
func GroupActivityRows(rows [][]string) []map[string]interface{} {
	records := []map[string]interface{}{}
	if len(rows) < 2 {
		return records
	}
	header := rows[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	zonaIdx, okZ := col[columnZona]
	rowIdx, okR := col[columnRow]
	if !okZ || !okR {
		return records
	}

	groups := make(map[string]*rowGroup)
	var order []*rowGroup
	for _, r := range rows[1:] {
		zona, row := cell(r, zonaIdx), cell(r, rowIdx)
		if zona == "" || row == "" {
			continue
		}
		key := zona + "\x00" + row
		g, ok := groups[key]
		if !ok {
			g = &rowGroup{zona: typedCell(zona), row: typedCell(row)}
			groups[key] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, r)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if c := compareCells(order[i].zona, order[j].zona); c != 0 {
			return c < 0
		}
		return compareCells(order[i].row, order[j].row) < 0
	})

	for _, g := range order {
		record := map[string]interface{}{"zona": g.zona, "rzad": g.row}
		for i, h := range header {
			name := strings.TrimSpace(h)
			if name == "" || i == zonaIdx || i == rowIdx {
				continue
			}
			var values []interface{}
			distinct := make(map[string]bool)
			for _, r := range g.rows {
				v := cell(r, i)
				if v == "" {
					continue
				}
				values = append(values, typedCell(v))
				distinct[v] = true
			}
			switch {
			case len(values) == 0:
			case len(distinct) == 1:
				record[snakeKey(name)] = values[0]
			default:
				record[snakeKey(name)] = values
			}
		}
		if tables := tableModules(g.rows, col); len(tables) > 0 {
			record["stoly"] = tables
		}
		if tables := tableStructure(g.rows, col); len(tables) > 0 {
			record["stoly_struktura"] = tables
		}
		records = append(records, record)
	}
	return records
}

func tableModules(rows [][]string, col map[string]int) []map[string]interface{} {
	tIdx, okT := col[columnTable]
	mIdx, okM := col[columnModules]
	if !okT || !okM {
		return nil
	}
	var tables []map[string]interface{}
	for _, r := range rows {
		table, modules := cell(r, tIdx), cell(r, mIdx)
		if table == "" || modules == "" {
			continue
		}
		tables = append(tables, map[string]interface{}{
			"numer_stolu":   typedCell(table),
			"ilosc_modulow": typedCell(modules),
		})
	}
	return tables
}

func tableStructure(rows [][]string, col map[string]int) []map[string]interface{} {
	tIdx, ok := col[columnTable]
	if !ok {
		return nil
	}
	present := false
	for _, c := range structureColumns {
		if _, ok := col[c]; ok {
			present = true
			break
		}
	}
	if !present {
		return nil
	}
	var tables []map[string]interface{}
	for _, r := range rows {
		table := cell(r, tIdx)
		if table == "" {
			continue
		}
		entry := map[string]interface{}{"numer_stolu": typedCell(table)}
		for _, c := range structureColumns {
			idx, ok := col[c]
			if !ok {
				continue
			}
			if v := cell(r, idx); v != "" {
				entry[snakeKey(c)] = typedCell(v)
			}
		}
		tables = append(tables, entry)
	}
	return tables
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// typedCell превращает числовые ячейки в int64 или float64.
func typedCell(v string) interface{} {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64); err == nil {
		return f
	}
	return v
}

func compareCells(a, b interface{}) int {
	fa, aNum := asFloat(a)
	fb, bNum := asFloat(b)
	switch {
	case aNum && bNum:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// snakeKey: "Ilość modułów" -> "ilość_modułów".
func snakeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
