package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"academy-manager/internal/domain/training"
	"academy-manager/internal/utils"
)

// Row is one participant line read from an uploaded workbook. TrainingTitle
// is the raw cell value; matching against the catalog happens separately.
type Row struct {
	Name          string
	Phone         string
	Email         string
	TrainingTitle string
}

// Header synonyms per field, folded. Sheets come from many hands; Turkish
// and English headings both appear in the wild.
var headerSynonyms = map[string][]string{
	"name":     {"name", "full name", "ad soyad", "adi soyadi", "isim", "ad"},
	"phone":    {"phone", "phone number", "telefon", "tel", "gsm", "cep"},
	"email":    {"email", "e-mail", "mail", "eposta", "e-posta"},
	"training": {"training", "egitim", "egitim adi", "program", "kurs"},
}

// matchHeader resolves a heading cell to a field name, first match wins.
func matchHeader(cell string) (string, bool) {
	folded := utils.Fold(cell)
	if folded == "" {
		return "", false
	}
	for field, synonyms := range headerSynonyms {
		for _, syn := range synonyms {
			if folded == utils.Fold(syn) {
				return field, true
			}
		}
	}
	return "", false
}

// Parse reads the first sheet of an xlsx workbook. The first row is the
// header; unrecognized columns are ignored, rows without any value are
// skipped.
func Parse(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []Row{}, nil
	}

	// column index per field; the first matching column wins
	cols := map[string]int{}
	for i, cell := range rows[0] {
		field, ok := matchHeader(cell)
		if !ok {
			continue
		}
		if _, taken := cols[field]; !taken {
			cols[field] = i
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("no name column recognized in header row")
	}

	pick := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := []Row{}
	for _, raw := range rows[1:] {
		r := Row{
			Name:          pick(raw, "name"),
			Phone:         pick(raw, "phone"),
			Email:         pick(raw, "email"),
			TrainingTitle: pick(raw, "training"),
		}
		if r.Name == "" && r.Phone == "" && r.Email == "" && r.TrainingTitle == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// MatchTraining resolves a spreadsheet training title against the catalog:
// exact folded match first, then unique folded substring.
func MatchTraining(title string, ts []training.Training) (string, bool) {
	folded := utils.Fold(title)
	if folded == "" {
		return "", false
	}
	for _, t := range ts {
		if utils.Fold(t.Title) == folded {
			return t.ID, true
		}
	}

	matchID := ""
	for _, t := range ts {
		if strings.Contains(utils.Fold(t.Title), folded) {
			if matchID != "" {
				return "", false // ambiguous
			}
			matchID = t.ID
		}
	}
	return matchID, matchID != ""
}

// Template builds the import workbook: a header row plus one example line.
func Template() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Name", "Phone", "Email", "Training"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	example := []string{"Ada Kaya", "05551112233", "ada@example.com", "Trauma Therapy Intensive"}
	for i, v := range example {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, err
		}
	}
	return f, nil
}
