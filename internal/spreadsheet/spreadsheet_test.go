package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"academy-manager/internal/domain/training"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseMatchesTurkishHeaders(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"Ad Soyad", "Telefon", "E-Posta", "Eğitim"},
		{"Ada Kaya", "0555", "ada@example.com", "Trauma Therapy"},
		{"Bora Demir", "", "", ""},
	})

	rows, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada Kaya", rows[0].Name)
	assert.Equal(t, "ada@example.com", rows[0].Email)
	assert.Equal(t, "Trauma Therapy", rows[0].TrainingTitle)
	assert.Equal(t, "Bora Demir", rows[1].Name)
}

func TestParseSkipsEmptyRowsAndUnknownColumns(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"Name", "Shoe Size", "Email"},
		{"Ada", "42", "ada@example.com"},
		{"", "", ""},
	})

	rows, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0].Name)
	assert.Empty(t, rows[0].Phone)
}

func TestParseRequiresNameColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"Telefon", "Email"},
		{"0555", "x@example.com"},
	})

	_, err := Parse(buf)
	assert.Error(t, err)
}

func TestParseFirstMatchingColumnWins(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"Name", "Isim"},
		{"First", "Second"},
	})

	rows, err := Parse(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "First", rows[0].Name)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte("not an xlsx")))
	assert.Error(t, err)
}

func TestMatchTraining(t *testing.T) {
	ts := []training.Training{
		{ID: "t1", Title: "Trauma Therapy Intensive"},
		{ID: "t2", Title: "EMDR Temel Eğitimi"},
		{ID: "t3", Title: "EMDR İleri Eğitimi"},
	}

	id, ok := MatchTraining("trauma therapy intensive", ts)
	require.True(t, ok)
	assert.Equal(t, "t1", id)

	// folded match tolerates diacritics
	id, ok = MatchTraining("emdr temel egitimi", ts)
	require.True(t, ok)
	assert.Equal(t, "t2", id)

	// unique substring resolves
	id, ok = MatchTraining("trauma", ts)
	require.True(t, ok)
	assert.Equal(t, "t1", id)

	// ambiguous substring does not
	_, ok = MatchTraining("emdr", ts)
	assert.False(t, ok)

	_, ok = MatchTraining("", ts)
	assert.False(t, ok)
}

func TestTemplateRoundTrips(t *testing.T) {
	f, err := Template()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada Kaya", rows[0].Name)
}
