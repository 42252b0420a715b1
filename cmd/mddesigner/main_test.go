package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/models"
)

func strp(s string) *string { return &s }

func TestSheetFileNames(t *testing.T) {
	names, err := sheetFileNames([]models.Sheet{
		{Name: strp("Login/Logout")},
		{},
		{Name: strp(`a\b`)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Login_Logout.json", "Sheet2.json", "a_b.json"}, names)
}

func TestSheetFileNames_Collision(t *testing.T) {
	tests := []struct {
		name   string
		sheets []models.Sheet
	}{
		{"sanitized", []models.Sheet{{Name: strp("a/b")}, {Name: strp("a_b")}}},
		{"case", []models.Sheet{{Name: strp("Cases")}, {Name: strp("cases")}}},
		{"default name", []models.Sheet{{Name: strp("Sheet2")}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sheetFileNames(tt.sheets)
			assert.ErrorContains(t, err, "duplicate sheet file name")
		})
	}
}

func TestWriteSheetFiles_CollisionWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sheets")
	data := &models.Data{Sheets: []models.Sheet{{Name: strp("a/b")}, {Name: strp("a_b")}}}

	require.Error(t, writeSheetFiles(data, dir))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteSheetFiles(t *testing.T) {
	dir := t.TempDir()
	data := &models.Data{Sheets: []models.Sheet{{Name: strp("One")}, {Name: strp("Two")}}}

	require.NoError(t, writeSheetFiles(data, dir))
	for _, name := range []string{"One.json", "Two.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_ConversionError(t *testing.T) {
	input := filepath.Join(t.TempDir(), "design.md")
	require.NoError(t, os.WriteFile(input, []byte("## no sheet name\n"), 0644))

	rulePath, outputPath, format, sheetsDir = "", "", "json", ""

	err := run(nil, []string{input})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mddesigner.ErrInput))
	assert.NotContains(t, err.Error(), "conversion failed")
}
