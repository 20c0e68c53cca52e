package main

import (
	"bytes"
	"testing"

	"github.com/ikkim/wallhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadWallpaperRows(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"path", "title", "description", "category", "tags", "uploader"},
		{"images/sunset.png", "Sunset", "orange sky", "", "sunset, ocean", "alice"},
		{"images/hero.jpg", "Hero", "", "ANIME", "", "bob"},
		{"", "no path", "", "", "", "alice"},
		{"images/x.png", "bad category", "", "cars", "", "alice"},
		{"images/y.png", "no uploader"},
	})

	rows, skipped, err := readWallpaperRows(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "images/sunset.png", rows[0].Path)
	assert.Equal(t, "alice", rows[0].Uploader)
	assert.Equal(t, model.CategoryGeneral, rows[0].Request.Category)
	assert.Equal(t, []string{"sunset", "ocean"}, rows[0].Request.Tags)

	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, model.CategoryAnime, rows[1].Request.Category)
	assert.Empty(t, rows[1].Request.Tags)
}

func TestReadWallpaperRows_InvalidFile(t *testing.T) {
	_, _, err := readWallpaperRows(bytes.NewBufferString("not a spreadsheet"))
	assert.Error(t, err)
}
