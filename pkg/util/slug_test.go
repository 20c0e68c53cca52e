package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunset", "sunset"},
		{"  Ocean  Waves ", "ocean-waves"},
		{"Deep\tSpace\nArt", "deep-space-art"},
		{"日本 風景", "日本-風景"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestNormalizeTagName(t *testing.T) {
	assert.Equal(t, "Ocean   Waves", NormalizeTagName("  Ocean   Waves "))
	assert.Equal(t, "", NormalizeTagName("   "))
	assert.Equal(t, Slugify("Ocean Waves"), Slugify(NormalizeTagName(" Ocean\t Waves")))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"go", "gin"}, SplitCSV(" go, ,gin ,"))
	assert.Nil(t, SplitCSV(""))
}

func TestGenerateUsername(t *testing.T) {
	name, err := GenerateUsername(8)
	require.NoError(t, err)
	assert.Len(t, name, len("user_")+8)
	assert.Regexp(t, `^user_[a-z0-9]{8}$`, name)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		pages int
	}{
		{"empty result still has one page", 1, 20, 0, 1},
		{"exact multiple", 1, 10, 30, 3},
		{"partial last page", 2, 10, 31, 4},
		{"zero limit falls back to default", 1, 0, 45, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.pages, p.Pages)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxLimit, limit)
	assert.Equal(t, 20, Offset(3, 10))
}
