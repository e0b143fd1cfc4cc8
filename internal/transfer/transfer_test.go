package transfer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangabook/pkg/listmap"
)

func TestParseText_TwoCategories(t *testing.T) {
	text := "Reading\n[One Piece Ch 1100](http://x/y.jpg)\nPlan\n[Naruto Ch 700](http://x/z.jpg)"

	m, warnings := ParseText(text)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"Reading", "Plan"}, m.Names())

	reading, ok := m.Get("Reading")
	require.True(t, ok)
	require.Len(t, reading, 1)
	assert.Equal(t, "One Piece", reading[0].Name)
	assert.Equal(t, 1100, reading[0].Chapter)
	assert.Equal(t, "http://x/y.jpg", reading[0].ImageURL)

	plan, ok := m.Get("Plan")
	require.True(t, ok)
	require.Len(t, plan, 1)
	assert.Equal(t, "Naruto", plan[0].Name)
	assert.Equal(t, 700, plan[0].Chapter)
	assert.Equal(t, "http://x/z.jpg", plan[0].ImageURL)
}

func TestParseText_EntryBeforeHeadingIsDroppedWithWarning(t *testing.T) {
	text := "[Orphan Ch 5](http://x/o.jpg)\nReading\n[One Piece Ch 1100](http://x/y.jpg)"

	m, warnings := ParseText(text)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Orphan")
	assert.Contains(t, warnings[0], "line 1")

	assert.Equal(t, []string{"Reading"}, m.Names())
	assert.Equal(t, 1, m.TotalEntries())
}

func TestParseText_DuplicateHeadingReopensCategory(t *testing.T) {
	text := "Reading\n[One Piece Ch 1](http://x/a.jpg)\nPlan\nReading\n[Berserk Ch 2](http://x/b.jpg)"

	m, warnings := ParseText(text)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"Reading", "Plan"}, m.Names())

	reading, _ := m.Get("Reading")
	require.Len(t, reading, 2)
	assert.Equal(t, "One Piece", reading[0].Name)
	assert.Equal(t, "Berserk", reading[1].Name)
}

func TestParseText_SkipsBlankLinesAndBadChapters(t *testing.T) {
	text := "Reading\n\n  \n[One Piece Ch 99999](http://x/a.jpg)\n[Berserk Ch 2](http://x/b.jpg)"

	m, warnings := ParseText(text)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "chapter")

	reading, _ := m.Get("Reading")
	require.Len(t, reading, 1)
	assert.Equal(t, "Berserk", reading[0].Name)
}

func TestParseText_EntriesGetFreshIDsAndDefaults(t *testing.T) {
	m, _ := ParseText("Reading\n[One Piece Ch 1100](http://x/y.jpg)")
	reading, _ := m.Get("Reading")
	require.Len(t, reading, 1)
	assert.NotEmpty(t, reading[0].ID)
	assert.Equal(t, listmap.StatusPlanToRead, reading[0].Status)
	assert.False(t, reading[0].AddedAt.IsZero())
}

func TestParseJSON_RejectsNonObjectRoot(t *testing.T) {
	_, err := ParseJSON([]byte(`[1,2,3]`))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`null`))
	assert.Error(t, err)
}

func TestParseJSON_NormalizesEntries(t *testing.T) {
	m, err := ParseJSON([]byte(`{"Reading":[{"name":"One Piece","chapter":12}]}`))
	require.NoError(t, err)

	reading, ok := m.Get("Reading")
	require.True(t, ok)
	require.Len(t, reading, 1)
	assert.NotEmpty(t, reading[0].ID)
	assert.Equal(t, listmap.PlaceholderImage, reading[0].ImageURL)
	assert.Equal(t, listmap.StatusPlanToRead, reading[0].Status)
}

func TestExportTXT_SortsEntriesAlphabetically(t *testing.T) {
	m := listmap.New()
	require.NoError(t, m.AddCategory("Reading"))

	zebra := listmap.NewEntry("Zebra Tales")
	zebra.Chapter = 3
	zebra.ImageURL = "http://x/z.jpg"
	alpha := listmap.NewEntry("alpha Omega")
	alpha.Chapter = 1
	alpha.ImageURL = "http://x/a.jpg"
	require.NoError(t, m.AddEntry("Reading", zebra))
	require.NoError(t, m.AddEntry("Reading", alpha))

	out := ExportTXT(m)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Reading", lines[0])
	assert.Equal(t, "[alpha Omega Ch 1](http://x/a.jpg)", lines[1])
	assert.Equal(t, "[Zebra Tales Ch 3](http://x/z.jpg)", lines[2])

	// The stored order stays untouched.
	entries, _ := m.Get("Reading")
	assert.Equal(t, "Zebra Tales", entries[0].Name)
}

func TestExportTXT_BlankLineBetweenCategories(t *testing.T) {
	m := listmap.New()
	require.NoError(t, m.AddCategory("Reading"))
	require.NoError(t, m.AddCategory("Plan"))

	out := ExportTXT(m)
	assert.Equal(t, "Reading\n\nPlan\n", out)
}

func TestExportTXT_RoundTripsThroughParseText(t *testing.T) {
	m := listmap.New()
	require.NoError(t, m.AddCategory("Reading"))
	entry := listmap.NewEntry("One Piece")
	entry.Chapter = 1100
	entry.ImageURL = "http://x/y.jpg"
	require.NoError(t, m.AddEntry("Reading", entry))

	parsed, warnings := ParseText(ExportTXT(m))
	assert.Empty(t, warnings)
	assert.Equal(t, m.Names(), parsed.Names())

	entries, _ := parsed.Get("Reading")
	require.Len(t, entries, 1)
	assert.Equal(t, "One Piece", entries[0].Name)
	assert.Equal(t, 1100, entries[0].Chapter)
	assert.Equal(t, "http://x/y.jpg", entries[0].ImageURL)
}

func TestExportJSON_KeepsCategoryOrder(t *testing.T) {
	m := listmap.New()
	require.NoError(t, m.AddCategory("Zebra"))
	require.NoError(t, m.AddCategory("Alpha"))

	data, err := ExportJSON(m)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	zebraIdx := strings.Index(string(data), `"Zebra"`)
	alphaIdx := strings.Index(string(data), `"Alpha"`)
	require.GreaterOrEqual(t, zebraIdx, 0)
	require.GreaterOrEqual(t, alphaIdx, 0)
	assert.Less(t, zebraIdx, alphaIdx)
}
