package listmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCategory_PreservesInsertionOrder(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	require.NoError(t, m.AddCategory("Plan"))
	require.NoError(t, m.AddCategory("Completed"))

	assert.Equal(t, []string{"Reading", "Plan", "Completed"}, m.Names())
	assert.Equal(t, 1, m.Categories()[0].SortOrder)
	assert.Equal(t, 3, m.Categories()[2].SortOrder)
}

func TestAddCategory_Duplicate(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))

	err := m.AddCategory("Reading")
	assert.ErrorIs(t, err, ErrCategoryExists)
	assert.Equal(t, 1, m.Len())
}

func TestAddCategory_InvalidName(t *testing.T) {
	m := New()
	assert.Error(t, m.AddCategory(""))
	assert.Error(t, m.AddCategory("   "))

	long := make([]byte, MaxCategoryNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, m.AddCategory(string(long)))
}

func TestRenameCategory_KeepsEntriesAndPosition(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	require.NoError(t, m.AddCategory("Plan"))

	first := NewEntry("One Piece")
	second := NewEntry("Berserk")
	require.NoError(t, m.AddEntry("Reading", first))
	require.NoError(t, m.AddEntry("Reading", second))

	require.NoError(t, m.RenameCategory("Reading", "Currently Reading"))

	assert.Equal(t, []string{"Currently Reading", "Plan"}, m.Names())
	entries, ok := m.Get("Currently Reading")
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
}

func TestRenameCategory_ToExistingName(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	require.NoError(t, m.AddCategory("Plan"))

	err := m.RenameCategory("Reading", "Plan")
	assert.ErrorIs(t, err, ErrCategoryExists)
	assert.Equal(t, []string{"Reading", "Plan"}, m.Names())
}

func TestRenameCategory_SameNameIsNoOp(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	assert.NoError(t, m.RenameCategory("Reading", "Reading"))
}

func TestDeleteCategory_Missing(t *testing.T) {
	m := New()
	assert.ErrorIs(t, m.DeleteCategory("Reading"), ErrCategoryNotFound)
}

func TestMoveCategory_SwapsAdjacent(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("A"))
	require.NoError(t, m.AddCategory("B"))
	require.NoError(t, m.AddCategory("C"))

	require.NoError(t, m.MoveCategoryUp("C"))
	assert.Equal(t, []string{"A", "C", "B"}, m.Names())

	require.NoError(t, m.MoveCategoryDown("A"))
	assert.Equal(t, []string{"C", "A", "B"}, m.Names())

	// Sort orders follow the new positions.
	for i, c := range m.Categories() {
		assert.Equal(t, i+1, c.SortOrder)
	}
}

func TestMoveCategory_EdgesAreNoOps(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("A"))
	require.NoError(t, m.AddCategory("B"))

	require.NoError(t, m.MoveCategoryUp("A"))
	require.NoError(t, m.MoveCategoryDown("B"))
	assert.Equal(t, []string{"A", "B"}, m.Names())
}

func TestAddEntry_MissingCategory(t *testing.T) {
	m := New()
	err := m.AddEntry("Reading", NewEntry("One Piece"))
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestAddEntry_RejectsInvalid(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))

	bad := NewEntry("One Piece")
	bad.Chapter = MaxChapter + 1
	assert.Error(t, m.AddEntry("Reading", bad))
	assert.Equal(t, 0, m.TotalEntries())
}

func TestUpdateEntry_AppliesPatch(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	entry := NewEntry("One Piece")
	require.NoError(t, m.AddEntry("Reading", entry))

	chapter := 1100
	status := StatusCompleted
	require.NoError(t, m.UpdateEntry("Reading", entry.ID, EntryPatch{
		Chapter: &chapter,
		Status:  &status,
	}))

	entries, _ := m.Get("Reading")
	assert.Equal(t, 1100, entries[0].Chapter)
	assert.Equal(t, StatusCompleted, entries[0].Status)
	assert.Equal(t, entry.AddedAt, entries[0].AddedAt)
	assert.True(t, entries[0].LastUpdated.After(entry.LastUpdated) || entries[0].LastUpdated.Equal(entry.LastUpdated))
}

func TestUpdateEntry_InvalidPatchLeavesEntryUntouched(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	entry := NewEntry("One Piece")
	require.NoError(t, m.AddEntry("Reading", entry))

	rating := 11
	assert.Error(t, m.UpdateEntry("Reading", entry.ID, EntryPatch{UserRating: &rating}))

	entries, _ := m.Get("Reading")
	assert.Nil(t, entries[0].UserRating)
}

func TestDeleteEntry_MissingTargets(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))

	assert.ErrorIs(t, m.DeleteEntry("Reading", "nope"), ErrEntryNotFound)
	assert.ErrorIs(t, m.DeleteEntry("Nope", "nope"), ErrCategoryNotFound)
}

func TestSetImage_FindsEntryAcrossCategories(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	require.NoError(t, m.AddCategory("Plan"))
	entry := NewEntry("Naruto")
	require.NoError(t, m.AddEntry("Plan", entry))

	assert.True(t, m.SetImage(entry.ID, "http://img/naruto.jpg"))
	entries, _ := m.Get("Plan")
	assert.Equal(t, "http://img/naruto.jpg", entries[0].ImageURL)

	assert.False(t, m.SetImage("missing-id", "http://img/x.jpg"))
}

func TestSearch_MatchesNameAndAuthor(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	require.NoError(t, m.AddCategory("Completed"))

	onePiece := NewEntry("One Piece")
	onePiece.Author = "Eiichiro Oda"
	berserk := NewEntry("Berserk")
	berserk.Author = "Kentaro Miura"
	require.NoError(t, m.AddEntry("Reading", onePiece))
	require.NoError(t, m.AddEntry("Completed", berserk))

	results := m.Search("ODA")
	require.Len(t, results, 1)
	assert.Equal(t, "Reading", results[0].CategoryName)
	assert.Equal(t, "One Piece", results[0].Entry.Name)

	assert.Len(t, m.Search("e"), 2)
	assert.Nil(t, m.Search("  "))
}

func TestJSON_RoundTripPreservesOrder(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Zebra"))
	require.NoError(t, m.AddCategory("Alpha"))
	require.NoError(t, m.AddCategory("Middle"))
	require.NoError(t, m.AddEntry("Alpha", NewEntry("Berserk")))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	decoded := New()
	require.NoError(t, json.Unmarshal(data, decoded))

	assert.Equal(t, []string{"Zebra", "Alpha", "Middle"}, decoded.Names())
	entries, ok := decoded.Get("Alpha")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "Berserk", entries[0].Name)
}

func TestJSON_UnmarshalDuplicateKeysLastWins(t *testing.T) {
	m := New()
	payload := `{"Reading":[],"Plan":[],"Reading":[{"name":"One Piece","chapter":1}]}`
	require.NoError(t, json.Unmarshal([]byte(payload), m))

	// The repeated key keeps its first position but its last value, so the
	// per-list name-uniqueness invariant holds.
	assert.Equal(t, []string{"Reading", "Plan"}, m.Names())
	entries, ok := m.Get("Reading")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "One Piece", entries[0].Name)

	m.Normalize()
	assert.Equal(t, []string{"Reading", "Plan"}, m.Names())
	assert.ErrorIs(t, m.AddCategory("Reading"), ErrCategoryExists)
}

func TestJSON_UnmarshalRejectsNonObject(t *testing.T) {
	m := New()
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), m))
	assert.Error(t, json.Unmarshal([]byte(`null`), m))
	assert.Error(t, json.Unmarshal([]byte(`"hello"`), m))
}

func TestNormalize_FillsEntryDefaults(t *testing.T) {
	m := FromCategories([]Category{
		{Name: "Reading", Entries: []Entry{{Name: "One Piece"}}},
		{Name: "Plan"},
	})
	m.Normalize()

	entries, _ := m.Get("Reading")
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, PlaceholderImage, entries[0].ImageURL)
	assert.Equal(t, StatusPlanToRead, entries[0].Status)
	assert.False(t, entries[0].AddedAt.IsZero())

	planEntries, _ := m.Get("Plan")
	assert.NotNil(t, planEntries)
}

func TestClone_IsDeep(t *testing.T) {
	m := New()
	require.NoError(t, m.AddCategory("Reading"))
	entry := NewEntry("One Piece")
	require.NoError(t, m.AddEntry("Reading", entry))

	clone := m.Clone()
	require.NoError(t, clone.DeleteEntry("Reading", entry.ID))
	require.NoError(t, clone.AddCategory("Plan"))

	assert.Equal(t, 1, m.TotalEntries())
	assert.Equal(t, 1, m.Len())
}
