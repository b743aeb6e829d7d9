package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

func sampleRecords() []domain.JournalRecord {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return []domain.JournalRecord{
		{ID: "a", Timestamp: base, Description: "list files", Command: "ls -la", Model: "m", Success: true},
		{ID: "b", Timestamp: base.Add(time.Minute), Description: "disk usage", Command: "du -sh .", Model: "m", Success: true},
		{ID: "c", Timestamp: base.Add(2 * time.Minute), Description: "fail", Command: "exit 3", Model: "m", ExitCode: 3},
	}
}

func exerciseStore(t *testing.T, store ports.JournalRepository) {
	t.Helper()
	for _, rec := range sampleRecords() {
		require.NoError(t, store.Save(rec))
	}

	all, err := store.Records(0, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID, "newest first")
	assert.Equal(t, 3, all[0].ExitCode)
	assert.False(t, all[0].Success)
	assert.True(t, all[2].Success)

	limited, err := store.Records(2, "")
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	found, err := store.Records(0, "du -sh")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "disk usage", found[0].Description)

	searches := []struct {
		search string
		want   []string
	}{
		{search: "DISK", want: []string{"b"}},
		{search: "Ls -LA", want: []string{"a"}},
		{search: "%", want: []string{"d"}},
		{search: "_", want: nil},
		{search: "s", want: []string{"d", "b", "a"}},
	}
	require.NoError(t, store.Save(domain.JournalRecord{
		ID:          "d",
		Timestamp:   sampleRecords()[2].Timestamp.Add(time.Minute),
		Description: "cpu stats",
		Command:     "top -bn1 | grep '%Cpu'",
	}))
	for _, tt := range searches {
		got, err := store.Records(0, tt.search)
		require.NoError(t, err)
		var ids []string
		for _, rec := range got {
			ids = append(ids, rec.ID)
		}
		assert.Equal(t, tt.want, ids, "search %q", tt.search)
	}

	limitedSearch, err := store.Records(1, "s")
	require.NoError(t, err)
	require.Len(t, limitedSearch, 1)
	assert.Equal(t, "d", limitedSearch[0].ID)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "journal", "history.db"))
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store)

	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "history.jsonl")))
}

func TestFileStoreMissingFile(t *testing.T) {
	records, err := NewFileStore(filepath.Join(t.TempDir(), "none.jsonl")).Records(0, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteStoreUnusablePathReportsError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	// The parent "directory" is a regular file, so neither sqlite nor MkdirAll can use it.
	store := NewSQLiteStore(filepath.Join(blocker, "history.db"))
	err := store.Save(sampleRecords()[0])
	assert.Error(t, err)
}
