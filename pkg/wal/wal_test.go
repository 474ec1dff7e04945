package wal

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func TestAppendAndReadAll(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "journal.log"))
	require.NoError(t, err)
	defer w.Close()

	for i := 1; i <= 3; i++ {
		require.NoError(t, w.Append(entry{Seq: i, Note: "n"}))
	}

	var got []entry
	err = w.ReadAll(func(raw []byte) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Seq)
	assert.Equal(t, 3, got[2].Seq)
}

func TestReopenKeepsExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")

	w, err := Open(path, WithSyncOnWrite(false))
	require.NoError(t, err)
	require.NoError(t, w.Append(entry{Seq: 1}))
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	w, err = Open(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Append(entry{Seq: 2}))

	count := 0
	require.NoError(t, w.ReadAll(func([]byte) error {
		count++
		return nil
	}))
	assert.Equal(t, 2, count)
}

func TestReadSessionSkipsPreviousRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(entry{Seq: 1, Note: "previous run"}))
	require.NoError(t, w.Close())

	w, err = Open(path)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Append(entry{Seq: 2}))
	require.NoError(t, w.Append(entry{Seq: 3}))

	var seqs []int
	require.NoError(t, w.ReadSession(func(raw []byte) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		seqs = append(seqs, e.Seq)
		return nil
	}))
	assert.Equal(t, []int{2, 3}, seqs)

	// 讀取後仍可繼續寫入 (O_APPEND)
	require.NoError(t, w.Append(entry{Seq: 4}))
	count := 0
	require.NoError(t, w.ReadAll(func([]byte) error {
		count++
		return nil
	}))
	assert.Equal(t, 4, count)
}

func TestReadAllStopsOnCallbackError(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "journal.log"))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Append(entry{Seq: 1}))
	require.NoError(t, w.Append(entry{Seq: 2}))

	boom := errors.New("boom")
	calls := 0
	err = w.ReadAll(func([]byte) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestOpenInvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "journal.log"))
	assert.Error(t, err)
}
