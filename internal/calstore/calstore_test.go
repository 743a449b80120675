package calstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndList(t *testing.T) {
	db := openTestDB(t)

	start, end := 12, 250
	mf := &MasterFlat{
		Instrument:  "KOSMOS",
		NFrames:     9,
		NX:          2048,
		NY:          239,
		IllumStart:  &start,
		IllumEnd:    &end,
		Threshold:   0.9,
		ResponseCor: true,
		Smooth:      false,
		NPix:        11,
		OutputPath:  "/data/cal/flat.fits",
	}
	require.NoError(t, db.RecordMasterFlat(mf))
	assert.NotEmpty(t, mf.ID, "an id should be assigned")

	flats, err := db.ListMasterFlats(10)
	require.NoError(t, err)
	require.Len(t, flats, 1)

	got := flats[0]
	assert.Equal(t, mf.ID, got.ID)
	assert.Equal(t, "KOSMOS", got.Instrument)
	assert.Equal(t, 9, got.NFrames)
	assert.Equal(t, 2048, got.NX)
	require.NotNil(t, got.IllumStart)
	assert.Equal(t, 12, *got.IllumStart)
	require.NotNil(t, got.IllumEnd)
	assert.Equal(t, 250, *got.IllumEnd)
	assert.True(t, got.ResponseCor)
	assert.Equal(t, "/data/cal/flat.fits", got.OutputPath)
}

func TestRecordWithoutIllum(t *testing.T) {
	db := openTestDB(t)

	mf := &MasterFlat{Instrument: "DIS", NFrames: 3, NX: 2048, NY: 1028}
	require.NoError(t, db.RecordMasterFlat(mf))

	flats, err := db.ListMasterFlats(0)
	require.NoError(t, err)
	require.Len(t, flats, 1)
	assert.Nil(t, flats[0].IllumStart)
	assert.Nil(t, flats[0].IllumEnd)
}

func TestExplicitID(t *testing.T) {
	db := openTestDB(t)

	mf := &MasterFlat{ID: "run-0001", Instrument: "KOSMOS"}
	require.NoError(t, db.RecordMasterFlat(mf))
	assert.Equal(t, "run-0001", mf.ID)

	// duplicate ids are rejected by the primary key
	dup := &MasterFlat{ID: "run-0001"}
	require.Error(t, db.RecordMasterFlat(dup))
}

func TestMigrateAndRecordInputFiles(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.MigrateUp(filepath.Join("..", "..", "migrations")))

	version, dirty, err := db.MigrateVersion(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	mf := &MasterFlat{Instrument: "KOSMOS"}
	require.NoError(t, db.RecordMasterFlat(mf))
	require.NoError(t, db.RecordInputFiles(mf.ID, []string{"a.fits", "b.fits"}))

	var files string
	require.NoError(t, db.QueryRow(
		`SELECT input_files FROM master_flats WHERE id = ?`, mf.ID).Scan(&files))
	assert.Equal(t, "a.fits,b.fits", files)
}
