package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipap/mareas-service/internal/adapter/store"
	"github.com/chipap/mareas-service/internal/domain"
)

func testSnapshot() domain.Snapshot {
	temp := 22.5
	dir := 40.0
	abbrev := "NE"
	name := "Nordeste"
	grados := 45.0
	speed := 14
	precip := 0.2
	return domain.Snapshot{Datos: []domain.SnapshotRow{
		{Fecha: "2024-01-02", Hora: "00:00:00", AlturaMinima: 1.1, AlturaPromedio: 1.2, AlturaMaxima: 1.3,
			WeatherFields: domain.WeatherFields{
				Temperatura: &temp, VientoDireccion: &dir, VientoDireccionAbreviatura: &abbrev,
				VientoDireccionNombre: &name, VientoDireccionGrados: &grados, VientoKmH: &speed,
				PrecipitacionMM: &precip,
			}},
		{Fecha: "2024-01-02", Hora: "01:00:00", AlturaMinima: 0.9, AlturaPromedio: 0.9, AlturaMaxima: 0.9},
	}}
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	want := testSnapshot()
	require.NoError(t, s.Write("sf", want))

	got, err := s.Read("sf")
	require.NoError(t, err)
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// The cache file name is the historical contract.
	_, err = os.Stat(filepath.Join(dir, "marea_sf.json"))
	assert.NoError(t, err)
}

func TestFileStore_ReadMissing(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read("nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFileStore_ReadCorrupted(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marea_sf.json"), []byte("{broken"), 0o644))

	_, err = s.Read("sf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestFileStore_WriteReplacesWholesale(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write("sf", testSnapshot()))
	require.NoError(t, s.Write("sf", domain.Snapshot{Datos: []domain.SnapshotRow{
		{Fecha: "2024-01-05", Hora: "00:00:00", AlturaMinima: 2, AlturaPromedio: 2, AlturaMaxima: 2},
	}}))

	got, err := s.Read("sf")
	require.NoError(t, err)
	require.Len(t, got.Datos, 1)
	assert.Equal(t, "2024-01-05", got.Datos[0].Fecha)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Write("sf", testSnapshot()))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := store.NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
