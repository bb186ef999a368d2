package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig(SeaRailWithImage)
	require.NoError(t, err)
	assert.Equal(t, 13, cfg.WeightColumn)
	assert.Equal(t, 11, cfg.BoxColumn)
	assert.True(t, cfg.CopyImages)

	cfg, err = DefaultConfig(SeaRailNoImage)
	require.NoError(t, err)
	assert.Equal(t, 13, cfg.WeightColumn)
	assert.Equal(t, 11, cfg.BoxColumn)
	assert.False(t, cfg.CopyImages)

	cfg, err = DefaultConfig(AirFreight)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.WeightColumn)
	assert.Equal(t, 13, cfg.BoxColumn)
	assert.True(t, cfg.CopyImages)

	_, err = DefaultConfig(ProcessType("bogus"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProcessConfigValidate(t *testing.T) {
	valid := ProcessConfig{ProcessType: SeaRailWithImage, WeightColumn: 13, BoxColumn: 11}
	assert.NoError(t, valid.Validate())

	cases := []ProcessConfig{
		{WeightColumn: 1, BoxColumn: 2},  // weight needs a quantity column to its left
		{WeightColumn: 13, BoxColumn: 0}, // box out of range
		{WeightColumn: 5, BoxColumn: 5},  // identical columns
	}
	for i, cfg := range cases {
		err := cfg.Validate()
		require.Error(t, err, i)
		assert.ErrorIs(t, err, ErrValidation, i)
	}
}

func TestConfigStoreRoundTrip(t *testing.T) {
	store := &ConfigStore{Dir: t.TempDir()}

	// First load before any save yields the defaults.
	configs, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, configs, 3)
	assert.Equal(t, 13, configs[SeaRailWithImage].WeightColumn)

	custom := ProcessConfig{ProcessType: AirFreight, WeightColumn: 16, BoxColumn: 14, CopyImages: false}
	require.NoError(t, store.Save(custom))

	loaded, err := store.Load(AirFreight)
	require.NoError(t, err)
	assert.Equal(t, custom, loaded)

	// Other types keep their defaults in the same store file.
	other, err := store.Load(SeaRailNoImage)
	require.NoError(t, err)
	assert.Equal(t, 13, other.WeightColumn)
	assert.False(t, other.CopyImages)
}

func TestConfigStoreRejectsInvalidSave(t *testing.T) {
	store := &ConfigStore{Dir: t.TempDir()}
	err := store.Save(ProcessConfig{ProcessType: AirFreight, WeightColumn: 1, BoxColumn: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConfigStoreLoadUnknownType(t *testing.T) {
	store := &ConfigStore{Dir: t.TempDir()}
	_, err := store.Load(ProcessType("bogus"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
