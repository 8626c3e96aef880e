package numbering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/domain/numbering"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "VND-000001", numbering.Format(numbering.KindSale, 1))
	assert.Equal(t, "ENT-000045", numbering.Format(numbering.KindEntry, 45))
	assert.Equal(t, "VND-1234567", numbering.Format(numbering.KindSale, 1234567))
}

func TestParse(t *testing.T) {
	n, err := numbering.Parse(numbering.KindSale, "VND-000123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), n)

	_, err = numbering.Parse(numbering.KindSale, "ENT-000123")
	assert.Error(t, err)
	_, err = numbering.Parse(numbering.KindEntry, "ENT-12a")
	assert.Error(t, err)
}

func TestSeedFrom(t *testing.T) {
	assert.Equal(t, int64(0), numbering.SeedFrom(numbering.KindSale, ""))
	assert.Equal(t, int64(41), numbering.SeedFrom(numbering.KindEntry, "ENT-000041"))
	assert.Equal(t, int64(0), numbering.SeedFrom(numbering.KindEntry, "basura"))
}

func TestKind(t *testing.T) {
	assert.True(t, numbering.KindSale.Valid())
	assert.False(t, numbering.Kind("invoice").Valid())
}
