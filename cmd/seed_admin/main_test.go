package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	tx := memory.NewTxRunner(s)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	created, err := seedAdmin(ctx, tx, adminInput{Email: " Root@PDV.com ", Password: "supersecreta", Name: "Root"}, now)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := s.Repos().Users.GetByEmail(ctx, "root@pdv.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.True(t, u.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("supersecreta")))

	c, err := s.Repos().Companies.GetByCNPJ(ctx, platformCNPJ)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, c.ID, u.CompanyID)
	assert.True(t, c.IsApproved())

	// Segunda ejecución: no duplica.
	created, err = seedAdmin(ctx, tx, adminInput{Email: "root@pdv.com", Password: "otraclave123"}, now)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedAdmin_InvalidInput(t *testing.T) {
	s := memory.NewStore()
	_, err := seedAdmin(context.Background(), memory.NewTxRunner(s), adminInput{Email: "a@b.com", Password: "corta"}, time.Now())
	assert.Error(t, err)
}
