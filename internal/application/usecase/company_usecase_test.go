package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/application/usecase"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
)

func pendingCompany(t *testing.T, s *memory.Store) *entity.Company {
	t.Helper()
	tn := tu.NewTenant(t, s)
	c := tn.Company
	c.Status = entity.CompanyPending
	require.NoError(t, s.Repos().Companies.Update(context.Background(), c))
	return c
}

func TestCompany_ApprovalFlow(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewCompanyUseCase(s.Repos().Companies, zerolog.Nop()).WithClock(tu.Clock)
	admin := tu.Admin(t, s)
	ctx := context.Background()
	c := pendingCompany(t, s)

	pending, err := uc.List(ctx, admin, "pending", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, c.ID, pending.Items[0].ID)

	out, err := uc.Approve(ctx, admin, c.ID, dto.CompanyStatusRequest{})
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)
	require.NotNil(t, out.ApprovedAt)

	_, err = uc.Reject(ctx, admin, c.ID, dto.CompanyStatusRequest{Reason: "tarde"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "approved no puede pasar a rejected")

	out, err = uc.Deactivate(ctx, admin, c.ID, dto.CompanyStatusRequest{Reason: "inadimplente"})
	require.NoError(t, err)
	assert.Equal(t, "inactive", out.Status)
	assert.Equal(t, "inadimplente", out.StatusReason)

	out, err = uc.Reactivate(ctx, admin, c.ID, dto.CompanyStatusRequest{})
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)
}

func TestCompany_OnlyAdmin(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewCompanyUseCase(s.Repos().Companies, zerolog.Nop())
	ctx := context.Background()
	tn := tu.NewTenant(t, s)
	c := pendingCompany(t, s)

	_, err := uc.Approve(ctx, tn.Owner, c.ID, dto.CompanyStatusRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.List(ctx, tn.Owner, "", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	own, err := uc.GetByID(ctx, tn.Owner, tn.Company.ID)
	require.NoError(t, err)
	assert.Equal(t, tn.Company.ID, own.ID)
	_, err = uc.GetByID(ctx, tn.Owner, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Approve(ctx, tu.Admin(t, s), "no-existe", dto.CompanyStatusRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
