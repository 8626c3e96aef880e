package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/application/auth"
	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/infrastructure/memory"
	tu "github.com/jhoicas/pdv-api/internal/testutil"
	"github.com/jhoicas/pdv-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "pdv-api"}

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	return auth.NewAuthUseCase(memory.NewTxRunner(s), s.Repos(), jwtCfg, zerolog.Nop()).WithClock(tu.Clock), s
}

func registerReq() dto.RegisterCompanyRequest {
	return dto.RegisterCompanyRequest{
		CNPJ:          "11.222.333/0001-81",
		LegalName:     "Mercadinho Bom Preço LTDA",
		OwnerName:     "Carlos Souza",
		Email:         "Carlos@BomPreco.com.br",
		OwnerPassword: "segredo123",
	}
}

func approve(t *testing.T, s *memory.Store, companyID string) {
	t.Helper()
	ctx := context.Background()
	c, err := s.Repos().Companies.GetByID(ctx, companyID)
	require.NoError(t, err)
	require.NoError(t, c.ChangeStatus(entity.CompanyApproved, "admin", "", tu.Now))
	require.NoError(t, s.Repos().Companies.Update(ctx, c))
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterCompany_PendingWithOwner(t *testing.T) {
	uc, _ := newAuth(t)
	out, err := uc.RegisterCompany(context.Background(), registerReq())
	require.NoError(t, err)

	assert.Equal(t, "pending", out.Company.Status)
	assert.Equal(t, "11222333000181", out.Company.CNPJ)
	assert.Equal(t, entity.PlanBasic, out.Company.Plan)
	assert.Equal(t, "owner", out.Owner.Role)
	assert.Equal(t, "carlos@bompreco.com.br", out.Owner.Email)
	assert.Contains(t, out.Owner.Permissions, string(entity.PermManageUsers))
}

func TestRegisterCompany_Duplicates(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterCompany(ctx, registerReq())
	require.NoError(t, err)

	_, err = uc.RegisterCompany(ctx, registerReq())
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	other := registerReq()
	other.CNPJ = "11.444.777/0001-61"
	_, err = uc.RegisterCompany(ctx, other)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterCompany_InvalidCNPJ(t *testing.T) {
	uc, _ := newAuth(t)
	in := registerReq()
	in.CNPJ = "11.222.333/0001-82"
	_, err := uc.RegisterCompany(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cnpj", verr.Fields[0].Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_RequiresApprovedCompany(t *testing.T) {
	uc, s := newAuth(t)
	ctx := context.Background()
	reg, err := uc.RegisterCompany(ctx, registerReq())
	require.NoError(t, err)

	login := dto.LoginRequest{Email: "carlos@bompreco.com.br", Password: "segredo123"}
	_, err = uc.Login(ctx, login)
	assert.ErrorIs(t, err, domain.ErrCompanyNotApproved)

	approve(t, s, reg.Company.ID)
	out, err := uc.Login(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, 3600, out.ExpiresIn)
	require.NotNil(t, out.User.LastLoginAt)

	claims, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Owner.ID, claims.UserID)
	assert.Equal(t, reg.Company.ID, claims.CompanyID)
	assert.Equal(t, "owner", claims.Role)
}

func TestLogin_BadCredentialsAndInactiveUser(t *testing.T) {
	uc, s := newAuth(t)
	ctx := context.Background()
	reg, err := uc.RegisterCompany(ctx, registerReq())
	require.NoError(t, err)
	approve(t, s, reg.Company.ID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "carlos@bompreco.com.br", Password: "errada123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := s.Repos().Users.GetByID(ctx, reg.Owner.ID)
	require.NoError(t, err)
	u.Active = false
	require.NoError(t, s.Repos().Users.Update(ctx, u))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "carlos@bompreco.com.br", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe(t *testing.T) {
	uc, s := newAuth(t)
	tn := tu.NewTenant(t, s)

	me, err := uc.Me(context.Background(), tn.Employee)
	require.NoError(t, err)
	assert.Equal(t, "employee", me.User.Role)
	assert.NotContains(t, me.User.Permissions, string(entity.PermCancelSales))
	require.NotNil(t, me.Company)
	assert.Equal(t, tn.Company.ID, me.Company.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve: identidad vigente por request
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_UsesStoredState(t *testing.T) {
	uc, s := newAuth(t)
	ctx := context.Background()
	tn := tu.NewTenant(t, s)

	caller, err := uc.Resolve(ctx, tn.Employee.UserID)
	require.NoError(t, err)
	assert.Equal(t, tn.Employee, caller)

	// rol almacenado manda
	u, err := s.Repos().Users.GetByID(ctx, tn.Employee.UserID)
	require.NoError(t, err)
	u.Role = entity.RoleOwner
	require.NoError(t, s.Repos().Users.Update(ctx, u))
	caller, err = uc.Resolve(ctx, tn.Employee.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, caller.Role)

	u.Active = false
	require.NoError(t, s.Repos().Users.Update(ctx, u))
	_, err = uc.Resolve(ctx, tn.Employee.UserID)
	assert.ErrorIs(t, err, domain.ErrUserInactive)

	_, err = uc.Resolve(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResolve_CompanyMustBeApproved(t *testing.T) {
	uc, s := newAuth(t)
	ctx := context.Background()
	tn := tu.NewTenant(t, s)
	admin := tu.Admin(t, s)

	c, err := s.Repos().Companies.GetByID(ctx, tn.Company.ID)
	require.NoError(t, err)
	require.NoError(t, c.ChangeStatus(entity.CompanyInactive, admin.UserID, "baja", tu.Now))
	require.NoError(t, s.Repos().Companies.Update(ctx, c))

	_, err = uc.Resolve(ctx, tn.Owner.UserID)
	assert.ErrorIs(t, err, domain.ErrCompanyNotApproved)

	// el admin no depende del estado de su empresa
	c, err = s.Repos().Companies.GetByID(ctx, admin.CompanyID)
	require.NoError(t, err)
	require.NoError(t, c.ChangeStatus(entity.CompanyInactive, admin.UserID, "baja", tu.Now))
	require.NoError(t, s.Repos().Companies.Update(ctx, c))
	caller, err := uc.Resolve(ctx, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, caller.Role)
}
