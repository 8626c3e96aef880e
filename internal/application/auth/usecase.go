package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/pkg/brdoc"
	"github.com/jhoicas/pdv-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de empresa, login y perfil.
type AuthUseCase struct {
	tx     repository.TxRunner
	repos  repository.Repos
	jwtCfg JWTConfig
	log    zerolog.Logger
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx repository.TxRunner, repos repository.Repos, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{tx: tx, repos: repos, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// RegisterCompany crea la empresa en estado pending junto con su usuario owner.
// Devuelve ErrDuplicate si el CNPJ o el email de la empresa ya existen y ErrEmailAlreadyExists si el email del owner está tomado.
func (uc *AuthUseCase) RegisterCompany(ctx context.Context, in dto.RegisterCompanyRequest) (*dto.RegisterCompanyResponse, error) {
	if err := brdoc.ValidateCNPJ(in.CNPJ); err != nil {
		return nil, domain.NewValidationError("cnpj", err.Error())
	}
	plan := in.Plan
	if plan == "" {
		plan = entity.PlanBasic
	}
	if !entity.ValidPlan(plan) {
		return nil, domain.NewValidationError("plan", "plan no soportado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	email := strings.ToLower(strings.TrimSpace(in.Email))
	company := &entity.Company{
		ID:        uuid.New().String(),
		CNPJ:      brdoc.Digits(in.CNPJ),
		LegalName: in.LegalName,
		TradeName: in.TradeName,
		OwnerName: in.OwnerName,
		Email:     email,
		Phone:     in.Phone,
		Status:    entity.CompanyPending,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Name:         in.OwnerName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleOwner,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(tx repository.Repos) error {
		existing, err := tx.Companies.GetByCNPJ(ctx, company.CNPJ)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if u, err := tx.Users.GetByEmail(ctx, email); err != nil {
			return err
		} else if u != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := tx.Companies.Create(ctx, company); err != nil {
			return err
		}
		return tx.Users.Create(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("cnpj", company.CNPJ).Msg("empresa registrada, pendiente de aprobación")
	return &dto.RegisterCompanyResponse{
		Company: *dto.NewCompanyResponse(company),
		Owner:   *dto.NewUserResponse(owner),
	}, nil
}

// Login verifica email/password, exige usuario activo y empresa aprobada (salvo admin) y emite el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.repos.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	company, err := uc.repos.Companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if user.Role != entity.RoleAdmin && !company.IsApproved() {
		return nil, domain.ErrCompanyNotApproved
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.repos.Users.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	uc.log.Info().Str("user_id", user.ID).Str("company_id", user.CompanyID).Msg("login")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *dto.NewUserResponse(user),
		Company:   dto.NewCompanyResponse(company),
	}, nil
}

// Me devuelve el usuario autenticado con sus permisos y su empresa.
func (uc *AuthUseCase) Me(ctx context.Context, caller entity.Caller) (*dto.MeResponse, error) {
	user, err := uc.repos.Users.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUserNotFound
	}
	company, err := uc.repos.Companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: *dto.NewUserResponse(user), Company: dto.NewCompanyResponse(company)}, nil
}

// Resolve recarga la identidad del token desde el store: usuario existente y activo,
// rol vigente y empresa aprobada (salvo admin). Un token emitido antes de desactivar
// o degradar al usuario deja de valer en la siguiente request.
func (uc *AuthUseCase) Resolve(ctx context.Context, userID string) (entity.Caller, error) {
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return entity.Caller{}, err
	}
	if user == nil {
		return entity.Caller{}, domain.ErrUserNotFound
	}
	if !user.Active {
		return entity.Caller{}, domain.ErrUserInactive
	}
	caller := entity.Caller{UserID: user.ID, CompanyID: user.CompanyID, Role: user.Role}
	if caller.IsAdmin() {
		return caller, nil
	}
	company, err := uc.repos.Companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		return entity.Caller{}, err
	}
	if company == nil || !company.IsApproved() {
		return entity.Caller{}, domain.ErrCompanyNotApproved
	}
	return caller, nil
}
