package usecase

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
)

// UserUseCase gestión de usuarios de una empresa.
// Los permisos no se guardan: se derivan del rol, así que cambiar el rol los recalcula.
type UserUseCase struct {
	repo repository.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UserUseCase) WithClock(now func() time.Time) *UserUseCase {
	uc.now = now
	return uc
}

// Create crea un usuario en la empresa. Solo un admin puede crear admins.
func (uc *UserUseCase) Create(ctx context.Context, caller entity.Caller, companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	role := entity.Role(in.Role)
	if err := checkRole(caller, role); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         in.Name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("user_id", user.ID).Str("role", in.Role).Msg("usuario creado")
	return dto.NewUserResponse(user), nil
}

// GetByID obtiene un usuario de la empresa del caller.
func (uc *UserUseCase) GetByID(ctx context.Context, caller entity.Caller, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// List usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, caller entity.Caller, companyID string, page dto.PageRequest) (*dto.UserListResponse, error) {
	if !caller.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *dto.NewUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Update cambios parciales: nombre, rol, password y activo.
func (uc *UserUseCase) Update(ctx context.Context, caller entity.Caller, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if user.Role == entity.RoleAdmin && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		role := entity.Role(*in.Role)
		if err := checkRole(caller, role); err != nil {
			return nil, err
		}
		if user.ID == caller.UserID && role != user.Role {
			return nil, domain.NewValidationError("role", "no puede cambiar su propio rol")
		}
		user.Role = role
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Active != nil {
		if user.ID == caller.UserID && !*in.Active {
			return nil, domain.NewValidationError("active", "no puede desactivarse a sí mismo")
		}
		user.Active = *in.Active
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// Delete desactiva el usuario (los usuarios no se borran: tienen ventas y movimientos asociados).
func (uc *UserUseCase) Delete(ctx context.Context, caller entity.Caller, id string) error {
	active := false
	_, err := uc.Update(ctx, caller, id, dto.UpdateUserRequest{Active: &active})
	if err == nil {
		uc.log.Info().Str("user_id", id).Str("by", caller.UserID).Msg("usuario desactivado")
	}
	return err
}

func (uc *UserUseCase) load(ctx context.Context, caller entity.Caller, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !caller.CanAccess(user.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func checkRole(caller entity.Caller, role entity.Role) error {
	if !entity.ValidRole(role) {
		return domain.NewValidationError("role", "rol desconocido")
	}
	if role == entity.RoleAdmin && !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
