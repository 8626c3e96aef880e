package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/pkg/jwt"
)

// Locals keys para UserID, CompanyID y Role en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// CallerResolver recarga usuario y empresa vigentes a partir del sujeto del token.
type CallerResolver interface {
	Resolve(ctx context.Context, userID string) (entity.Caller, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja UserID, CompanyID y Role en c.Locals.
// Con resolver, el rol y la empresa salen del usuario almacenado y no de los claims:
// usuario inactivo → 401 USER_INACTIVE, empresa no aprobada → 403 COMPANY_NOT_APPROVED.
func AuthMiddleware(jwtSecret string, resolver CallerResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no trae rol"})
		}
		caller := entity.Caller{UserID: claims.UserID, CompanyID: claims.CompanyID, Role: entity.Role(claims.Role)}
		if resolver != nil {
			if caller, err = resolver.Resolve(c.UserContext(), claims.UserID); err != nil {
				return respondError(c, err)
			}
		}
		c.Locals(LocalUserID, caller.UserID)
		c.Locals(LocalCompanyID, caller.CompanyID)
		c.Locals(LocalRole, string(caller.Role))

		log := zerolog.Ctx(c.UserContext()).With().
			Str("user_id", caller.UserID).Str("company_id", caller.CompanyID).Logger()
		c.SetUserContext(log.WithContext(c.UserContext()))
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "rol no encontrado en el token"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// RequirePermission deja pasar si el rol del token tiene la capacidad.
func RequirePermission(p entity.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Caller(c).Can(p) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso requerido: " + string(p)})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string { return local(c, LocalCompanyID) }

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

// Caller identidad resuelta que reciben los casos de uso.
func Caller(c *fiber.Ctx) entity.Caller {
	return entity.Caller{UserID: GetUserID(c), CompanyID: GetCompanyID(c), Role: entity.Role(GetRole(c))}
}

// targetCompany empresa sobre la que opera un listado. ?company_id= solo tiene efecto
// para administradores; para el resto el caso de uso responde 403.
func targetCompany(c *fiber.Ctx) string {
	if id := c.Query("company_id"); id != "" {
		return id
	}
	return GetCompanyID(c)
}

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
