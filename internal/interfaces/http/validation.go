package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pdv-api/internal/application/dto"
	"github.com/jhoicas/pdv-api/internal/domain"
	"github.com/jhoicas/pdv-api/pkg/brdoc"
)

// Validator valida la forma de los cuerpos de request antes de llegar a los casos de uso.
// Las reglas de negocio (stock, pertenencia a la empresa) las vuelve a validar el dominio.
type Validator struct {
	v *validator.Validate
}

// NewValidator registra las reglas propias: cnpj, cpfcnpj y decimal.Decimal como número.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return brdoc.ValidateCNPJ(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("cpfcnpj", func(fl validator.FieldLevel) bool {
		return brdoc.ValidateDocument(fl.Field().String()) == nil
	})
	return &Validator{v: v}
}

// Struct valida s y devuelve un *domain.ValidationError con un problema por campo.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validación: %w", err)
	}
	out := &domain.ValidationError{}
	for _, fe := range errs {
		out.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
	return out
}

// bind decodifica el JSON del cuerpo en dst y lo valida.
func (v *Validator) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewValidationError("body", "JSON inválido o Content-Type distinto de application/json")
	}
	return v.Struct(dst)
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "email inválido"
	case "uuid":
		return "identificador inválido"
	case "cnpj":
		return "CNPJ inválido"
	case "cpfcnpj":
		return "CPF/CNPJ inválido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return "mínimo " + fe.Param() + " elemento(s)/caracter(es)"
		}
		return "mínimo " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return "máximo " + fe.Param() + " caracteres/elementos"
		}
		return "máximo " + fe.Param()
	case "len":
		return "debe tener largo " + fe.Param()
	default:
		return "no cumple la regla " + fe.Tag()
	}
}

// pageFrom lee limit/offset de la query con los límites de dto.PageRequest.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

// queryTime acepta fecha (2006-01-02) o RFC3339. endOfDay extiende una fecha sin hora hasta el final del día.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "fecha inválida, use AAAA-MM-DD o RFC3339")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
