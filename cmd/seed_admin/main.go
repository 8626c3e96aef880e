// seed_admin crea la empresa de plataforma y su usuario administrador.
// Es idempotente: si el email ya existe no hace nada.
//
// Uso: go run ./cmd/seed_admin <email> <password> [nombre]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/internal/domain/repository"
	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

// platformCNPJ identifica la empresa interna que agrupa a los administradores.
const platformCNPJ = "00000000000191"

type adminInput struct {
	Email    string
	Password string
	Name     string
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed_admin <email> <password> [nombre]")
		os.Exit(2)
	}
	in := adminInput{Email: os.Args[1], Password: os.Args[2], Name: "Administrador"}
	if len(os.Args) > 3 {
		in.Name = os.Args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	created, err := seedAdmin(ctx, postgres.NewTxRunner(pool), in, time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	if !created {
		log.Info().Str("email", in.Email).Msg("el administrador ya existe")
		return
	}
	log.Info().Str("email", in.Email).Msg("administrador creado")
}

// seedAdmin crea (o reutiliza) la empresa de plataforma aprobada y el usuario admin.
func seedAdmin(ctx context.Context, tx repository.TxRunner, in adminInput, now time.Time) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return false, errors.New("email obligatorio y password de al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	created := false
	err = tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		company, err := r.Companies.GetByCNPJ(ctx, platformCNPJ)
		if err != nil {
			return err
		}
		if company == nil {
			company = &entity.Company{
				ID:         uuid.New().String(),
				CNPJ:       platformCNPJ,
				LegalName:  "PDV Plataforma",
				TradeName:  "PDV",
				OwnerName:  in.Name,
				Email:      email,
				Status:     entity.CompanyApproved,
				Plan:       "enterprise",
				ApprovedAt: &now,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := r.Companies.Create(ctx, company); err != nil {
				return fmt.Errorf("crear empresa de plataforma: %w", err)
			}
		}

		user := &entity.User{
			ID:           uuid.New().String(),
			CompanyID:    company.ID,
			Name:         in.Name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         entity.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("crear admin: %w", err)
		}
		created = true
		return nil
	})
	return created, err
}
