// seed_users crea o actualiza usuarios a partir de un CSV.
//
// Uso: go run ./cmd/seed_users [ruta/usuarios.csv]
// Columnas: username,first_name,last_name,role,password[,modalidad,turno]
// Sin archivo crea el usuario DUEÑO definido por SEED_OWNER_USERNAME y SEED_OWNER_PASSWORD.
// Un usuario existente se reactiva y se le actualizan nombre, rol y contraseña.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

type seedUser struct {
	username, firstName, lastName, role, password, modality, shift string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	var users []seedUser
	if len(os.Args) > 1 {
		users, err = readCSV(os.Args[1])
	} else {
		users, err = ownerFromEnv()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("leer usuarios")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repo := postgres.NewUserRepository(pool)
	created, updated := 0, 0
	for _, su := range users {
		isNew, err := upsert(ctx, repo, su)
		if err != nil {
			log.Error().Err(err).Str("username", su.username).Msg("usuario no cargado")
			continue
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	log.Info().Int("creados", created).Int("actualizados", updated).Msg("seed de usuarios terminado")
}

func upsert(ctx context.Context, repo *postgres.UserRepo, su seedUser) (bool, error) {
	if !entity.IsValidRole(su.role) {
		return false, fmt.Errorf("rol inválido %q", su.role)
	}
	if len(su.password) < 8 {
		return false, errors.New("la contraseña debe tener al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	now := time.Now()
	u, err := repo.GetByUsername(ctx, su.username)
	if err != nil {
		return false, err
	}
	isNew := u == nil
	if isNew {
		u = &entity.User{Username: su.username, CreatedAt: now}
	}
	u.FirstName, u.LastName = su.firstName, su.lastName
	u.Role, u.Modality, u.Shift = su.role, su.modality, su.shift
	u.PasswordHash = string(hash)
	u.Active = true
	u.UpdatedAt = now
	if isNew {
		return true, repo.Create(ctx, u)
	}
	return false, repo.Update(ctx, u)
}

func readCSV(path string) ([]seedUser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var out []seedUser
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(rec[0], "username") {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 5 columnas", line)
		}
		su := seedUser{
			username:  strings.TrimSpace(rec[0]),
			firstName: strings.TrimSpace(rec[1]),
			lastName:  strings.TrimSpace(rec[2]),
			role:      strings.ToUpper(strings.TrimSpace(rec[3])),
			password:  rec[4],
		}
		if len(rec) > 5 {
			su.modality = strings.ToUpper(strings.TrimSpace(rec[5]))
		}
		if len(rec) > 6 {
			su.shift = strings.ToUpper(strings.TrimSpace(rec[6]))
		}
		out = append(out, su)
	}
	return out, nil
}

func ownerFromEnv() ([]seedUser, error) {
	username := os.Getenv("SEED_OWNER_USERNAME")
	password := os.Getenv("SEED_OWNER_PASSWORD")
	if username == "" || password == "" {
		return nil, errors.New("SEED_OWNER_USERNAME y SEED_OWNER_PASSWORD son obligatorios sin archivo CSV")
	}
	return []seedUser{{
		username:  username,
		firstName: "Dueño",
		role:      entity.RoleDueno,
		password:  password,
	}}, nil
}
