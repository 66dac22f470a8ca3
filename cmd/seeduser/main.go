// cmd/seeduser/main.go: crea/actualiza el usuario administrador del back office.
// Uso: ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"os"

	"github.com/arielalcuri/doslidias/internal/config"
	"github.com/arielalcuri/doslidias/internal/infra"
	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if len(password) < 8 {
		log.Fatal().Msg("ADMIN_PASSWORD must have at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO usuarios (id, email, nombre, password_hash, rol, activo, created_at, updated_at)
		VALUES (?, LOWER(?), ?, ?, ?, true, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    rol = EXCLUDED.rol,
		    activo = true,
		    updated_at = NOW()
	`, uuid.New(), email, "Administrador", string(hash), model.RolAdministrador)

	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert")
	}
	log.Info().Str("email", email).Msg("admin user created/updated")
}
