package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations aplica las migraciones pendientes contra la base de datos.
// databaseURL acepta esquema postgres:// o postgresql://; se traduce al
// esquema pgx5:// que espera el driver de golang-migrate.
func RunMigrations(databaseURL, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, pgx5URL(databaseURL))
	if err != nil {
		return fmt.Errorf("crear migrador: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}

// pgx5URL convierte el esquema del connection string al registrado por el
// driver pgx/v5 de golang-migrate.
func pgx5URL(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	if u.Scheme == "postgres" || u.Scheme == "postgresql" {
		return "pgx5://" + strings.TrimPrefix(databaseURL, u.Scheme+"://")
	}
	return databaseURL
}
