package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

var _ repository.IntegrationRepository = (*IntegrationRepo)(nil)

// IntegrationRepo implementación de IntegrationRepository sobre PostgreSQL.
// La unicidad por (user_id, type) la garantiza un constraint; todas las
// escrituras por tenant y plataforma son upserts contra ese constraint.
type IntegrationRepo struct {
	q Querier
}

// NewIntegrationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIntegrationRepository(q Querier) *IntegrationRepo {
	return &IntegrationRepo{q: q}
}

const integrationColumns = `id, user_id, type, store_url, access_token,
	api_key_public, api_key_secret, status, error_message, last_sync_at,
	created_at, updated_at`

// UpsertPending crea o reinicia la integración en estado pending. Reiniciar
// descarta credenciales y errores previos.
func (r *IntegrationRepo) UpsertPending(userID, platform, storeURL string) error {
	query := `
		INSERT INTO integrations (id, user_id, type, store_url, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, 'pending', now(), now())
		ON CONFLICT (user_id, type)
		DO UPDATE SET store_url = EXCLUDED.store_url, status = 'pending',
			access_token = '', api_key_public = '', api_key_secret = '',
			error_message = '', updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, userID, platform, storeURL)
	if err != nil {
		return fmt.Errorf("upsert pending integration: %w", err)
	}
	return nil
}

// MarkConnected guarda el token cifrado y pasa la integración a connected.
func (r *IntegrationRepo) MarkConnected(userID, platform, encryptedToken string) error {
	query := `
		UPDATE integrations
		SET access_token = $3, status = 'connected', error_message = '', updated_at = now()
		WHERE user_id = $1 AND type = $2`
	_, err := r.q.Exec(context.Background(), query, userID, platform, encryptedToken)
	if err != nil {
		return fmt.Errorf("mark integration connected: %w", err)
	}
	return nil
}

// UpsertConnectedWithKeys upsert en connected con par de claves API
// (WooCommerce; el secreto llega cifrado).
func (r *IntegrationRepo) UpsertConnectedWithKeys(userID, storeURL, keyPublic, encryptedSecret string) error {
	query := `
		INSERT INTO integrations (id, user_id, type, store_url, api_key_public,
			api_key_secret, status, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, 'woocommerce', $2, $3, $4, 'connected', now(), now())
		ON CONFLICT (user_id, type)
		DO UPDATE SET store_url = EXCLUDED.store_url,
			api_key_public = EXCLUDED.api_key_public,
			api_key_secret = EXCLUDED.api_key_secret,
			status = 'connected', error_message = '', updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, userID, storeURL, keyPublic, encryptedSecret)
	if err != nil {
		return fmt.Errorf("upsert connected integration: %w", err)
	}
	return nil
}

// UpsertError upsert en estado error con el mensaje dado.
func (r *IntegrationRepo) UpsertError(userID, platform, storeURL, message string) error {
	query := `
		INSERT INTO integrations (id, user_id, type, store_url, status, error_message, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, 'error', $4, now(), now())
		ON CONFLICT (user_id, type)
		DO UPDATE SET store_url = EXCLUDED.store_url, status = 'error',
			error_message = EXCLUDED.error_message, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, userID, platform, storeURL, message)
	if err != nil {
		return fmt.Errorf("upsert error integration: %w", err)
	}
	return nil
}

// MarkError registra un fallo de sincronización sobre una fila existente.
func (r *IntegrationRepo) MarkError(id, message string) error {
	query := `
		UPDATE integrations
		SET status = 'error', error_message = $2, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, message)
	if err != nil {
		return fmt.Errorf("mark integration error: %w", err)
	}
	return nil
}

// SetErrorMessage deja constancia de un error por ítem sin cambiar el estado.
func (r *IntegrationRepo) SetErrorMessage(id, message string) error {
	query := `UPDATE integrations SET error_message = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, message)
	if err != nil {
		return fmt.Errorf("set integration error message: %w", err)
	}
	return nil
}

// MarkSynced actualiza la marca de agua last_sync_at y limpia el error.
func (r *IntegrationRepo) MarkSynced(id string) error {
	query := `
		UPDATE integrations
		SET last_sync_at = now(), error_message = '', updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("mark integration synced: %w", err)
	}
	return nil
}

// TouchLastSync actualiza solo la marca de agua, preservando error_message.
func (r *IntegrationRepo) TouchLastSync(id string) error {
	query := `UPDATE integrations SET last_sync_at = now(), updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("touch integration last_sync_at: %w", err)
	}
	return nil
}

func (r *IntegrationRepo) GetByUserAndPlatform(userID, platform string) (*entity.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE user_id = $1 AND type = $2`
	return r.scanOne(query, userID, platform)
}

// GetByStoreDomain resuelve el tenant dueño de una tienda (ruta de webhooks).
func (r *IntegrationRepo) GetByStoreDomain(storeURL, platform string) (*entity.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE store_url = $1 AND type = $2`
	return r.scanOne(query, storeURL, platform)
}

func (r *IntegrationRepo) ListConnectedByPlatform(platform string) ([]*entity.Integration, error) {
	query := `
		SELECT ` + integrationColumns + `
		FROM integrations WHERE type = $1 AND status = 'connected'
		ORDER BY created_at ASC`
	return r.scanMany(query, platform)
}

func (r *IntegrationRepo) ListByUser(userID string) ([]*entity.Integration, error) {
	query := `
		SELECT ` + integrationColumns + `
		FROM integrations WHERE user_id = $1
		ORDER BY type ASC`
	return r.scanMany(query, userID)
}

func (r *IntegrationRepo) scanOne(query string, args ...any) (*entity.Integration, error) {
	var i entity.Integration
	err := scanIntegration(r.q.QueryRow(context.Background(), query, args...), &i)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get integration: %w", err)
	}
	return &i, nil
}

func (r *IntegrationRepo) scanMany(query string, args ...any) ([]*entity.Integration, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Integration
	for rows.Next() {
		var i entity.Integration
		if err := scanIntegration(rows, &i); err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

func scanIntegration(row pgx.Row, i *entity.Integration) error {
	return row.Scan(
		&i.ID, &i.UserID, &i.Type, &i.StoreURL, &i.AccessToken,
		&i.APIKeyPublic, &i.APIKeySecret, &i.Status, &i.ErrorMessage,
		&i.LastSyncAt, &i.CreatedAt, &i.UpdatedAt,
	)
}
