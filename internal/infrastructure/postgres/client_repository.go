package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, nif, email, phone, address, city, province, post_code, created_at, updated_at`

// Create persiste un inquilino/cliente.
func (r *ClientRepo) Create(c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.NIF, c.Email, c.Phone, c.Address, c.City, c.Province, c.PostCode,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update actualiza los datos de un inquilino/cliente.
func (r *ClientRepo) Update(c *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, nif = $3, email = $4, phone = $5, address = $6,
		    city = $7, province = $8, post_code = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.NIF, c.Email, c.Phone, c.Address, c.City, c.Province, c.PostCode,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// GetByID obtiene un inquilino/cliente por ID, nil si no existe.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(context.Background(),
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.NIF, &c.Email, &c.Phone, &c.Address, &c.City, &c.Province, &c.PostCode,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// List lista todos los inquilinos/clientes por nombre.
func (r *ClientRepo) List() ([]*entity.Client, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.NIF, &c.Email, &c.Phone, &c.Address, &c.City, &c.Province, &c.PostCode,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete elimina un inquilino/cliente por ID.
func (r *ClientRepo) Delete(id string) (int64, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete client: %w", err)
	}
	return tag.RowsAffected(), nil
}
