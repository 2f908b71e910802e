package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/serranomp/fincas-api/internal/domain"
	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

var _ repository.OwnerRepository = (*OwnerRepo)(nil)

// OwnerRepo implementación de OwnerRepository sobre PostgreSQL.
type OwnerRepo struct {
	q Querier
}

// NewOwnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOwnerRepository(q Querier) *OwnerRepo {
	return &OwnerRepo{q: q}
}

const ownerColumns = `id, name, nif, email, phone, address, city, province, post_code, iban, created_at, updated_at`

// Create persiste un propietario. El NIF es único.
func (r *OwnerRepo) Create(o *entity.Owner) error {
	query := `
		INSERT INTO owners (` + ownerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Name, o.NIF, o.Email, o.Phone, o.Address, o.City, o.Province, o.PostCode, o.IBAN,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

// Update actualiza los datos de un propietario.
func (r *OwnerRepo) Update(o *entity.Owner) error {
	query := `
		UPDATE owners
		SET name = $2, nif = $3, email = $4, phone = $5, address = $6,
		    city = $7, province = $8, post_code = $9, iban = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Name, o.NIF, o.Email, o.Phone, o.Address, o.City, o.Province, o.PostCode, o.IBAN,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update owner: %w", err)
	}
	return nil
}

// GetByID obtiene un propietario por ID, nil si no existe.
func (r *OwnerRepo) GetByID(id string) (*entity.Owner, error) {
	var o entity.Owner
	err := r.q.QueryRow(context.Background(),
		`SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id).Scan(
		&o.ID, &o.Name, &o.NIF, &o.Email, &o.Phone, &o.Address, &o.City, &o.Province, &o.PostCode, &o.IBAN,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return &o, nil
}

// List lista todos los propietarios por nombre.
func (r *OwnerRepo) List() ([]*entity.Owner, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+ownerColumns+` FROM owners ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Owner
	for rows.Next() {
		var o entity.Owner
		if err := rows.Scan(
			&o.ID, &o.Name, &o.NIF, &o.Email, &o.Phone, &o.Address, &o.City, &o.Province, &o.PostCode, &o.IBAN,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Delete elimina un propietario por ID.
func (r *OwnerRepo) Delete(id string) (int64, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete owner: %w", err)
	}
	return tag.RowsAffected(), nil
}
