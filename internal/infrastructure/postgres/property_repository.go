package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/serranomp/fincas-api/internal/domain/entity"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

// PropertyRepo implementación de PropertyRepository sobre PostgreSQL.
type PropertyRepo struct {
	q Querier
}

// NewPropertyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPropertyRepository(q Querier) *PropertyRepo {
	return &PropertyRepo{q: q}
}

const propertyColumns = `id, owner_id, alias, address, city, province, post_code, cadastral_ref, monthly_rent, active, created_at, updated_at`

// Create persiste un inmueble.
func (r *PropertyRepo) Create(p *entity.Property) error {
	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.OwnerID, p.Alias, p.Address, p.City, p.Province, p.PostCode, p.CadastralRef,
		p.MonthlyRent, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// Update actualiza los datos de un inmueble. El propietario no cambia.
func (r *PropertyRepo) Update(p *entity.Property) error {
	query := `
		UPDATE properties
		SET alias = $2, address = $3, city = $4, province = $5, post_code = $6,
		    cadastral_ref = $7, monthly_rent = $8, active = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Alias, p.Address, p.City, p.Province, p.PostCode, p.CadastralRef,
		p.MonthlyRent, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	return nil
}

// GetByID obtiene un inmueble por ID, nil si no existe.
func (r *PropertyRepo) GetByID(id string) (*entity.Property, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// ListByOwner lista los inmuebles de un propietario.
func (r *PropertyRepo) ListByOwner(ownerID string) ([]*entity.Property, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+propertyColumns+` FROM properties WHERE owner_id = $1 ORDER BY alias`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list properties by owner: %w", err)
	}
	return collectProperties(rows)
}

// List lista todos los inmuebles.
func (r *PropertyRepo) List() ([]*entity.Property, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+propertyColumns+` FROM properties ORDER BY alias`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return collectProperties(rows)
}

// Delete elimina un inmueble por ID.
func (r *PropertyRepo) Delete(id string) (int64, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete property: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanProperty(row pgxScanner) (*entity.Property, error) {
	var p entity.Property
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Alias, &p.Address, &p.City, &p.Province, &p.PostCode, &p.CadastralRef,
		&p.MonthlyRent, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProperties(rows pgx.Rows) ([]*entity.Property, error) {
	defer rows.Close()
	var list []*entity.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
