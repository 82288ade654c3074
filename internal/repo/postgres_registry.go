package repo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// ---------------- Halls ----------------

func (p *pgRepo) CreateHall(ctx context.Context, h models.Hall) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO halls (id, name, area, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.Name, h.Area, h.Address, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateID
		}
		slog.ErrorContext(ctx, "CreateHall failed", "name", h.Name, "err", err)
	}
	return err
}

func (p *pgRepo) GetHall(ctx context.Context, id uuid.UUID) (models.Hall, error) {
	var h models.Hall
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, area, address, created_at, updated_at FROM halls WHERE id = $1`, id).
		Scan(&h.ID, &h.Name, &h.Area, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Hall{}, models.ErrHallNotFound
	}
	return h, err
}

func (p *pgRepo) ListHalls(ctx context.Context) ([]models.Hall, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, area, address, created_at, updated_at FROM halls ORDER BY name`)
	if err != nil {
		slog.ErrorContext(ctx, "ListHalls failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Hall{}
	for rows.Next() {
		var h models.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Area, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (p *pgRepo) UpdateHall(ctx context.Context, h models.Hall) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE halls SET name = $2, area = $3, address = $4, updated_at = $5 WHERE id = $1`,
		h.ID, h.Name, h.Area, h.Address, h.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrHallNotFound
	}
	return nil
}

func (p *pgRepo) DeleteHall(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM halls WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrHallNotFound
	}
	return nil
}

// ---------------- Assets ----------------

const assetCols = `id, kind, name, hall_name, location, model, serial_number,
	next_inspection, notes, created_at, updated_at`

func scanAsset(row scanner) (models.Asset, error) {
	var (
		a    models.Asset
		next pgtype.Timestamptz
	)
	err := row.Scan(&a.ID, &a.Kind, &a.Name, &a.HallName, &a.Location, &a.Model,
		&a.SerialNumber, &next, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return models.Asset{}, err
	}
	a.NextInspection = fromTimestamptz(next)
	return a, nil
}

func (p *pgRepo) CreateAsset(ctx context.Context, a models.Asset) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO assets (`+assetCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.Kind, a.Name, a.HallName, a.Location, a.Model, a.SerialNumber,
		toTimestamptz(a.NextInspection), a.Notes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateID
		}
		slog.ErrorContext(ctx, "CreateAsset failed", "name", a.Name, "err", err)
	}
	return err
}

func (p *pgRepo) GetAsset(ctx context.Context, id uuid.UUID) (models.Asset, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+assetCols+` FROM assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Asset{}, models.ErrAssetNotFound
	}
	return a, err
}

func (p *pgRepo) ListAssets(ctx context.Context, kind *models.AssetKind) ([]models.Asset, error) {
	sql := `SELECT ` + assetCols + ` FROM assets`
	var args []any
	if kind != nil {
		sql += ` WHERE kind = $1`
		args = append(args, *kind)
	}
	sql += ` ORDER BY name`

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListAssets failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *pgRepo) UpdateAsset(ctx context.Context, a models.Asset) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE assets SET kind = $2, name = $3, hall_name = $4, location = $5,
		 model = $6, serial_number = $7, next_inspection = $8, notes = $9,
		 updated_at = $10 WHERE id = $1`,
		a.ID, a.Kind, a.Name, a.HallName, a.Location, a.Model, a.SerialNumber,
		toTimestamptz(a.NextInspection), a.Notes, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAssetNotFound
	}
	return nil
}

func (p *pgRepo) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAssetNotFound
	}
	return nil
}
