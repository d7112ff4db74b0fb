package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

type releaseRepository struct {
	BaseRepository
}

func NewReleaseRepository(base BaseRepository) repository.ReleaseRepository {
	return &releaseRepository{base}
}

func (r *releaseRepository) Create(ctx context.Context, release *model.Release) (err error) {
	defer r.track("releases.create", &err)

	query := `
		INSERT INTO releases (
			id, watch_name, brand, model_number, description, release_date,
			price, currency, features, categories, image_url, product_url,
			is_limited_edition, limited_quantity, is_notified, notified_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	release.ID = uuid.New()
	release.CreatedAt = time.Now()
	release.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		release.ID,
		release.WatchName,
		release.Brand,
		release.ModelNumber,
		release.Description,
		release.ReleaseDate,
		release.Price,
		release.Currency,
		pq.Array(release.Features),
		pq.Array(release.Categories),
		release.ImageURL,
		release.ProductURL,
		release.IsLimitedEdition,
		release.LimitedQuantity,
		release.IsNotified,
		release.NotifiedAt,
		release.CreatedAt,
		release.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create release: %w", err)
	}

	return nil
}

func (r *releaseRepository) Get(ctx context.Context, id uuid.UUID) (release *model.Release, err error) {
	defer r.track("releases.get", &err)

	query := `SELECT * FROM releases WHERE id = $1`

	var rel model.Release
	if err = r.db.GetContext(ctx, &rel, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("release", err)
		}
		return nil, fmt.Errorf("failed to get release: %w", err)
	}

	return &rel, nil
}

func (r *releaseRepository) Update(ctx context.Context, release *model.Release) (err error) {
	defer r.track("releases.update", &err)

	query := `
		UPDATE releases SET
			watch_name = $1,
			brand = $2,
			model_number = $3,
			description = $4,
			release_date = $5,
			price = $6,
			currency = $7,
			features = $8,
			categories = $9,
			image_url = $10,
			product_url = $11,
			is_limited_edition = $12,
			limited_quantity = $13,
			is_notified = $14,
			notified_at = $15,
			updated_at = $16
		WHERE id = $17
	`

	result, err := r.db.ExecContext(ctx, query,
		release.WatchName,
		release.Brand,
		release.ModelNumber,
		release.Description,
		release.ReleaseDate,
		release.Price,
		release.Currency,
		pq.Array(release.Features),
		pq.Array(release.Categories),
		release.ImageURL,
		release.ProductURL,
		release.IsLimitedEdition,
		release.LimitedQuantity,
		release.IsNotified,
		release.NotifiedAt,
		time.Now(),
		release.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update release: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("release", nil)
	}

	return nil
}

func (r *releaseRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.track("releases.delete", &err)

	query := `DELETE FROM releases WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete release: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("release", nil)
	}

	return nil
}

func (r *releaseRepository) List(ctx context.Context) (releases []*model.Release, err error) {
	defer r.track("releases.list", &err)

	query := `SELECT * FROM releases ORDER BY created_at DESC`

	if err = r.db.SelectContext(ctx, &releases, query); err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}

	return releases, nil
}

func (r *releaseRepository) ListUnnotified(ctx context.Context) (releases []*model.Release, err error) {
	defer r.track("releases.list_unnotified", &err)

	query := `SELECT * FROM releases WHERE is_notified = false ORDER BY created_at ASC`

	if err = r.db.SelectContext(ctx, &releases, query); err != nil {
		return nil, fmt.Errorf("failed to list unnotified releases: %w", err)
	}

	return releases, nil
}

func (r *releaseRepository) ListUpcoming(ctx context.Context, onOrAfter time.Time) (releases []*model.Release, err error) {
	defer r.track("releases.list_upcoming", &err)

	query := `
		SELECT * FROM releases
		WHERE release_date >= $1
		ORDER BY release_date ASC
	`

	if err = r.db.SelectContext(ctx, &releases, query, onOrAfter); err != nil {
		return nil, fmt.Errorf("failed to list upcoming releases: %w", err)
	}

	return releases, nil
}

func (r *releaseRepository) ListLimitedEdition(ctx context.Context) (releases []*model.Release, err error) {
	defer r.track("releases.list_limited_edition", &err)

	query := `SELECT * FROM releases WHERE is_limited_edition = true ORDER BY created_at ASC`

	if err = r.db.SelectContext(ctx, &releases, query); err != nil {
		return nil, fmt.Errorf("failed to list limited edition releases: %w", err)
	}

	return releases, nil
}

func (r *releaseRepository) ListByBrand(ctx context.Context, brand string) (releases []*model.Release, err error) {
	defer r.track("releases.list_by_brand", &err)

	query := `SELECT * FROM releases WHERE brand = $1 ORDER BY created_at DESC`

	if err = r.db.SelectContext(ctx, &releases, query, brand); err != nil {
		return nil, fmt.Errorf("failed to list releases by brand: %w", err)
	}

	return releases, nil
}

func (r *releaseRepository) ListByDateRange(ctx context.Context, start, end time.Time) (releases []*model.Release, err error) {
	defer r.track("releases.list_by_date_range", &err)

	query := `
		SELECT * FROM releases
		WHERE release_date BETWEEN $1 AND $2
		ORDER BY release_date ASC
	`

	if err = r.db.SelectContext(ctx, &releases, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list releases by date range: %w", err)
	}

	return releases, nil
}

func (r *releaseRepository) MarkNotified(ctx context.Context, id uuid.UUID, notifiedAt time.Time) (err error) {
	defer r.track("releases.mark_notified", &err)

	query := `
		UPDATE releases
		SET is_notified = true, notified_at = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, notifiedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark release notified: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("release", nil)
	}

	return nil
}
