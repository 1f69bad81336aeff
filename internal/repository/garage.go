package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pow3r/cashout/pkg/cashout/domain"
)

// GarageRepository stores posted listings. Platforms and tags are kept as
// comma separated text.
type GarageRepository struct {
	db *sql.DB
}

const GARAGE_COLUMNS = ` id, flow_id, title, description, price, platforms, tags, status, fingerprint, created `

func NewGarageRepository(db *sql.DB) *GarageRepository {
	return &GarageRepository{db: db}
}

func (r *GarageRepository) Save(ctx context.Context, g *domain.GarageItem) (int64, error) {
	base := `INSERT INTO garage_items (
		flow_id, title, description, price, platforms, tags, status, fingerprint, created
	) VALUES (` + placeholders(1, 9) + `)`
	id, err := insertReturningID(ctx, r.db, base,
		g.FlowID, g.Title, g.Description, g.Price,
		strings.Join(g.Platforms, ","), strings.Join(g.Tags, ","),
		g.Status, g.Fingerprint, formatDateInDatabase(g.Created))
	if err != nil {
		return 0, err
	}
	g.ID = id
	return id, nil
}

func (r *GarageRepository) FindByID(ctx context.Context, id int64) (*domain.GarageItem, error) {
	query := `SELECT ` + GARAGE_COLUMNS + ` FROM garage_items WHERE id = ` + placeholder(1)
	return r.findOne(ctx, query, id)
}

func (r *GarageRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.GarageItem, error) {
	query := `SELECT ` + GARAGE_COLUMNS + ` FROM garage_items WHERE fingerprint = ` + placeholder(1)
	return r.findOne(ctx, query, fingerprint)
}

func (r *GarageRepository) findOne(ctx context.Context, query string, arg any) (*domain.GarageItem, error) {
	g, err := scanGarageItem(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

// List returns garage items newest first.
func (r *GarageRepository) List(ctx context.Context, limit, offset int) ([]domain.GarageItem, error) {
	query := `
		SELECT ` + GARAGE_COLUMNS + `
		FROM garage_items
		ORDER BY id DESC
		LIMIT ` + placeholder(1) + ` OFFSET ` + placeholder(2)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.GarageItem, 0)
	for rows.Next() {
		g, err := scanGarageItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

func scanGarageItem(row rowScanner) (*domain.GarageItem, error) {
	var g domain.GarageItem
	var platforms, tags string
	err := row.Scan(
		&g.ID,
		&g.FlowID,
		&g.Title,
		&g.Description,
		&g.Price,
		&platforms,
		&tags,
		&g.Status,
		&g.Fingerprint,
		&g.Created,
	)
	if err != nil {
		return nil, err
	}
	g.Platforms = splitColumn(platforms)
	g.Tags = splitColumn(tags)
	g.Created = utc(g.Created)
	return &g, nil
}

func splitColumn(s string) []string {
	out := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
