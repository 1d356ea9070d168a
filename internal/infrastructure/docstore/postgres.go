package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creator-planner-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_collection_created
	ON documents (collection, created_at DESC);
`

// PostgresStore lưu mọi collection vào một bảng JSONB duy nhất
type PostgresStore struct {
	pool     *pgxpool.Pool
	maxBytes int
}

func NewPostgresStore(pool *pgxpool.Pool, maxDocumentBytes int) *PostgresStore {
	return &PostgresStore{pool: pool, maxBytes: maxDocumentBytes}
}

// EnsureSchema tạo bảng documents nếu chưa có
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	log.Info().Msg("[DOCSTORE] Schema ready")
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	payload, err := encode(data, s.maxBytes)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
	`
	if _, err := s.pool.Exec(ctx, query, collection, id, payload); err != nil {
		return "", fmt.Errorf("insert %s document: %w", collection, err)
	}
	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	payload, err := encode(data, s.maxBytes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, collection, id, payload); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update: SELECT ... FOR UPDATE, merge trong Go rồi ghi lại trong cùng transaction
func (s *PostgresStore) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		var raw []byte
		err := tx.QueryRow(ctx,
			`SELECT data FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
			collection, id,
		).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock %s/%s: %w", collection, id, err)
		}

		current, err := decode(raw)
		if err != nil {
			return err
		}
		payload, err := encode(merge(current, patch), s.maxBytes)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE documents SET data = $3, updated_at = NOW() WHERE collection = $1 AND id = $2`,
			collection, id, payload,
		)
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var (
		raw       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Data: data, CreatedAt: createdAt, UpdatedAt: updatedAt}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection, orderBy string, dir Direction) ([]*Document, error) {
	// direction chỉ nhận 2 giá trị whitelist, field name luôn đi qua placeholder
	direction := "DESC"
	if validDirection(dir) == Ascending {
		direction = "ASC"
	}

	var (
		query string
		args  = []interface{}{collection}
	)
	switch orderBy {
	case "", OrderByCreatedAt:
		query = fmt.Sprintf(`SELECT id, data, created_at, updated_at FROM documents
			WHERE collection = $1 ORDER BY created_at %s, id %s`, direction, direction)
	case OrderByUpdatedAt:
		query = fmt.Sprintf(`SELECT id, data, created_at, updated_at FROM documents
			WHERE collection = $1 ORDER BY updated_at %s, id %s`, direction, direction)
	default:
		query = fmt.Sprintf(`SELECT id, data, created_at, updated_at FROM documents
			WHERE collection = $1 ORDER BY data->>$2 %s NULLS FIRST, created_at %s`, direction, direction)
		args = append(args, orderBy)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var (
			doc Document
			raw []byte
		)
		if err := rows.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}
		if doc.Data, err = decode(raw); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return docs, nil
}
