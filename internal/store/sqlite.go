package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/models"
)

// Documents are kept in a single table: the AUTOINCREMENT key column is the
// insertion token, the body column holds the document as JSON. Query filters
// on body attributes are compiled to json_extract expressions.
const createDocumentsTable = `
	CREATE TABLE IF NOT EXISTS documents (
		key  INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		id   TEXT NOT NULL,
		body TEXT NOT NULL,
		UNIQUE (path, id)
	);`

type sqliteStorage struct {
	db          *sql.DB
	idAttribute string
	builder     sq.StatementBuilderType
	log         *logger.Logger
}

// NewSQLiteStorage opens (and creates, when missing) the SQLite database at
// dsn and prepares the documents table.
func NewSQLiteStorage(dsn, idAttribute string, log *logger.Logger) (Storage, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite storage: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite storage: %w", err)
	}
	if _, err = db.Exec(createDocumentsTable); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	return newSQLiteStorage(db, idAttribute, log), nil
}

// newSQLiteStorage wires a storage over an existing connection. Split out so
// tests can inject a mocked *sql.DB.
func newSQLiteStorage(db *sql.DB, idAttribute string, log *logger.Logger) *sqliteStorage {
	return &sqliteStorage{
		db:          db,
		idAttribute: idAttribute,
		builder:     sq.StatementBuilder.PlaceholderFormat(sq.Question),
		log:         log.Component("sqlite"),
	}
}

func (s *sqliteStorage) Find(ctx context.Context, path string, query *models.Query) ([]models.Entity, error) {
	sel := s.builder.Select("key", "body").From("documents")
	for _, cond := range s.conditions(path, query) {
		sel = sel.Where(cond)
	}
	sqlStr, args, err := sel.OrderBy("key ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents at %s: %w", path, err)
	}
	defer rows.Close()

	entities := make([]models.Entity, 0)
	for rows.Next() {
		var (
			key  int64
			body string
		)
		if err = rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}

		var ent models.Entity
		if err = json.Unmarshal([]byte(body), &ent); err != nil {
			return nil, fmt.Errorf("decode document body: %w", err)
		}
		ent[models.KeyAttribute] = key
		entities = append(entities, ent)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return entities, nil
}

func (s *sqliteStorage) Save(ctx context.Context, path string, entities []models.Entity) ([]models.Entity, error) {
	saved := make([]models.Entity, 0, len(entities))

	for _, ent := range entities {
		doc := ent.Clone()

		id := doc.ID(s.idAttribute)
		if id == "" {
			id = uuid.NewString()
			doc.SetID(s.idAttribute, id)
		}

		// the token lives in the key column, never in the body
		delete(doc, models.KeyAttribute)
		body, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode document body: %w", err)
		}

		sqlStr, args, err := s.builder.Insert("documents").
			Columns("path", "id", "body").
			Values(path, id, string(body)).
			Suffix("ON CONFLICT (path, id) DO UPDATE SET body = excluded.body").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build upsert query: %w", err)
		}
		if _, err = s.db.ExecContext(ctx, sqlStr, args...); err != nil {
			return nil, fmt.Errorf("upsert document %s at %s: %w", id, path, err)
		}

		key, err := s.documentKey(ctx, path, id)
		if err != nil {
			return nil, err
		}
		doc[models.KeyAttribute] = key
		saved = append(saved, doc)
	}

	return saved, nil
}

func (s *sqliteStorage) RemoveByID(ctx context.Context, path, id string) (int, error) {
	sqlStr, args, err := s.builder.Delete("documents").
		Where(sq.Eq{"path": path, "id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	return s.execDelete(ctx, sqlStr, args)
}

func (s *sqliteStorage) Remove(ctx context.Context, path string, query *models.Query) (int, error) {
	del := s.builder.Delete("documents")
	for _, cond := range s.conditions(path, query) {
		del = del.Where(cond)
	}
	sqlStr, args, err := del.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete query: %w", err)
	}

	return s.execDelete(ctx, sqlStr, args)
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func (s *sqliteStorage) execDelete(ctx context.Context, sqlStr string, args []any) (int, error) {
	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("delete documents: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted documents: %w", err)
	}
	return int(affected), nil
}

func (s *sqliteStorage) documentKey(ctx context.Context, path, id string) (int64, error) {
	sqlStr, args, err := s.builder.Select("key").From("documents").
		Where(sq.Eq{"path": path, "id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build key query: %w", err)
	}

	var key int64
	if err = s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&key); err != nil {
		return 0, fmt.Errorf("read document key: %w", err)
	}
	return key, nil
}

// conditions compiles path scoping plus the opaque equality filter into SQL
// predicates. A condition on the id attribute targets the id column; any
// other attribute, dotted paths included, goes through json_extract.
func (s *sqliteStorage) conditions(path string, query *models.Query) []sq.Sqlizer {
	conds := []sq.Sqlizer{sq.Eq{"path": path}}
	if query.IsEmpty() {
		return conds
	}

	for field, value := range query.Filter {
		if field == s.idAttribute {
			conds = append(conds, sq.Eq{"id": value})
			continue
		}
		conds = append(conds, sq.Expr("json_extract(body, ?) = ?", "$."+field, value))
	}
	return conds
}
