package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

var sqlOps = map[Op]string{
	OpEq:  "=",
	OpNeq: "<>",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
}

type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: sqlx.NewDb(db, "postgres")}
}

func (p *Postgres) Insert(ctx context.Context, table string, rec Record) (string, error) {
	if err := validIdentifier(table); err != nil {
		return "", err
	}
	columns, args, err := sortedColumns(rec)
	if err != nil {
		return "", err
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	var id string
	if err := p.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return id, nil
}

func (p *Postgres) Select(ctx context.Context, table string, filter Filter, dest interface{}) error {
	if err := validIdentifier(table); err != nil {
		return err
	}
	where, args, err := whereClause(filter, 1)
	if err != nil {
		return err
	}

	query := "SELECT * FROM " + table + where + " ORDER BY created_at"
	if err := p.db.SelectContext(ctx, dest, query, args...); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error) {
	if err := validIdentifier(table); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, ErrUnfilteredWrite
	}
	columns, args, err := sortedColumns(patch)
	if err != nil {
		return 0, err
	}

	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	where, whereArgs, err := whereClause(filter, len(args)+1)
	if err != nil {
		return 0, err
	}

	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + ", updated_at = CURRENT_TIMESTAMP" + where
	return p.exec(ctx, query, append(args, whereArgs...)...)
}

func (p *Postgres) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := validIdentifier(table); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, ErrUnfilteredWrite
	}
	where, args, err := whereClause(filter, 1)
	if err != nil {
		return 0, err
	}
	return p.exec(ctx, "DELETE FROM "+table+where, args...)
}

func (p *Postgres) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return affected, nil
}

func sortedColumns(rec Record) ([]string, []interface{}, error) {
	if len(rec) == 0 {
		return nil, nil, fmt.Errorf("store: empty record")
	}
	columns := make([]string, 0, len(rec))
	for c := range rec {
		if err := validIdentifier(c); err != nil {
			return nil, nil, err
		}
		columns = append(columns, c)
	}
	sort.Strings(columns)

	args := make([]interface{}, len(columns))
	for i, c := range columns {
		args[i] = rec[c]
	}
	return columns, args, nil
}

// whereClause renders filter with placeholders starting at $start.
func whereClause(filter Filter, start int) (string, []interface{}, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	if err := filter.validate(); err != nil {
		return "", nil, err
	}

	parts := make([]string, 0, len(filter))
	args := make([]interface{}, 0, len(filter))
	n := start
	for _, c := range filter {
		if c.Op == OpIs {
			parts = append(parts, c.Column+" IS NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s $%d", c.Column, sqlOps[c.Op], n))
		args = append(args, c.Value)
		n++
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}
