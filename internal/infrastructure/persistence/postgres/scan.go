package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

func nullUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: [16]byte(id), Valid: true}
}

func fromNullUUID(v pgtype.UUID) (uuid.UUID, bool) {
	if !v.Valid {
		return uuid.Nil, false
	}
	return uuid.UUID(v.Bytes), true
}

func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// page runs a count query and a page query and collects the rows with scan.
func page[T any](ctx context.Context, q querier, countSQL, pageSQL string, key any, req domain.PageRequest, scan func(pgx.Row) (T, error)) (domain.Page[T], error) {
	req = req.Normalize()
	var total int
	if err := q.QueryRow(ctx, countSQL, key).Scan(&total); err != nil {
		return domain.Page[T]{}, err
	}
	rows, err := q.Query(ctx, pageSQL, key, req.Limit(), req.Offset())
	if err != nil {
		return domain.Page[T]{}, err
	}
	defer rows.Close()
	items := make([]T, 0, req.Limit())
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return domain.Page[T]{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[T]{}, err
	}
	return domain.NewPage(items, req, total), nil
}
