package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/placementcrm/internal/db"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

// codeSource scans a unique code column for identifiers matching a pattern.
// q may be the pool or a transaction; inside a transaction the scan sees the transaction's own writes.
type codeSource struct {
	q      db.Querier
	sb     squirrel.StatementBuilderType
	table  string
	column string
}

func newCodeSource(q db.Querier, sb squirrel.StatementBuilderType, table, column string) codeSource {
	return codeSource{q: q, sb: sb, table: table, column: column}
}

// FindMatchingIdentifiers implements idgen.Source.
func (s codeSource) FindMatchingIdentifiers(ctx context.Context, pattern idgen.Pattern) ([]string, error) {
	sql, args, err := s.sb.Select(s.column).
		From(s.table).
		Where(squirrel.Expr(s.column+` LIKE ? ESCAPE '\'`, pattern.LikePattern())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build code scan query: %w", err)
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", s.table).Str("pattern", pattern.LikePattern()).Msg("Error scanning identifier codes")
		return nil, fmt.Errorf("error scanning %s codes: %w", s.table, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("error reading %s code: %w", s.table, err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s codes: %w", s.table, err)
	}

	return codes, nil
}
