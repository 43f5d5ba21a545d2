package postgresdb

import (
	"bytes"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// AddOrderByClause appends ORDER BY orderField, with pkField as a tie breaker
// so equal timestamps still page deterministically.
func AddOrderByClause(buf *bytes.Buffer, orderField, pkField, direction string) error {
	if direction != ASC && direction != DESC {
		return fmt.Errorf("invalid direction: %s", direction)
	}

	quotedOrderField, err := QuoteIdentifier(orderField)
	if err != nil {
		return fmt.Errorf("invalid order field name: %w", err)
	}
	quotedPKField, err := QuoteIdentifier(pkField)
	if err != nil {
		return fmt.Errorf("invalid pk field name: %w", err)
	}

	fmt.Fprintf(buf, " ORDER BY %s %s", quotedOrderField, direction)
	if orderField != pkField {
		fmt.Fprintf(buf, ", %s %s", quotedPKField, direction)
	}

	return nil
}

// AddLimitClause appends LIMIT @limit when limit is positive.
func AddLimitClause(limit int, data pgx.NamedArgs, buf *bytes.Buffer) {
	if limit <= 0 {
		return
	}
	buf.WriteString(" LIMIT @limit")
	data["limit"] = limit
}
