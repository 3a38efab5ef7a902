package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ownedRelation declares a child table removed together with its parent.
// Cascade is a policy attribute of the relation, not behaviour baked into
// the child types; each parent repository lists its owned relations and the
// delete walks them inside the parent's transaction.
type ownedRelation struct {
	Table string
	FK    string
}

func deleteOwned(ctx context.Context, tx *sqlx.Tx, relations []ownedRelation, parentID int64) error {
	for _, rel := range relations {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", rel.Table, rel.FK)
		if _, err := tx.ExecContext(ctx, query, parentID); err != nil {
			return translateError(err, fmt.Sprintf("cascade delete %s", rel.Table))
		}
	}
	return nil
}
