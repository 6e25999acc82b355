package database

import (
	"github.com/huandu/go-sqlbuilder"
)

// SelectBuilder wraps the sqlbuilder select builder pinned to the
// PostgreSQL flavor, so repositories never pass the flavor around.
type SelectBuilder struct {
	*sqlbuilder.SelectBuilder
}

func NewSelectBuilder() *SelectBuilder {
	return &SelectBuilder{sqlbuilder.PostgreSQL.NewSelectBuilder()}
}
