package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secondbrain/internal/dbx"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/contents"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/shares"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Contents(db dbx.DBTX) contents.Repository
	Shares(db dbx.DBTX) shares.Repository
}
