package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/assets"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/categories"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posters(db dbx.DBTX) posters.Repository
	Categories(db dbx.DBTX) categories.Repository
	Assets(db dbx.DBTX) assets.Repository
}
