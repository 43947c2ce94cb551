package repomanager

import (
	"context"
	"database/sql"

	"github.com/logicspark/logicspark/internal/dbx"
	"github.com/logicspark/logicspark/internal/server/repositories/admins"
	"github.com/logicspark/logicspark/internal/server/repositories/contacts"
	"github.com/logicspark/logicspark/internal/server/repositories/sponsors"
	"github.com/logicspark/logicspark/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// them either on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Admins(db dbx.DBTX) admins.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	Sponsors(db dbx.DBTX) sponsors.Repository
}
