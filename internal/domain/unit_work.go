package domain

import "context"

// UnitOfWork scopes repository operations to one transaction.
type UnitOfWork interface {
	// Execute runs fn inside a transaction, committing on nil error.
	Execute(ctx context.Context, fn func(uow UnitOfWork) error) error
	// Entries returns the entry repository bound to this unit of work.
	Entries() EntryRepository
	// Themes returns the theme repository bound to this unit of work.
	Themes() ThemeRepository
}
