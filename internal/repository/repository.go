package repository

import (
	"github.com/juju/errors"
	"gorm.io/gorm"
)

// ErrStaleVersion is returned by compare-and-swap updates when the row
// changed since it was read.
const ErrStaleVersion = errors.ConstError("stale row version")

// conn returns tx when the caller is inside a transaction, otherwise the
// repository's own handle.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
