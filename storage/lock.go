package storage

import (
	"stayhub-server/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockPropertyRow loads a property inside tx while holding an exclusive
// row-level lock on it, so that concurrent booking admissions against the same
// property serialize on the database. Admissions for different properties lock
// different rows and never contend.
//
// SQLite has no row locks; its single-writer transaction model already
// serializes the check-then-write sequence, so the locking clause is applied
// only on Postgres.
func LockPropertyRow(tx *gorm.DB, propertyID uint) (*models.Property, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var property models.Property
	if err := q.First(&property, propertyID).Error; err != nil {
		return nil, err
	}
	return &property, nil
}
