package seed

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// TabletSeed is one row of the reference catalog.
type TabletSeed struct {
	Name  string
	Price float64
	Stock int64
}

// ReferenceCatalog is the fixed catalog inserted on first startup. It is
// only consumed by SyncTablets; runtime reads always go through the store.
var ReferenceCatalog = []TabletSeed{
	{"Paracetamol 500mg", 20.0, 100},
	{"Ibuprofen 200mg", 25.0, 80},
	{"Cetirizine 10mg", 15.0, 120},
	{"Amoxicillin 500mg", 60.0, 50},
	{"Multivitamin", 40.0, 60},
	{"Aspirin 75mg", 18.0, 70},
	{"Omeprazole 20mg", 30.0, 40},
	{"Azithromycin 250mg", 55.0, 30},
	{"Loratadine 10mg", 22.0, 90},
	{"Calcium + Vitamin D", 45.0, 50},
}

// SyncTablets inserts any reference tablets missing from the catalog by
// name. Existing rows are never overwritten or duplicated.
func SyncTablets(db *sqlx.DB) {
	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start catalog seed: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO tablets (name, price, stock) VALUES (?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare catalog insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := int64(0)
	for _, t := range ReferenceCatalog {
		res, err := stmt.Exec(t.Name, t.Price, t.Stock)
		if err != nil {
			log.Printf("unable to insert tablet %s: %v", t.Name, err)
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			rows += n
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit catalog seed: %v", err)
	} else if rows > 0 {
		log.Printf("seeded tablet catalog with %d rows", rows)
	}
}
