package ipdata

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/turborat/pacmon/internal/addr"

	_ "modernc.org/sqlite"
)

// CorpRow and LocationRow are the on-disk row shapes for the preloaded
// ownership dataset: (address_as_128_bit_integer, prefix_bits, label),
// split into the corp table and the location table. This loader is a
// convenience for supplying the in-memory tables the resolver consumes;
// it is not itself part of the resolution logic.
type CorpRow struct {
	Base addr.Addr
	Bits uint32
	Name string
}

type LocationRow struct {
	Base    addr.Addr
	Bits    uint32
	City    string
	Country string
}

// LoadSQLite reads the ownership dataset from an embedded modernc.org/sqlite
// database file (schema: corps(base_hi, base_lo, bits, name),
// locations(base_hi, base_lo, bits, city, country)). If path does not exist,
// it falls back to the small built-in table in fallback.go so the program
// still starts with at least a handful of well-known entries.
func LoadSQLite(path string) (*Data, error) {
	if _, err := os.Stat(path); err != nil {
		return New(fallbackCorps, fallbackLocations), nil
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ipdata: open %s: %w", path, err)
	}
	defer db.Close()

	corps, err := loadCorps(db)
	if err != nil {
		return nil, err
	}
	locations, err := loadLocations(db)
	if err != nil {
		return nil, err
	}
	return New(corps, locations), nil
}

func loadCorps(db *sql.DB) ([]CorpRow, error) {
	rows, err := db.Query(`SELECT base_hi, base_lo, bits, name FROM corps`)
	if err != nil {
		return nil, fmt.Errorf("ipdata: query corps: %w", err)
	}
	defer rows.Close()

	var out []CorpRow
	for rows.Next() {
		var hi, lo uint64
		var bits uint32
		var name string
		if err := rows.Scan(&hi, &lo, &bits, &name); err != nil {
			return nil, fmt.Errorf("ipdata: scan corps: %w", err)
		}
		out = append(out, CorpRow{Base: addr.Addr{Hi: hi, Lo: lo}, Bits: bits, Name: name})
	}
	return out, rows.Err()
}

func loadLocations(db *sql.DB) ([]LocationRow, error) {
	rows, err := db.Query(`SELECT base_hi, base_lo, bits, city, country FROM locations`)
	if err != nil {
		return nil, fmt.Errorf("ipdata: query locations: %w", err)
	}
	defer rows.Close()

	var out []LocationRow
	for rows.Next() {
		var hi, lo uint64
		var bits uint32
		var city, country string
		if err := rows.Scan(&hi, &lo, &bits, &city, &country); err != nil {
			return nil, fmt.Errorf("ipdata: scan locations: %w", err)
		}
		out = append(out, LocationRow{Base: addr.Addr{Hi: hi, Lo: lo}, Bits: bits, City: city, Country: country})
	}
	return out, rows.Err()
}
