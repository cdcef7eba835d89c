package hippostomp

import (
	"database/sql"
	"fmt"

	"github.com/cespare/xxhash/v2"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a sqlite database indexing the records of one or more
// collections: their geometry, type and a hash of their raw pixel data so
// identical payloads can be spotted across collections.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens or creates the catalog database at the given path.
func OpenCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS collection (id INTEGER PRIMARY KEY NOT NULL, name STRING NOT NULL UNIQUE, comment STRING, num_images INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS record (collection_id INTEGER NOT NULL, idx INTEGER NOT NULL, bitmap_id INTEGER NOT NULL, type STRING NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, offset INTEGER NOT NULL, length INTEGER NOT NULL, hash TEXT, PRIMARY KEY(collection_id, idx), FOREIGN KEY(collection_id) REFERENCES collection(id))"); err != nil {
		return nil, err
	}

	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) addCollection(col *Collection) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM collection WHERE name = ?", col.Header.Name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO collection (name, comment, num_images) VALUES (?, ?, ?)", col.Header.Name, col.Header.Comment, col.Header.NumImages)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// AddCollection upserts every record of col. Records that fail verification
// are catalogued without a payload hash, as are records whose pixel data
// cannot be read; neither stops the rest of the collection.
func (c *Catalog) AddCollection(col *Collection) error {
	id, err := c.addCollection(col)
	if err != nil {
		return err
	}

	for i, rec := range col.Records {
		var hash sql.NullString
		if rec.Verify() == nil {
			data, err := col.pixelData(rec)
			if err != nil {
				col.logger.Printf("record %d: %v\n", i, err)
			} else {
				hash.String = fmt.Sprintf("%016X", xxhash.Sum64(data))
				hash.Valid = true
			}
		}

		if _, err := c.db.Exec("INSERT OR REPLACE INTO record (collection_id, idx, bitmap_id, type, width, height, offset, length, hash) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			id, i, rec.BitmapID, rec.Type.String(), rec.Width, rec.Height, rec.Offset, rec.Length, hash); err != nil {
			return err
		}
	}

	return nil
}
