// Package datagen writes deliberately messy demo snapshot files. The
// generated pair exercises every data-quality issue the cleaner can emit:
// inconsistent SKU spellings, string nulls, duplicate keys, missing
// locations, and non-numeric, fractional, and negative quantities.
package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/agentstation/stocktake/pkg/errors"
)

// locations used by the demo warehouses.
var locations = []string{"A", "B", "C", "D"}

// Generator produces demo snapshot data.
type Generator struct {
	faker *gofakeit.Faker
}

// New creates a generator. The seed makes output reproducible.
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// WriteSnapshots writes snapshot_1.csv and snapshot_2.csv with n base items
// each into dir. Snapshot 1 uses synonym column names (qty, warehouse,
// product_name, updated_at) to exercise harmonization; snapshot 2 uses the
// canonical names. Returns the two file paths.
func (g *Generator) WriteSnapshots(dir string, n int) (string, string, error) {
	if n < 8 {
		n = 8
	}

	path1 := filepath.Join(dir, "snapshot_1.csv")
	path2 := filepath.Join(dir, "snapshot_2.csv")

	if err := g.writeSnapshot(path1, n, true); err != nil {
		return "", "", err
	}
	if err := g.writeSnapshot(path2, n, false); err != nil {
		return "", "", err
	}
	return path1, path2, nil
}

func (g *Generator) writeSnapshot(path string, n int, synonyms bool) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"sku", "quantity", "location", "name", "last_counted"}
	if synonyms {
		header = []string{"sku", "qty", "warehouse", "product_name", "updated_at"}
	}
	if err := w.Write(header); err != nil {
		return errors.WrapIO("write", path, err)
	}

	counted := time.Now().AddDate(0, 0, -g.faker.Number(1, 14)).Format("2006-01-02")

	for i := 1; i <= n; i++ {
		row := []string{
			g.sku(i),
			g.quantity(i),
			g.location(i),
			g.faker.ProductName(),
			counted,
		}
		if err := w.Write(row); err != nil {
			return errors.WrapIO("write", path, err)
		}

		// Every eighth item also appears as a duplicate key row.
		if i%8 == 0 {
			dup := []string{
				fmt.Sprintf("SKU-%03d", i),
				fmt.Sprintf("%d", g.faker.Number(1, 20)),
				row[2],
				row[3],
				counted,
			}
			if err := w.Write(dup); err != nil {
				return errors.WrapIO("write", path, err)
			}
		}
	}

	w.Flush()
	return errors.WrapIO("write", path, w.Error())
}

// sku returns a dirty spelling for some items and a string null for a few.
func (g *Generator) sku(i int) string {
	switch i % 7 {
	case 0:
		return fmt.Sprintf("sku %03d", i)
	case 3:
		return fmt.Sprintf("SKU_%03d", i)
	case 5:
		return fmt.Sprintf("SKU%03d", i)
	case 6:
		if i%14 == 6 {
			return "none"
		}
		return fmt.Sprintf(" SKU-%03d ", i)
	default:
		return fmt.Sprintf("SKU-%03d", i)
	}
}

// quantity returns mostly clean integers with occasional floats, negatives,
// and junk.
func (g *Generator) quantity(i int) string {
	switch i % 9 {
	case 0:
		// Always fractional so the rounding path is exercised.
		return fmt.Sprintf("%d.5", g.faker.Number(0, 40))
	case 4:
		return fmt.Sprintf("-%d", g.faker.Number(1, 10))
	case 7:
		return "oops"
	default:
		return fmt.Sprintf("%d", g.faker.Number(0, 200))
	}
}

// location returns a warehouse code, blank for a few rows.
func (g *Generator) location(i int) string {
	if i%11 == 0 {
		return ""
	}
	return locations[g.faker.Number(0, len(locations)-1)]
}
