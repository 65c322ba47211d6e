// seed genera un script SQL para poblar el catálogo de productos a partir de
// un CSV exportado desde un POS legado (habitualmente codificado en
// ISO-8859-1, con tildes y eñes).
//
// Columnas esperadas: sku,name,description,price,quantity
//
// Uso: go run ./cmd/seed <productos.csv> <user_id> <location_id>
// Escribe: scripts/seed_products.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/shopspring/decimal"
)

type productRow struct {
	sku         string
	name        string
	description string
	price       decimal.Decimal
	quantity    int64
}

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "uso: seed <productos.csv> <user_id> <location_id>")
		os.Exit(1)
	}
	csvPath, userID, locationID := os.Args[1], os.Args[2], os.Args[3]

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Los exports de POS viejos vienen en ISO-8859-1; decodificar a UTF-8.
	reader := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	reader.FieldsPerRecord = 5

	records, err := reader.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var products []productRow
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "sku") {
			continue // cabecera
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: precio inválido %q, omitida\n", i+1, rec[3])
			continue
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64)
		if err != nil || qty < 0 {
			fmt.Fprintf(os.Stderr, "Fila %d: cantidad inválida %q, omitida\n", i+1, rec[4])
			continue
		}
		products = append(products, productRow{
			sku:         strings.TrimSpace(rec[0]),
			name:        strings.TrimSpace(rec[1]),
			description: strings.TrimSpace(rec[2]),
			price:       price,
			quantity:    qty,
		})
	}

	moduleRoot := findModuleRoot()
	outDir := filepath.Join(moduleRoot, "scripts")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "seed_products.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de productos importado desde CSV de POS\n")
	out.WriteString("-- Cada producto se crea con su nivel inicial y el movimiento 'in' correspondiente\n\n")
	out.WriteString("BEGIN;\n\n")

	for _, p := range products {
		fmt.Fprintf(out, "WITH new_product AS (\n")
		fmt.Fprintf(out, "  INSERT INTO products (id, user_id, name, sku, description, price, created_at, updated_at)\n")
		fmt.Fprintf(out, "  VALUES (gen_random_uuid(), '%s', '%s', '%s', '%s', %s, now(), now())\n",
			userID, escapeSQL(p.name), escapeSQL(p.sku), escapeSQL(p.description), p.price.String())
		fmt.Fprintf(out, "  ON CONFLICT (user_id, sku) DO NOTHING\n")
		fmt.Fprintf(out, "  RETURNING id\n")
		fmt.Fprintf(out, "), new_level AS (\n")
		fmt.Fprintf(out, "  INSERT INTO stock_levels (id, product_id, location_id, quantity, updated_at)\n")
		fmt.Fprintf(out, "  SELECT gen_random_uuid(), id, '%s', %d, now() FROM new_product\n", locationID, p.quantity)
		fmt.Fprintf(out, ")\n")
		fmt.Fprintf(out, "INSERT INTO stock_movements (id, product_id, location_id, user_id, type, quantity, notes, created_at)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), id, '%s', '%s', 'in', %d, 'Initial stock', now()\n",
			locationID, userID, p.quantity)
		fmt.Fprintf(out, "FROM new_product WHERE %d > 0;\n\n", p.quantity)
	}

	out.WriteString("COMMIT;\n")
	fmt.Printf("Generado %s: %d productos\n", outPath, len(products))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
