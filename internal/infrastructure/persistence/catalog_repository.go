package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/application/catalog"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// CatalogRepository reads products and price tables. Catalog data has
// no rep ownership, so no scope filter is involved.
type CatalogRepository struct {
	db oracle.Executor
}

func NewCatalogRepository(db oracle.Executor) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListProducts(ctx context.Context, companyID int64, search string) ([]catalog.Product, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT CODPROD, ID_SISTEMA, DESCRPROD, UNIDADE, ATIVO
FROM AS_PRODUTOS
WHERE ID_SISTEMA = :idEmpresa
  AND ATIVO = 'S'`)
	binds := oracle.Binds{"idEmpresa": companyID}
	if search != "" {
		sb.WriteString(" AND UPPER(DESCRPROD) LIKE '%' || UPPER(:search) || '%'")
		binds["search"] = search
	}
	sb.WriteString(" ORDER BY DESCRPROD")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var (
			p     catalog.Product
			unit  sql.NullString
			ativo string
		)
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Description, &unit, &ativo); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Unit = unit.String
		p.Active = ativo == "S"
		products = append(products, p)
	}
	return products, rows.Err()
}

const listPriceTablesQuery = `
SELECT CODTAB, ID_SISTEMA, DESCRICAO
FROM AS_TABELASPRECOS
WHERE ID_SISTEMA = :idEmpresa
ORDER BY CODTAB`

func (r *CatalogRepository) ListPriceTables(ctx context.Context, companyID int64) ([]catalog.PriceTable, error) {
	binds := oracle.Binds{"idEmpresa": companyID}
	rows, err := r.db.QueryContext(ctx, listPriceTablesQuery, binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list price tables: %w", err)
	}
	defer rows.Close()

	var tables []catalog.PriceTable
	for rows.Next() {
		var t catalog.PriceTable
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Description); err != nil {
			return nil, fmt.Errorf("scan price table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

const listPricesQuery = `
SELECT CODTAB, CODPROD, VLRVENDA
FROM AS_PRECOS
WHERE ID_SISTEMA = :idEmpresa
  AND CODTAB = :codTab
ORDER BY CODPROD`

func (r *CatalogRepository) ListPrices(ctx context.Context, companyID, tableID int64) ([]catalog.Price, error) {
	binds := oracle.Binds{"idEmpresa": companyID, "codTab": tableID}
	rows, err := r.db.QueryContext(ctx, listPricesQuery, binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	var prices []catalog.Price
	for rows.Next() {
		var p catalog.Price
		if err := rows.Scan(&p.TableID, &p.ProductID, &p.Value); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

const findPriceQuery = `
SELECT CODTAB, CODPROD, VLRVENDA
FROM AS_PRECOS
WHERE ID_SISTEMA = :idEmpresa
  AND CODTAB = :codTab
  AND CODPROD = :codProd`

func (r *CatalogRepository) FindPrice(ctx context.Context, companyID, tableID, productID int64) (*catalog.Price, error) {
	binds := oracle.Binds{"idEmpresa": companyID, "codTab": tableID, "codProd": productID}

	var p catalog.Price
	row := r.db.QueryRowContext(ctx, findPriceQuery, binds.Args()...)
	if err := row.Scan(&p.TableID, &p.ProductID, &p.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find price: %w", err)
	}
	return &p, nil
}
