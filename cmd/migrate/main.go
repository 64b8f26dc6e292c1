// Command migrate creates and seeds the ACL tables that gate the API.
// The ERP tables (partners, orders, routes, leads) already exist and
// are owned by the ERP; only the AD_ACL_* tables belong to this app.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// Raised by Oracle when the table name is already in use.
const oraNameInUse = "ORA-00955"

var ddl = []string{
	`CREATE TABLE AD_ACL_PERMISSION_DEFS (
	PERMISSION_KEY  VARCHAR2(100) NOT NULL,
	CATEGORY        VARCHAR2(20)  NOT NULL,
	DEFAULT_ADMIN   CHAR(1) DEFAULT 'N' NOT NULL,
	DEFAULT_GERENTE CHAR(1) DEFAULT 'N' NOT NULL,
	DEFAULT_VENDEDOR CHAR(1) DEFAULT 'N' NOT NULL,
	DESCRICAO       VARCHAR2(400),
	CONSTRAINT PK_ACL_PERMISSION_DEFS PRIMARY KEY (PERMISSION_KEY)
)`,
	`CREATE TABLE AD_ACL_USER_RULES (
	CODUSUARIO  NUMBER(10)    NOT NULL,
	ID_EMPRESA  NUMBER(10)    NOT NULL,
	PERMISSION_KEY VARCHAR2(100) NOT NULL,
	ALLOWED     CHAR(1) DEFAULT 'N' NOT NULL,
	DATA_SCOPE  VARCHAR2(10),
	DTCAD       DATE DEFAULT SYSDATE,
	CONSTRAINT PK_ACL_USER_RULES PRIMARY KEY (CODUSUARIO, ID_EMPRESA, PERMISSION_KEY)
)`,
}

// seedDef is one role-default row. Flags are admin, manager, salesperson.
type seedDef struct {
	key      string
	category string
	admin    bool
	manager  bool
	seller   bool
	descr    string
}

var seeds = []seedDef{
	{"PAGE_LEADS", "PAGE", true, true, true, "Funil de vendas (kanban)"},
	{"PAGE_PARCEIROS", "PAGE", true, true, true, "Carteira de clientes"},
	{"PAGE_PEDIDOS", "PAGE", true, true, true, "Consulta de pedidos"},
	{"PAGE_FINANCEIRO", "PAGE", true, true, false, "Titulos a receber"},
	{"PAGE_ROTAS", "PAGE", true, true, true, "Rotas e visitas"},
	{"PAGE_PRODUTOS", "PAGE", true, true, true, "Catalogo de produtos"},
	{"FEATURE_CHECKIN", "FEATURE", true, true, true, "Check-in e check-out de visitas"},
	{"FEATURE_EXPORT", "FEATURE", true, true, false, "Exportacao de relatorios"},
	{"DATA_LEADS", "DATA", true, true, true, "Escopo de leads visiveis"},
	{"DATA_PEDIDOS", "DATA", true, true, true, "Escopo de pedidos visiveis"},
	{"DATA_FINANCEIRO", "DATA", true, true, false, "Escopo de titulos visiveis"},
}

const insertDef = `
MERGE INTO AD_ACL_PERMISSION_DEFS d
USING (SELECT :permKey AS PERMISSION_KEY FROM DUAL) s
ON (d.PERMISSION_KEY = s.PERMISSION_KEY)
WHEN NOT MATCHED THEN INSERT
	(PERMISSION_KEY, CATEGORY, DEFAULT_ADMIN, DEFAULT_GERENTE, DEFAULT_VENDEDOR, DESCRICAO)
VALUES
	(:permKey, :category, :defAdmin, :defGerente, :defVendedor, :descricao)`

func main() {
	seedOnly := flag.Bool("seed-only", false, "skip DDL, only merge the default permission rows")
	flag.Parse()

	if err := run(*seedOnly); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(seedOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := oracle.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if !seedOnly {
		for _, stmt := range ddl {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				if strings.Contains(err.Error(), oraNameInUse) {
					continue
				}
				return fmt.Errorf("ddl: %w", err)
			}
		}
		log.Info("acl tables ready")
	}

	for _, s := range seeds {
		binds := oracle.Binds{
			"permKey":     s.key,
			"category":    s.category,
			"defAdmin":    flag01(s.admin),
			"defGerente":  flag01(s.manager),
			"defVendedor": flag01(s.seller),
			"descricao":   s.descr,
		}
		if _, err := db.ExecContext(ctx, insertDef, binds.Args()...); err != nil {
			return fmt.Errorf("seed %s: %w", s.key, err)
		}
	}
	log.Info("permission defaults seeded", zap.Int("keys", len(seeds)))
	return nil
}

func flag01(b bool) string {
	if b {
		return "S"
	}
	return "N"
}
