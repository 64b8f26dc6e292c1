package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/application/route"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// VisitRepository stores field visits in AD_VISITAS (alias v).
type VisitRepository struct {
	db oracle.Executor
}

func NewVisitRepository(db oracle.Executor) *VisitRepository {
	return &VisitRepository{db: db}
}

const visitColumns = `v.CODVISITA, v.ID_EMPRESA, v.CODROTA, v.CODPARC, v.CODVEND,
v.DATA_VISITA, v.HORA_CHECKIN, v.HORA_CHECKOUT,
v.LAT_CHECKIN, v.LNG_CHECKIN, v.LAT_CHECKOUT, v.LNG_CHECKOUT,
v.STATUS, v.OBSERVACAO, v.PEDIDO_GERADO, v.NUNOTA, v.VLRTOTAL,
p.NOMEPARC, vend.APELIDO AS NOMEVENDEDOR, r.DESCRICAO AS NOME_ROTA`

const visitFrom = `
FROM AD_VISITAS v
LEFT JOIN AS_PARCEIROS p
  ON v.CODPARC = p.CODPARC
 AND p.ID_SISTEMA = v.ID_EMPRESA
 AND p.SANKHYA_ATUAL = 'S'
LEFT JOIN AS_VENDEDORES vend
  ON v.CODVEND = vend.CODVEND
 AND vend.ID_SISTEMA = v.ID_EMPRESA
LEFT JOIN AD_ROTAS r
  ON v.CODROTA = r.CODROTA
 AND r.ID_EMPRESA = v.ID_EMPRESA`

func (r *VisitRepository) List(ctx context.Context, companyID int64, scope access.ScopeFilter, q route.VisitQuery) ([]route.Visit, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s%s WHERE v.ID_EMPRESA = :idEmpresa", visitColumns, visitFrom)
	binds := oracle.Binds{"idEmpresa": companyID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}
	if q.RouteID != nil {
		sb.WriteString(" AND v.CODROTA = :codRota")
		binds["codRota"] = *q.RouteID
	}
	if q.PartnerID != nil {
		sb.WriteString(" AND v.CODPARC = :codParc")
		binds["codParc"] = *q.PartnerID
	}
	if q.Status != "" {
		sb.WriteString(" AND v.STATUS = :status")
		binds["status"] = q.Status
	}
	if q.DateFrom != nil {
		sb.WriteString(" AND v.DATA_VISITA >= :dataInicio")
		binds["dataInicio"] = *q.DateFrom
	}
	if q.DateTo != nil {
		sb.WriteString(" AND v.DATA_VISITA <= :dataFim")
		binds["dataFim"] = *q.DateTo
	}
	sb.WriteString(" ORDER BY v.DATA_VISITA DESC, v.HORA_CHECKIN DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var visits []route.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

func (r *VisitRepository) FindByID(ctx context.Context, companyID, visitID int64, scope access.ScopeFilter) (*route.Visit, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s%s WHERE v.ID_EMPRESA = :idEmpresa AND v.CODVISITA = :codVisita", visitColumns, visitFrom)
	binds := oracle.Binds{"idEmpresa": companyID, "codVisita": visitID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}

	v, err := scanVisit(r.db.QueryRowContext(ctx, sb.String(), binds.Args()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find visit: %w", err)
	}
	return v, nil
}

const insertCheckInQuery = `
INSERT INTO AD_VISITAS (
  ID_EMPRESA, CODROTA, CODPARC, CODVEND, DATA_VISITA,
  HORA_CHECKIN, LAT_CHECKIN, LNG_CHECKIN, STATUS, OBSERVACAO, PEDIDO_GERADO, DTCAD
) VALUES (
  :idEmpresa, :codRota, :codParc, :codVend, TRUNC(SYSDATE),
  SYSTIMESTAMP, :latitude, :longitude, 'CHECKIN', :observacao, 'N', SYSDATE
)`

const lastVisitQuery = `
SELECT CODVISITA
FROM AD_VISITAS
WHERE ID_EMPRESA = :idEmpresa
  AND CODVEND = :codVend
ORDER BY CODVISITA DESC
FETCH FIRST 1 ROWS ONLY`

func (r *VisitRepository) InsertCheckIn(ctx context.Context, companyID, repID int64, in route.CheckInInput) (int64, error) {
	binds := oracle.Binds{
		"idEmpresa":  companyID,
		"codRota":    nullInt(in.RouteID),
		"codParc":    in.PartnerID,
		"codVend":    repID,
		"latitude":   nullFloat(in.Latitude),
		"longitude":  nullFloat(in.Longitude),
		"observacao": nullString(in.Note),
	}
	if _, err := r.db.ExecContext(ctx, insertCheckInQuery, binds.Args()...); err != nil {
		return 0, fmt.Errorf("insert check-in: %w", err)
	}

	var id int64
	idBinds := oracle.Binds{"idEmpresa": companyID, "codVend": repID}
	if err := r.db.QueryRowContext(ctx, lastVisitQuery, idBinds.Args()...).Scan(&id); err != nil {
		return 0, fmt.Errorf("read inserted visit id: %w", err)
	}
	return id, nil
}

const checkOutQuery = `
UPDATE AD_VISITAS
SET HORA_CHECKOUT = SYSTIMESTAMP,
    LAT_CHECKOUT = :latitude,
    LNG_CHECKOUT = :longitude,
    STATUS = 'CONCLUIDA',
    OBSERVACAO = :observacao,
    PEDIDO_GERADO = :pedidoGerado,
    NUNOTA = :nunota,
    VLRTOTAL = :vlrTotal
WHERE CODVISITA = :codVisita
  AND ID_EMPRESA = :idEmpresa`

func (r *VisitRepository) UpdateCheckOut(ctx context.Context, companyID, visitID int64, in route.CheckOutInput) error {
	pedidoGerado := "N"
	if in.OrderID != nil {
		pedidoGerado = "S"
	}
	binds := oracle.Binds{
		"latitude":     nullFloat(in.Latitude),
		"longitude":    nullFloat(in.Longitude),
		"observacao":   nullString(in.Note),
		"pedidoGerado": pedidoGerado,
		"nunota":       nullInt(in.OrderID),
		"vlrTotal":     nullDecimal(in.OrderTotal),
		"codVisita":    visitID,
		"idEmpresa":    companyID,
	}
	if _, err := r.db.ExecContext(ctx, checkOutQuery, binds.Args()...); err != nil {
		return fmt.Errorf("update check-out: %w", err)
	}
	return nil
}

const cancelVisitQuery = `
UPDATE AD_VISITAS
SET STATUS = 'CANCELADA', OBSERVACAO = :observacao
WHERE CODVISITA = :codVisita
  AND ID_EMPRESA = :idEmpresa`

func (r *VisitRepository) Cancel(ctx context.Context, companyID, visitID int64, note string) error {
	binds := oracle.Binds{"observacao": note, "codVisita": visitID, "idEmpresa": companyID}
	if _, err := r.db.ExecContext(ctx, cancelVisitQuery, binds.Args()...); err != nil {
		return fmt.Errorf("cancel visit: %w", err)
	}
	return nil
}

func scanVisit(row rowScanner) (*route.Visit, error) {
	var (
		v           route.Visit
		routeID     sql.NullInt64
		date        sql.NullTime
		checkinAt   sql.NullTime
		checkoutAt  sql.NullTime
		checkinLat  sql.NullFloat64
		checkinLng  sql.NullFloat64
		checkoutLat sql.NullFloat64
		checkoutLng sql.NullFloat64
		note        sql.NullString
		orderGen    sql.NullString
		orderID     sql.NullInt64
		orderTotal  decimal.NullDecimal
		partnerName sql.NullString
		repName     sql.NullString
		routeName   sql.NullString
	)
	err := row.Scan(&v.ID, &v.CompanyID, &routeID, &v.PartnerID, &v.RepID,
		&date, &checkinAt, &checkoutAt,
		&checkinLat, &checkinLng, &checkoutLat, &checkoutLng,
		&v.Status, &note, &orderGen, &orderID, &orderTotal,
		&partnerName, &repName, &routeName)
	if err != nil {
		return nil, err
	}

	if routeID.Valid {
		v.RouteID = &routeID.Int64
	}
	if date.Valid {
		v.Date = &date.Time
	}
	if checkinAt.Valid {
		v.CheckinAt = &checkinAt.Time
	}
	if checkoutAt.Valid {
		v.CheckoutAt = &checkoutAt.Time
	}
	if checkinLat.Valid {
		v.CheckinLat = &checkinLat.Float64
	}
	if checkinLng.Valid {
		v.CheckinLng = &checkinLng.Float64
	}
	if checkoutLat.Valid {
		v.CheckoutLat = &checkoutLat.Float64
	}
	if checkoutLng.Valid {
		v.CheckoutLng = &checkoutLng.Float64
	}
	v.Note = note.String
	v.OrderGenerated = orderGen.String == "S"
	if orderID.Valid {
		v.OrderID = &orderID.Int64
	}
	if orderTotal.Valid {
		v.OrderTotal = &orderTotal.Decimal
	}
	v.PartnerName = partnerName.String
	v.RepName = repName.String
	v.RouteName = routeName.String
	return &v, nil
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
