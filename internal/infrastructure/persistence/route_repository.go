package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crm/backend/internal/application/route"
	"github.com/crm/backend/internal/domain/access"
	"github.com/crm/backend/internal/infrastructure/oracle"
)

// RouteRepository stores visit plans in AD_ROTAS (alias r) and their
// ordered stops in AD_ROTA_PARCEIROS.
type RouteRepository struct {
	db oracle.Executor
}

func NewRouteRepository(db oracle.Executor) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `r.CODROTA, r.ID_EMPRESA, r.DESCRICAO, r.CODVEND, r.TIPO_RECORRENCIA,
r.DIAS_SEMANA, r.INTERVALO_DIAS, r.DATA_INICIO, r.DATA_FIM, r.ATIVO, r.DTCAD,
v.APELIDO AS NOMEVENDEDOR`

const routeFrom = `
FROM AD_ROTAS r
LEFT JOIN AS_VENDEDORES v
  ON r.CODVEND = v.CODVEND
 AND v.ID_SISTEMA = r.ID_EMPRESA`

func (r *RouteRepository) List(ctx context.Context, companyID int64, scope access.ScopeFilter) ([]route.Route, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s%s WHERE r.ID_EMPRESA = :idEmpresa AND r.ATIVO = 'S'", routeColumns, routeFrom)
	binds := oracle.Binds{"idEmpresa": companyID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}
	sb.WriteString(" ORDER BY r.DESCRICAO")

	rows, err := r.db.QueryContext(ctx, sb.String(), binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []route.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range routes {
		stops, err := r.listStops(ctx, companyID, routes[i].ID)
		if err != nil {
			return nil, err
		}
		routes[i].Stops = stops
	}
	return routes, nil
}

func (r *RouteRepository) FindByID(ctx context.Context, companyID, routeID int64, scope access.ScopeFilter) (*route.Route, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s%s WHERE r.ID_EMPRESA = :idEmpresa AND r.CODROTA = :codRota", routeColumns, routeFrom)
	binds := oracle.Binds{"idEmpresa": companyID, "codRota": routeID}.Merge(scope.Binds)
	if scope.Fragment != "" {
		sb.WriteString(" " + scope.Fragment)
	}

	rt, err := scanRoute(r.db.QueryRowContext(ctx, sb.String(), binds.Args()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find route: %w", err)
	}

	stops, err := r.listStops(ctx, companyID, routeID)
	if err != nil {
		return nil, err
	}
	rt.Stops = stops
	return rt, nil
}

const listStopsQuery = `
SELECT rp.CODROTAPARC, rp.CODROTA, rp.CODPARC, rp.ORDEM,
       rp.LATITUDE, rp.LONGITUDE, rp.TEMPO_ESTIMADO,
       p.NOMEPARC, p.ENDERECO, p.CIDADE, p.UF
FROM AD_ROTA_PARCEIROS rp
LEFT JOIN AS_PARCEIROS p
  ON rp.CODPARC = p.CODPARC
 AND p.ID_SISTEMA = :idEmpresa
 AND p.SANKHYA_ATUAL = 'S'
WHERE rp.CODROTA = :codRota
ORDER BY rp.ORDEM`

func (r *RouteRepository) listStops(ctx context.Context, companyID, routeID int64) ([]route.Stop, error) {
	binds := oracle.Binds{"idEmpresa": companyID, "codRota": routeID}
	rows, err := r.db.QueryContext(ctx, listStopsQuery, binds.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list route stops: %w", err)
	}
	defer rows.Close()

	var stops []route.Stop
	for rows.Next() {
		var (
			s           route.Stop
			lat         sql.NullFloat64
			lng         sql.NullFloat64
			minutes     sql.NullInt64
			partnerName sql.NullString
			address     sql.NullString
			city        sql.NullString
			state       sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.RouteID, &s.PartnerID, &s.Order,
			&lat, &lng, &minutes,
			&partnerName, &address, &city, &state); err != nil {
			return nil, fmt.Errorf("scan route stop: %w", err)
		}
		if lat.Valid {
			s.Latitude = &lat.Float64
		}
		if lng.Valid {
			s.Longitude = &lng.Float64
		}
		if minutes.Valid {
			s.EstimatedMinutes = &minutes.Int64
		}
		s.PartnerName = partnerName.String
		s.Address = address.String
		s.City = city.String
		s.State = state.String
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

const insertRouteQuery = `
INSERT INTO AD_ROTAS (
  ID_EMPRESA, DESCRICAO, CODVEND, TIPO_RECORRENCIA, DIAS_SEMANA,
  INTERVALO_DIAS, DATA_INICIO, DATA_FIM, ATIVO, DTCAD
) VALUES (
  :idEmpresa, :descricao, :codVend, :tipoRecorrencia, :diasSemana,
  :intervaloDias, :dataInicio, :dataFim, 'S', SYSDATE
)`

const lastRouteQuery = `
SELECT CODROTA
FROM AD_ROTAS
WHERE ID_EMPRESA = :idEmpresa
  AND CODVEND = :codVend
ORDER BY CODROTA DESC
FETCH FIRST 1 ROWS ONLY`

func (r *RouteRepository) Insert(ctx context.Context, companyID int64, in route.RouteInput) (int64, error) {
	binds := oracle.Binds{
		"idEmpresa":       companyID,
		"descricao":       in.Description,
		"codVend":         *in.RepID,
		"tipoRecorrencia": nullString(in.RecurrenceType),
		"diasSemana":      nullString(in.Weekdays),
		"intervaloDias":   nullInt(in.IntervalDays),
		"dataInicio":      nullTime(in.StartDate),
		"dataFim":         nullTime(in.EndDate),
	}
	if _, err := r.db.ExecContext(ctx, insertRouteQuery, binds.Args()...); err != nil {
		return 0, fmt.Errorf("insert route: %w", err)
	}

	var id int64
	idBinds := oracle.Binds{"idEmpresa": companyID, "codVend": *in.RepID}
	if err := r.db.QueryRowContext(ctx, lastRouteQuery, idBinds.Args()...).Scan(&id); err != nil {
		return 0, fmt.Errorf("read inserted route id: %w", err)
	}

	if len(in.Stops) > 0 {
		if err := r.insertStops(ctx, id, in.Stops); err != nil {
			return 0, err
		}
	}
	return id, nil
}

const updateRouteQuery = `
UPDATE AD_ROTAS
SET DESCRICAO = :descricao,
    CODVEND = :codVend,
    TIPO_RECORRENCIA = :tipoRecorrencia,
    DIAS_SEMANA = :diasSemana,
    INTERVALO_DIAS = :intervaloDias,
    DATA_INICIO = :dataInicio,
    DATA_FIM = :dataFim,
    ATIVO = :ativo,
    DTALTER = SYSDATE
WHERE CODROTA = :codRota
  AND ID_EMPRESA = :idEmpresa`

func (r *RouteRepository) Update(ctx context.Context, companyID, routeID int64, in route.RouteInput) error {
	ativo := "S"
	if !in.Active {
		ativo = "N"
	}
	binds := oracle.Binds{
		"descricao":       in.Description,
		"codVend":         nullInt(in.RepID),
		"tipoRecorrencia": nullString(in.RecurrenceType),
		"diasSemana":      nullString(in.Weekdays),
		"intervaloDias":   nullInt(in.IntervalDays),
		"dataInicio":      nullTime(in.StartDate),
		"dataFim":         nullTime(in.EndDate),
		"ativo":           ativo,
		"codRota":         routeID,
		"idEmpresa":       companyID,
	}
	if _, err := r.db.ExecContext(ctx, updateRouteQuery, binds.Args()...); err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	return nil
}

const deleteStopsQuery = `DELETE FROM AD_ROTA_PARCEIROS WHERE CODROTA = :codRota`

// ReplaceStops rewrites the full stop list of a route.
func (r *RouteRepository) ReplaceStops(ctx context.Context, routeID int64, stops []route.StopInput) error {
	binds := oracle.Binds{"codRota": routeID}
	if _, err := r.db.ExecContext(ctx, deleteStopsQuery, binds.Args()...); err != nil {
		return fmt.Errorf("delete route stops: %w", err)
	}
	return r.insertStops(ctx, routeID, stops)
}

const insertStopQuery = `
INSERT INTO AD_ROTA_PARCEIROS (CODROTA, CODPARC, ORDEM, LATITUDE, LONGITUDE, TEMPO_ESTIMADO)
VALUES (:codRota, :codParc, :ordem, :latitude, :longitude, :tempoEstimado)`

func (r *RouteRepository) insertStops(ctx context.Context, routeID int64, stops []route.StopInput) error {
	for _, s := range stops {
		binds := oracle.Binds{
			"codRota":       routeID,
			"codParc":       s.PartnerID,
			"ordem":         s.Order,
			"latitude":      nullFloat(s.Latitude),
			"longitude":     nullFloat(s.Longitude),
			"tempoEstimado": nullInt(s.EstimatedMinutes),
		}
		if _, err := r.db.ExecContext(ctx, insertStopQuery, binds.Args()...); err != nil {
			return fmt.Errorf("insert route stop: %w", err)
		}
	}
	return nil
}

const softDeleteRouteQuery = `
UPDATE AD_ROTAS
SET ATIVO = 'N', DTALTER = SYSDATE
WHERE CODROTA = :codRota
  AND ID_EMPRESA = :idEmpresa`

func (r *RouteRepository) SoftDelete(ctx context.Context, companyID, routeID int64) error {
	binds := oracle.Binds{"codRota": routeID, "idEmpresa": companyID}
	if _, err := r.db.ExecContext(ctx, softDeleteRouteQuery, binds.Args()...); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

func scanRoute(row rowScanner) (*route.Route, error) {
	var (
		rt         route.Route
		recurrence sql.NullString
		weekdays   sql.NullString
		interval   sql.NullInt64
		startDate  sql.NullTime
		endDate    sql.NullTime
		ativo      string
		createdAt  sql.NullTime
		repName    sql.NullString
	)
	err := row.Scan(&rt.ID, &rt.CompanyID, &rt.Description, &rt.RepID, &recurrence,
		&weekdays, &interval, &startDate, &endDate, &ativo, &createdAt, &repName)
	if err != nil {
		return nil, err
	}
	rt.RecurrenceType = recurrence.String
	rt.Weekdays = weekdays.String
	if interval.Valid {
		rt.IntervalDays = &interval.Int64
	}
	if startDate.Valid {
		rt.StartDate = &startDate.Time
	}
	if endDate.Valid {
		rt.EndDate = &endDate.Time
	}
	rt.Active = ativo == "S"
	if createdAt.Valid {
		rt.CreatedAt = &createdAt.Time
	}
	rt.RepName = repName.String
	return &rt, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
