package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/dataset"
	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/handlers"
	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/report"
	"github.com/AssasinWolf/reporteria-tecnica-clientes/tests/e2e/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixtureCSV = `tecnico;ticket;ticket_replika;cliente;estatus;comuna;area_negocio;monto_partner;fechahora_creacion;fechahora_agendamiento;fechahora_atencion;fechahora_finalizacion;fechahora_cerrado
juan_perez;T1;R1;acme_chile;cerrado;santiago;redes;1000.4;2024-03-01 09:00:00;;;2024-03-01 10:30:00;2024-03-02 08:00:00
juan_perez;T2;R2;acme_chile;cerrado;santiago;redes;500;2024-03-03 09:00:00;;;;2024-03-03 10:00:00
maria-lopez;T3;R3;globex;abierto;providencia;energia;250.4;2024-04-01 09:00:00;;;;
;T4;R4;;en_proceso;;;no-es-numero;2024-04-02 09:00:00;;;2024-04-02 09:30:00;
`

type testEnv struct {
	server *httptest.Server
	cache  *mocks.InMemoryCache
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "normalizado.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	logger := zap.NewNop()
	store := dataset.NewStore(path, logger)
	service := report.NewService(store, logger)
	cache := mocks.NewInMemoryCache()

	h := handlers.New(service, cache, logger, time.Minute)
	router := chi.NewRouter()
	h.Routes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, cache: cache}
}

func getJSON(t *testing.T, env *testEnv, path string, dest any) {
	t.Helper()

	resp, err := http.Get(env.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", path)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestTechnicianSummaryEndpoint(t *testing.T) {
	env := setup(t)

	var got []report.TechnicianSummary
	getJSON(t, env, "/resumen_tecnicos", &got)

	assert.Equal(t, []report.TechnicianSummary{
		{Technician: "Juan Perez", Requests: 2, TotalTime: "02:30"},
		{Technician: "Maria Lopez", Requests: 1, TotalTime: "00:00"},
		{Technician: "Sin Técnico", Requests: 1, TotalTime: "00:30"},
	}, got)

	// The response lands in the cache shortly after the request.
	assert.Eventually(t, func() bool { return env.cache.Len() > 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestClientSummaryEndpoint(t *testing.T) {
	env := setup(t)

	var got []report.ClientSummary
	getJSON(t, env, "/resumen_clientes", &got)

	assert.Equal(t, []report.ClientSummary{
		{Client: "Acme Chile", TotalRequests: 2, TotalCost: 1500},
		{Client: "Globex", TotalRequests: 1, TotalCost: 250},
		{Client: "Sin Cliente", TotalRequests: 1, TotalCost: 0},
	}, got)
}

func TestStatusCountsEndpoint(t *testing.T) {
	env := setup(t)

	var got []report.StatusCount
	getJSON(t, env, "/estado_solicitud", &got)

	assert.Equal(t, []report.StatusCount{
		{Status: "Abierto", Total: 1},
		{Status: "Cerrado", Total: 2},
		{Status: "En Proceso", Total: 1},
	}, got)
}

func TestGlobalMetricsEndpoint(t *testing.T) {
	env := setup(t)

	var got report.GlobalMetrics
	getJSON(t, env, "/metricas_generales", &got)

	assert.Equal(t, report.GlobalMetrics{
		TotalValue:    1751,
		TotalRequests: 4,
		TotalHours:    "03:00",
	}, got)
}

func TestTechnicianDetailEndpoint(t *testing.T) {
	env := setup(t)

	var got []report.TechnicianClientDetail
	getJSON(t, env, "/detalle_tecnicos", &got)

	require.Len(t, got, 3)
	assert.Equal(t, report.TechnicianClientDetail{
		Technician:   "Juan Perez",
		Client:       "Acme Chile",
		Commune:      "Santiago",
		BusinessArea: "Redes",
		Period:       "2024-03",
		ServiceTime:  "02:30",
		Amount:       1500,
	}, got[0])
}

func TestDynamicFiltersEndpoint(t *testing.T) {
	env := setup(t)

	t.Run("no selection lists everything", func(t *testing.T) {
		var got report.FilterOptions
		getJSON(t, env, "/filtros_dinamicos", &got)

		assert.Equal(t, []string{"Acme Chile", "Globex", "Sin Cliente"}, got.Clients)
		assert.Equal(t, []string{"Abierto", "Cerrado", "En Proceso"}, got.Statuses)
		assert.Equal(t, []string{"Juan Perez", "Maria Lopez", "Sin Técnico"}, got.Technicians)
		assert.Equal(t, []string{"2024-03", "2024-04", "Sin Fecha"}, got.Periods)
	})

	t.Run("client selection narrows the other dimensions", func(t *testing.T) {
		var got report.FilterOptions
		getJSON(t, env, "/filtros_dinamicos?cliente=acme_chile", &got)

		// The client dimension ignores its own selection.
		assert.Equal(t, []string{"Acme Chile", "Globex", "Sin Cliente"}, got.Clients)
		assert.Equal(t, []string{"Cerrado"}, got.Statuses)
		assert.Equal(t, []string{"Juan Perez"}, got.Technicians)
		assert.Equal(t, []string{"2024-03"}, got.Periods)
	})
}

func TestCombinedFilterEndpoint(t *testing.T) {
	env := setup(t)

	var got report.CombinedReport
	getJSON(t, env, "/filtrado_combinado?cliente=acme_chile", &got)

	assert.Equal(t, report.GlobalMetrics{
		TotalValue:    1500,
		TotalRequests: 2,
		TotalHours:    "02:30",
	}, got.Metrics)
	assert.Equal(t, []report.TechnicianSummary{
		{Technician: "Juan Perez", Requests: 2, TotalTime: "02:30"},
	}, got.TechnicianSummaries)
	assert.Equal(t, []report.StatusCount{{Status: "Cerrado", Total: 2}}, got.StatusCounts)
	assert.Len(t, got.ClientSummaries, 1)
	assert.Len(t, got.Details, 1)
}

func TestTicketDetailsEndpoint(t *testing.T) {
	env := setup(t)

	t.Run("unfiltered returns every row", func(t *testing.T) {
		var got []report.TicketDetail
		getJSON(t, env, "/tickets_detalle", &got)

		require.Len(t, got, 4)
		assert.Equal(t, report.TicketDetail{
			Ticket:      "T1",
			CreatedAt:   "2024-03-01",
			FinalizedAt: "2024-03-01",
			ClosedAt:    "2024-03-02",
			Duration:    "01:30",
			Amount:      1000,
		}, got[0])
		// Missing dates and malformed amounts degrade, never fail.
		assert.Equal(t, report.TicketDetail{
			Ticket:      "T4",
			CreatedAt:   "2024-04-02",
			FinalizedAt: "2024-04-02",
			ClosedAt:    "",
			Duration:    "00:30",
			Amount:      0,
		}, got[3])
	})

	t.Run("filters narrow the listing", func(t *testing.T) {
		var got []report.TicketDetail
		getJSON(t, env, "/tickets_detalle?tecnico=maria_lopez", &got)

		require.Len(t, got, 1)
		assert.Equal(t, "T3", got[0].Ticket)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		var got []report.TicketDetail
		getJSON(t, env, "/tickets_detalle?comuna=valparaiso", &got)

		assert.Empty(t, got)
	})
}
