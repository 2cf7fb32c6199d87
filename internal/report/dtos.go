package report

// TechnicianSummary is one technician's workload rollup.
type TechnicianSummary struct {
	Technician string `json:"tecnico"`
	Requests   int    `json:"solicitudes"`
	TotalTime  string `json:"tiempo_total"`
}

// ClientSummary is one client's request volume and billed cost.
type ClientSummary struct {
	Client        string `json:"cliente"`
	TotalRequests int    `json:"total_solicitudes"`
	TotalCost     int64  `json:"costo_total"`
}

// TechnicianClientDetail is one technician×client pairing.
type TechnicianClientDetail struct {
	Technician   string `json:"tecnico"`
	Client       string `json:"cliente"`
	Commune      string `json:"comuna"`
	BusinessArea string `json:"area_negocio"`
	Period       string `json:"mes_anio"`
	ServiceTime  string `json:"hora_atencion"`
	Amount       int64  `json:"monto_partner"`
}

// StatusCount is the distinct-ticket count for one status.
type StatusCount struct {
	Status string `json:"estado"`
	Total  int    `json:"total"`
}

// GlobalMetrics are dataset-wide totals.
type GlobalMetrics struct {
	TotalValue    int64  `json:"valor_total"`
	TotalRequests int    `json:"total_solicitudes"`
	TotalHours    string `json:"horas_totales"`
}

// CombinedReport bundles all five views computed from one filtered snapshot,
// so the numbers are mutually consistent.
type CombinedReport struct {
	TechnicianSummaries []TechnicianSummary      `json:"resumen_tecnicos"`
	ClientSummaries     []ClientSummary          `json:"resumen_clientes"`
	Details             []TechnicianClientDetail `json:"detalle_tecnicos"`
	StatusCounts        []StatusCount            `json:"estado_solicitud"`
	Metrics             GlobalMetrics            `json:"metricas_generales"`
}

// FilterOptions holds the still-reachable values per filter dimension given
// the other active selections.
type FilterOptions struct {
	Clients     []string `json:"clientes"`
	Statuses    []string `json:"estados"`
	Technicians []string `json:"tecnicos"`
	Periods     []string `json:"fechas"`
}

// TicketDetail is one row-level record of the detail listing. Dates are
// "YYYY-MM-DD", empty when missing.
type TicketDetail struct {
	Ticket      string `json:"ticket"`
	CreatedAt   string `json:"fechahora_creacion"`
	FinalizedAt string `json:"fechahora_finalizacion"`
	ClosedAt    string `json:"fechahora_cerrado"`
	Duration    string `json:"duracion_real"`
	Amount      int64  `json:"monto_partner"`
}
