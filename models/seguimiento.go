package models

import "time"

// Estados del ciclo de vida de un reporte. Cerrado is terminal.
const (
	EstadoNotificado = "notificado"
	EstadoRadicado   = "radicado"
	EstadoEnGestion  = "en-gestion"
	EstadoAsignado   = "asignado"
	EstadoEnProceso  = "en-proceso"
	EstadoResuelto   = "resuelto"
	EstadoCerrado    = "cerrado"
)

const (
	PrioridadBaja    = "baja"
	PrioridadMedia   = "media"
	PrioridadAlta    = "alta"
	PrioridadUrgente = "urgente"
)

var Estados = []string{
	EstadoNotificado,
	EstadoRadicado,
	EstadoEnGestion,
	EstadoAsignado,
	EstadoEnProceso,
	EstadoResuelto,
	EstadoCerrado,
}

var Prioridades = []string{PrioridadBaja, PrioridadMedia, PrioridadAlta, PrioridadUrgente}

// ReporteSeguimiento is the current-state projection of a report, one row
// per reconocimiento, created lazily on the first lifecycle operation.
// PorcentajeAvance never decreases.
type ReporteSeguimiento struct {
	ReporteID        string    `json:"reporte_id" gorm:"type:varchar(36);primaryKey"`
	Estado           string    `json:"estado" gorm:"default:notificado"`
	Prioridad        string    `json:"prioridad" gorm:"default:media"`
	PorcentajeAvance int       `json:"porcentaje_avance"`
	Encargado        *string   `json:"encargado"`
	CentroGestor     *string   `json:"centro_gestor"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ReporteSeguimiento) TableName() string {
	return "reportes_seguimiento"
}

// HistorialAvance is one immutable record of a single status transition.
// Never updated or deleted once written.
type HistorialAvance struct {
	ID             string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ReporteID      string    `json:"reporte_id" gorm:"type:varchar(36);index"`
	Fecha          time.Time `json:"fecha"`
	Autor          string    `json:"autor"`
	Descripcion    string    `json:"descripcion" gorm:"type:varchar(2000)"`
	EstadoAnterior string    `json:"estado_anterior"`
	EstadoNuevo    string    `json:"estado_nuevo"`
	Porcentaje     int       `json:"porcentaje"`
	CreatedAt      time.Time `json:"created_at"`
}

func (HistorialAvance) TableName() string {
	return "historial_avances"
}

// EvidenciaAvance belongs to exactly one HistorialAvance entry.
type EvidenciaAvance struct {
	ID                string    `json:"-" gorm:"type:varchar(36);primaryKey"`
	HistorialAvanceID string    `json:"-" gorm:"type:varchar(36);index"`
	Tipo              string    `json:"tipo"`
	URL               string    `json:"url"`
	Descripcion       string    `json:"descripcion"`
	CreatedAt         time.Time `json:"-"`
}

func (EvidenciaAvance) TableName() string {
	return "evidencias_avances"
}

// HistorialView is a transition entry plus its evidencias.
type HistorialView struct {
	HistorialAvance
	Evidencias []EvidenciaAvance `json:"evidencias"`
}

// ReporteSeguimientoView is the full report view: base visit, projection
// fields and the transition history (newest first).
type ReporteSeguimientoView struct {
	ReconocimientoView
	Estado           string          `json:"estado"`
	Prioridad        string          `json:"prioridad"`
	PorcentajeAvance int             `json:"porcentaje_avance"`
	Encargado        *string         `json:"encargado"`
	CentroGestor     *string         `json:"centro_gestor"`
	Historial        []HistorialView `json:"historial"`
}

// --- inputs ---

type EvidenciaInput struct {
	Tipo        string `json:"tipo" binding:"required,oneof=foto documento"`
	URL         string `json:"url" binding:"required,url" conform:"trim"`
	Descripcion string `json:"descripcion" binding:"max=500" conform:"trim"`
}

type AvanceInput struct {
	EstadoNuevo string           `json:"estado_nuevo" binding:"required,oneof=notificado radicado en-gestion asignado en-proceso resuelto cerrado" conform:"trim,lower"`
	Descripcion string           `json:"descripcion" binding:"required,min=10,max=2000" conform:"trim"`
	Autor       string           `json:"autor" binding:"required" conform:"trim"`
	Porcentaje  *int             `json:"porcentaje" binding:"required,min=0,max=100"`
	Evidencias  []EvidenciaInput `json:"evidencias" binding:"omitempty,dive"`
}

type EncargadoInput struct {
	Encargado    string `json:"encargado" binding:"required,min=1,max=255" conform:"trim"`
	CentroGestor string `json:"centro_gestor" binding:"required,min=1,max=255" conform:"trim"`
}

type PrioridadInput struct {
	Prioridad string `json:"prioridad" binding:"required,oneof=baja media alta urgente" conform:"trim,lower"`
}

type SeguimientoFilters struct {
	Estado     string
	Prioridad  string
	Encargado  string
	FechaDesde string
	FechaHasta string
}

// SeguimientoPagination matches the envelope the tracking list has always
// returned (different casing than the grupo-operativo one).
type SeguimientoPagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// --- statistics ---

type CentroGestorStats struct {
	Nombre    string `json:"nombre"`
	Total     int    `json:"total"`
	Resueltos int    `json:"resueltos"`
	EnProceso int    `json:"en_proceso"`
}

type TendenciaDia struct {
	Fecha     string `json:"fecha"`
	Nuevos    int    `json:"nuevos"`
	Resueltos int    `json:"resueltos"`
	EnProceso int    `json:"en_proceso"`
}

type EstadisticasSeguimiento struct {
	TotalReportes   int                 `json:"total_reportes"`
	AvancePromedio  int                 `json:"avance_promedio"`
	PorEstado       map[string]int      `json:"por_estado"`
	PorPrioridad    map[string]int      `json:"por_prioridad"`
	PorCentroGestor []CentroGestorStats `json:"por_centro_gestor"`
	Tendencia       []TendenciaDia      `json:"tendencia_ultimos_30_dias"`
}
