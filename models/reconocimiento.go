package models

import (
	"encoding/json"
	"log"
	"time"
)

// Reconocimiento is one field visit captured by the grupo operativo:
// intervention metadata, a GeoJSON-style geometry and the S3 URLs of the
// uploaded photos. Immutable after creation except for deletion.
type Reconocimiento struct {
	ID                      string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TipoIntervencion        string    `json:"tipo_intervencion"`
	DescripcionIntervencion string    `json:"descripcion_intervencion" gorm:"type:varchar(2000)"`
	Direccion               string    `json:"direccion"`
	Observaciones           string    `json:"observaciones"`
	CoordinatesType         string    `json:"-"`
	CoordinatesData         string    `json:"-" gorm:"type:text"`
	PhotosURL               string    `json:"-" gorm:"type:text"`
	ThumbnailsURL           string    `json:"-" gorm:"type:text"`
	PhotosUploaded          int       `json:"photos_uploaded"`
	CreatedAt               time.Time `json:"created_at"`
}

func (Reconocimiento) TableName() string {
	return "reconocimientos"
}

// Geometry reassembles the typed geometry from the stored columns.
func (r *Reconocimiento) Geometry() Geometry {
	return Geometry{
		Type:        r.CoordinatesType,
		Coordinates: json.RawMessage(r.CoordinatesData),
	}
}

func (r *Reconocimiento) PhotoURLList() []string {
	return decodeURLList(r.PhotosURL)
}

func (r *Reconocimiento) ThumbnailURLList() []string {
	return decodeURLList(r.ThumbnailsURL)
}

func decodeURLList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		log.Printf("decoding stored url list: %v", err)
		return []string{}
	}
	return urls
}

func EncodeURLList(urls []string) string {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ReconocimientoView is the wire representation of a stored visit.
type ReconocimientoView struct {
	ID                      string   `json:"id"`
	TipoIntervencion        string   `json:"tipo_intervencion"`
	DescripcionIntervencion string   `json:"descripcion_intervencion"`
	Direccion               string   `json:"direccion"`
	Observaciones           string   `json:"observaciones"`
	Coordinates             Geometry `json:"coordinates"`
	PhotosURL               []string `json:"photosUrl"`
	ThumbnailsURL           []string `json:"thumbnailsUrl"`
	PhotosUploaded          int      `json:"photos_uploaded"`
	CreatedAt               string   `json:"created_at"`
	Timestamp               string   `json:"timestamp"`
}

func (r *Reconocimiento) View() ReconocimientoView {
	created := r.CreatedAt.UTC().Format(time.RFC3339)
	return ReconocimientoView{
		ID:                      r.ID,
		TipoIntervencion:        r.TipoIntervencion,
		DescripcionIntervencion: r.DescripcionIntervencion,
		Direccion:               r.Direccion,
		Observaciones:           r.Observaciones,
		Coordinates:             r.Geometry(),
		PhotosURL:               r.PhotoURLList(),
		ThumbnailsURL:           r.ThumbnailURLList(),
		PhotosUploaded:          r.PhotosUploaded,
		CreatedAt:               created,
		Timestamp:               created,
	}
}

// Pagination is the envelope used by the grupo-operativo listings.
type Pagination struct {
	TotalItems int  `json:"total_items"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ReporteFilters echoes back the filters a listing was produced with.
type ReporteFilters struct {
	Year   int    `json:"year,omitempty"`
	Month  int    `json:"month,omitempty"`
	Search string `json:"search,omitempty"`
	Type   string `json:"type,omitempty"`
}

// DashboardStats feeds the grupo-operativo dashboard cards.
type DashboardStats struct {
	TotalVisitasMes  int `json:"total_visitas_mes"`
	TotalPendientes  int `json:"total_pendientes"`
	ParquesVisitados int `json:"parques_visitados"`
}
