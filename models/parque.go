package models

import "time"

// Parque is a park or green zone the grupo operativo can be dispatched to.
// The table is seeded at startup and served by /init/parques.
type Parque struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Comuna    string    `json:"comuna"`
	Barrio    string    `json:"barrio"`
	Latitud   float64   `json:"latitud"`
	Longitud  float64   `json:"longitud"`
	AreaM2    float64   `json:"area_m2"`
	CreatedAt time.Time `json:"-"`
}

func (Parque) TableName() string {
	return "parques"
}
