package models

import (
	"encoding/json"
	"fmt"

	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
)

// Geometry mirrors the GeoJSON-style payload captured by the field app.
// Coordinates stays raw so the stored document echoes exactly what the
// device sent.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

var geometryTypes = map[string]bool{
	"Point":           true,
	"LineString":      true,
	"Polygon":         true,
	"MultiPoint":      true,
	"MultiLineString": true,
	"MultiPolygon":    true,
}

func IsValidGeometryType(t string) bool {
	return geometryTypes[t]
}

// Validate checks the coordinate payload against its declared type.
// Ring closure and self-intersection are not checked.
func (g Geometry) Validate() error {
	if !IsValidGeometryType(g.Type) {
		return errs.NewValidation(fmt.Sprintf("Tipo de geometría inválido: %s", g.Type), "coordinates_type")
	}

	switch g.Type {
	case "Point":
		var point []float64
		if err := json.Unmarshal(g.Coordinates, &point); err != nil {
			return errs.NewValidation("Formato de coordenadas inválido. Debe ser un JSON array válido", "coordinates_data")
		}
		return validatePoint(point)
	case "LineString", "MultiPoint":
		var points [][]float64
		if err := json.Unmarshal(g.Coordinates, &points); err != nil {
			return errs.NewValidation("Formato de coordenadas inválido. Debe ser un JSON array válido", "coordinates_data")
		}
		return validateLine(g.Type, points)
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return errs.NewValidation("Formato de coordenadas inválido. Debe ser un JSON array válido", "coordinates_data")
		}
		return validatePolygon(rings)
	case "MultiLineString":
		var lines [][][]float64
		if err := json.Unmarshal(g.Coordinates, &lines); err != nil {
			return errs.NewValidation("Formato de coordenadas inválido. Debe ser un JSON array válido", "coordinates_data")
		}
		if len(lines) == 0 {
			return errs.NewValidation("MultiLineString debe tener al menos 1 línea", "coordinates_data")
		}
		for _, line := range lines {
			if err := validateLine("LineString", line); err != nil {
				return err
			}
		}
		return nil
	case "MultiPolygon":
		var polygons [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polygons); err != nil {
			return errs.NewValidation("Formato de coordenadas inválido. Debe ser un JSON array válido", "coordinates_data")
		}
		if len(polygons) == 0 {
			return errs.NewValidation("MultiPolygon debe tener al menos 1 polígono", "coordinates_data")
		}
		for _, rings := range polygons {
			if err := validatePolygon(rings); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func validatePoint(point []float64) error {
	if len(point) != 2 {
		return errs.NewValidation("Point debe tener exactamente 2 números [longitud, latitud]", "coordinates_data")
	}
	lng, lat := point[0], point[1]
	if lng < -180 || lng > 180 {
		return errs.NewValidation(fmt.Sprintf("Longitud inválida: %v. Debe estar entre -180 y 180", lng), "coordinates_data")
	}
	if lat < -90 || lat > 90 {
		return errs.NewValidation(fmt.Sprintf("Latitud inválida: %v. Debe estar entre -90 y 90", lat), "coordinates_data")
	}
	return nil
}

func validateLine(geomType string, points [][]float64) error {
	if len(points) < 2 {
		return errs.NewValidation(fmt.Sprintf("%s debe tener al menos 2 puntos", geomType), "coordinates_data")
	}
	for _, p := range points {
		if err := validatePoint(p); err != nil {
			return err
		}
	}
	return nil
}

func validatePolygon(rings [][][]float64) error {
	if len(rings) == 0 {
		return errs.NewValidation("Polygon debe tener al menos 1 anillo", "coordinates_data")
	}
	for _, ring := range rings {
		if len(ring) < 4 {
			return errs.NewValidation("Cada anillo del Polygon debe tener al menos 4 pares de coordenadas", "coordinates_data")
		}
		for _, p := range ring {
			if err := validatePoint(p); err != nil {
				return err
			}
		}
	}
	return nil
}
