package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
)

func geom(t, coords string) Geometry {
	return Geometry{Type: t, Coordinates: json.RawMessage(coords)}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name    string
		geom    Geometry
		wantErr bool
	}{
		{name: "valid point in Cali", geom: geom("Point", "[-76.52, 3.45]"), wantErr: false},
		{name: "longitude out of range", geom: geom("Point", "[-200, 3.45]"), wantErr: true},
		{name: "latitude out of range", geom: geom("Point", "[-76.52, 95]"), wantErr: true},
		{name: "point with one number", geom: geom("Point", "[-76.52]"), wantErr: true},
		{name: "point with three numbers", geom: geom("Point", "[-76.52, 3.45, 0]"), wantErr: true},
		{name: "valid linestring", geom: geom("LineString", "[[-76.52, 3.45], [-76.53, 3.46]]"), wantErr: false},
		{name: "linestring with one point", geom: geom("LineString", "[[-76.52, 3.45]]"), wantErr: true},
		{name: "valid multipoint", geom: geom("MultiPoint", "[[-76.52, 3.45], [-76.53, 3.46]]"), wantErr: false},
		{name: "multipoint with bad point", geom: geom("MultiPoint", "[[-76.52, 3.45], [200, 3.46]]"), wantErr: true},
		{name: "valid polygon", geom: geom("Polygon", "[[[-76.52, 3.45], [-76.53, 3.45], [-76.53, 3.46], [-76.52, 3.45]]]"), wantErr: false},
		{name: "polygon ring too short", geom: geom("Polygon", "[[[-76.52, 3.45], [-76.53, 3.45], [-76.53, 3.46]]]"), wantErr: true},
		{name: "polygon without rings", geom: geom("Polygon", "[]"), wantErr: true},
		{name: "unknown type", geom: geom("Circle", "[-76.52, 3.45]"), wantErr: true},
		{name: "unparsable payload", geom: geom("Point", "not json"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.geom.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				appErr, ok := err.(*errs.Error)
				assert.True(t, ok)
				assert.Equal(t, errs.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidGeometryType(t *testing.T) {
	for _, valid := range []string{"Point", "LineString", "Polygon", "MultiPoint", "MultiLineString", "MultiPolygon"} {
		assert.True(t, IsValidGeometryType(valid), valid)
	}
	assert.False(t, IsValidGeometryType("point"))
	assert.False(t, IsValidGeometryType("Circle"))
	assert.False(t, IsValidGeometryType(""))
}
