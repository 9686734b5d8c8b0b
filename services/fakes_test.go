package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

// In-memory stand-ins for the repository interfaces.

type fakeReconocimientoRepo struct {
	reconocimientos map[string]*models.Reconocimiento
	saveErr         error
}

func newFakeReconocimientoRepo() *fakeReconocimientoRepo {
	return &fakeReconocimientoRepo{reconocimientos: make(map[string]*models.Reconocimiento)}
}

func (f *fakeReconocimientoRepo) Save(r *models.Reconocimiento) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *r
	f.reconocimientos[r.ID] = &copied
	return nil
}

func (f *fakeReconocimientoRepo) FindByID(id string) (*models.Reconocimiento, error) {
	r, ok := f.reconocimientos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReconocimientoRepo) FindAll(tipoIntervencion string) ([]models.Reconocimiento, error) {
	var out []models.Reconocimiento
	for _, r := range f.reconocimientos {
		if tipoIntervencion != "" && r.TipoIntervencion != tipoIntervencion {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeReconocimientoRepo) FindRecent(limit int) ([]models.Reconocimiento, error) {
	all, _ := f.FindAll("")
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeReconocimientoRepo) DeleteByID(id string) error {
	delete(f.reconocimientos, id)
	return nil
}

func (f *fakeReconocimientoRepo) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	for _, r := range f.reconocimientos {
		if !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeReconocimientoRepo) CountDistinctDireccionSince(since time.Time) (int64, error) {
	direcciones := make(map[string]bool)
	for _, r := range f.reconocimientos {
		if !r.CreatedAt.Before(since) {
			direcciones[r.Direccion] = true
		}
	}
	return int64(len(direcciones)), nil
}

type fakeSeguimientoRepo struct {
	seguimientos map[string]*models.ReporteSeguimiento
	historial    []models.HistorialAvance
	evidencias   []models.EvidenciaAvance
}

func newFakeSeguimientoRepo() *fakeSeguimientoRepo {
	return &fakeSeguimientoRepo{seguimientos: make(map[string]*models.ReporteSeguimiento)}
}

func (f *fakeSeguimientoRepo) GetSeguimiento(reporteID string) (*models.ReporteSeguimiento, error) {
	s, ok := f.seguimientos[reporteID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSeguimientoRepo) UpsertSeguimiento(s *models.ReporteSeguimiento) error {
	copied := *s
	f.seguimientos[s.ReporteID] = &copied
	return nil
}

func (f *fakeSeguimientoRepo) FindSeguimientos(filters models.SeguimientoFilters) ([]models.ReporteSeguimiento, error) {
	var out []models.ReporteSeguimiento
	for _, s := range f.seguimientos {
		if filters.Estado != "" && s.Estado != filters.Estado {
			continue
		}
		if filters.Prioridad != "" && s.Prioridad != filters.Prioridad {
			continue
		}
		if filters.Encargado != "" && (s.Encargado == nil || *s.Encargado != filters.Encargado) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReporteID < out[j].ReporteID })
	return out, nil
}

func (f *fakeSeguimientoRepo) AllSeguimientos() ([]models.ReporteSeguimiento, error) {
	return f.FindSeguimientos(models.SeguimientoFilters{})
}

func (f *fakeSeguimientoRepo) DeleteSeguimiento(reporteID string) error {
	delete(f.seguimientos, reporteID)
	return nil
}

func (f *fakeSeguimientoRepo) SaveHistorial(entry *models.HistorialAvance) error {
	f.historial = append(f.historial, *entry)
	return nil
}

func (f *fakeSeguimientoRepo) SaveEvidencias(evidencias []models.EvidenciaAvance) error {
	f.evidencias = append(f.evidencias, evidencias...)
	return nil
}

func (f *fakeSeguimientoRepo) HistorialByReporte(reporteID string) ([]models.HistorialAvance, error) {
	var out []models.HistorialAvance
	for _, h := range f.historial {
		if h.ReporteID == reporteID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (f *fakeSeguimientoRepo) EvidenciasByHistorial(historialID string) ([]models.EvidenciaAvance, error) {
	var out []models.EvidenciaAvance
	for _, e := range f.evidencias {
		if e.HistorialAvanceID == historialID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSeguimientoRepo) HistorialSince(since time.Time) ([]models.HistorialAvance, error) {
	var out []models.HistorialAvance
	for _, h := range f.historial {
		if !h.Fecha.Before(since) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

type fakeParqueRepo struct {
	parques []models.Parque
}

func (f *fakeParqueRepo) FindAll() ([]models.Parque, error) {
	return f.parques, nil
}

// fakePhotoRepo records uploads and deletes; failAfter > 0 makes the
// (failAfter+1)-th upload fail.
type fakePhotoRepo struct {
	uploads   map[string][]byte
	order     []string
	deleted   []string
	failAfter int
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{uploads: make(map[string][]byte), failAfter: -1}
}

func (f *fakePhotoRepo) UploadPhoto(data []byte, key, contentType string) (string, error) {
	if f.failAfter >= 0 && len(f.order) >= f.failAfter {
		return "", fmt.Errorf("upload rejected")
	}
	f.uploads[key] = data
	f.order = append(f.order, key)
	return "https://bucket.s3.us-east-1.amazonaws.com/" + key, nil
}

func (f *fakePhotoRepo) DeletePhoto(key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.uploads, key)
	return nil
}

func (f *fakePhotoRepo) ListPhotoKeys(prefix string) ([]string, error) {
	var keys []string
	for key := range f.uploads {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
