package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Juanpgm/api-artefacto-360-dagma/config"
	"github.com/Juanpgm/api-artefacto-360-dagma/db"
	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

const (
	MaxPhotosPerReconocimiento = 10
	thumbnailWidth             = 320
)

var allowedPhotoMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]`)

type CreateReconocimientoInput struct {
	TipoIntervencion        string
	DescripcionIntervencion string
	Direccion               string
	Observaciones           string
	CoordinatesType         string
	CoordinatesData         string
}

type ReconocimientoService interface {
	CreateReconocimiento(input *CreateReconocimientoInput, photos []*multipart.FileHeader) (*models.ReconocimientoView, error)
	GetParques() ([]models.Parque, error)
	GetReportes(filters models.ReporteFilters, page, limit int) ([]models.ReconocimientoView, models.Pagination, error)
	GetRecentReportes(limit int) ([]models.ReconocimientoView, error)
	GetDashboardStats() (*models.DashboardStats, error)
	DeleteReporte(reporteID string) (int, error)
}

type reconocimientoService struct {
	Config             *config.Config
	reconocimientoRepo db.ReconocimientoRepository
	seguimientoRepo    db.SeguimientoRepository
	parqueRepo         db.ParqueRepository
	photoRepo          db.PhotoRepository
}

// NewReconocimientoService instantiates a ReconocimientoService
func NewReconocimientoService(reconocimientoRepo db.ReconocimientoRepository, seguimientoRepo db.SeguimientoRepository, parqueRepo db.ParqueRepository, photoRepo db.PhotoRepository, conf *config.Config) ReconocimientoService {
	return &reconocimientoService{
		Config:             conf,
		reconocimientoRepo: reconocimientoRepo,
		seguimientoRepo:    seguimientoRepo,
		parqueRepo:         parqueRepo,
		photoRepo:          photoRepo,
	}
}

// ValidatePhotoFile checks a photo against the MIME and extension
// allow-lists before anything is uploaded.
func ValidatePhotoFile(fileHeader *multipart.FileHeader) error {
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedPhotoMIMETypes[contentType] {
		return errs.NewValidation(fmt.Sprintf("Tipo de archivo no permitido: %s", contentType), "photos")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExtensions[ext] {
		return errs.NewValidation(fmt.Sprintf("Extensión no permitida: %s", ext), "photos")
	}
	return nil
}

// SanitizeFilename keeps alphanumerics, dot, dash and underscore.
func SanitizeFilename(filename string) string {
	sanitized := filenameSanitizer.ReplaceAllString(filename, "_")
	if sanitized == "" {
		sanitized = "photo"
	}
	return sanitized
}

func (s *reconocimientoService) CreateReconocimiento(input *CreateReconocimientoInput, photos []*multipart.FileHeader) (*models.ReconocimientoView, error) {
	if len(photos) == 0 {
		return nil, errs.NewValidation("Debe adjuntar al menos 1 foto", "photos")
	}
	if len(photos) > MaxPhotosPerReconocimiento {
		return nil, errs.NewValidation(fmt.Sprintf("Máximo %d fotos por reconocimiento", MaxPhotosPerReconocimiento), "photos")
	}
	for _, photo := range photos {
		if err := ValidatePhotoFile(photo); err != nil {
			return nil, err
		}
	}

	var coordinates json.RawMessage
	if err := json.Unmarshal([]byte(input.CoordinatesData), &coordinates); err != nil {
		return nil, errs.NewValidation("Formato de coordenadas inválido. Debe ser un JSON array válido", "coordinates_data")
	}
	geometry := models.Geometry{Type: input.CoordinatesType, Coordinates: coordinates}
	if err := geometry.Validate(); err != nil {
		return nil, err
	}

	reconocimientoID := uuid.New().String()
	now := time.Now().UTC()
	timestamp := now.Format("20060102_150405")

	var photoURLs, thumbnailURLs, uploadedKeys []string
	for _, photo := range photos {
		data, err := readPhoto(photo)
		if err != nil {
			s.rollbackUploads(uploadedKeys)
			return nil, errs.New(fmt.Sprintf("Error leyendo foto %s: %v", photo.Filename, err), http.StatusInternalServerError)
		}

		filename := fmt.Sprintf("%s_%s", timestamp, SanitizeFilename(photo.Filename))
		key := fmt.Sprintf("reconocimientos/%s/%s", reconocimientoID, filename)

		photoURL, err := s.photoRepo.UploadPhoto(data, key, photo.Header.Get("Content-Type"))
		if err != nil {
			// a failed upload aborts the remaining uploads
			s.rollbackUploads(uploadedKeys)
			return nil, errs.New(fmt.Sprintf("Error subiendo foto a S3: %v", err), http.StatusInternalServerError)
		}
		uploadedKeys = append(uploadedKeys, key)
		photoURLs = append(photoURLs, photoURL)

		if thumbURL, thumbKey, err := s.uploadThumbnail(data, reconocimientoID, filename); err != nil {
			log.Printf("skipping thumbnail for %s: %v", photo.Filename, err)
		} else {
			uploadedKeys = append(uploadedKeys, thumbKey)
			thumbnailURLs = append(thumbnailURLs, thumbURL)
		}
	}

	reconocimiento := &models.Reconocimiento{
		ID:                      reconocimientoID,
		TipoIntervencion:        input.TipoIntervencion,
		DescripcionIntervencion: input.DescripcionIntervencion,
		Direccion:               input.Direccion,
		Observaciones:           input.Observaciones,
		CoordinatesType:         geometry.Type,
		CoordinatesData:         string(coordinates),
		PhotosURL:               models.EncodeURLList(photoURLs),
		ThumbnailsURL:           models.EncodeURLList(thumbnailURLs),
		PhotosUploaded:          len(photoURLs),
		CreatedAt:               now,
	}

	if err := s.reconocimientoRepo.Save(reconocimiento); err != nil {
		s.rollbackUploads(uploadedKeys)
		return nil, errs.New(fmt.Sprintf("Error registrando reconocimiento: %v", err), http.StatusInternalServerError)
	}

	view := reconocimiento.View()
	return &view, nil
}

func readPhoto(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// uploadThumbnail stores a reduced copy beside the original. Photos that
// cannot be decoded just go without a thumbnail.
func (s *reconocimientoService) uploadThumbnail(data []byte, reconocimientoID, filename string) (string, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", err
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return "", "", err
	}

	key := fmt.Sprintf("reconocimientos/%s/thumbs/%s", reconocimientoID, filename)
	url, err := s.photoRepo.UploadPhoto(buf.Bytes(), key, "image/jpeg")
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// rollbackUploads is best-effort: failures are logged and swallowed.
func (s *reconocimientoService) rollbackUploads(keys []string) {
	for _, key := range keys {
		if err := s.photoRepo.DeletePhoto(key); err != nil {
			log.Printf("rollback: could not delete %s: %v", key, err)
		}
	}
}

func (s *reconocimientoService) GetParques() ([]models.Parque, error) {
	return s.parqueRepo.FindAll()
}

// GetReportes applies the tipo filter in the query, then year/month and the
// free-text search over the full result set in memory, then slices out the
// requested page. The store does not support partial-text matching.
func (s *reconocimientoService) GetReportes(filters models.ReporteFilters, page, limit int) ([]models.ReconocimientoView, models.Pagination, error) {
	reconocimientos, err := s.reconocimientoRepo.FindAll(filters.Type)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	search := strings.ToLower(filters.Search)
	filtered := make([]models.Reconocimiento, 0, len(reconocimientos))
	for _, r := range reconocimientos {
		created := r.CreatedAt.UTC()
		if filters.Year != 0 && created.Year() != filters.Year {
			continue
		}
		if filters.Month != 0 && int(created.Month()) != filters.Month {
			continue
		}
		if search != "" && !matchesSearch(&r, search) {
			continue
		}
		filtered = append(filtered, r)
	}

	pagination := paginate(len(filtered), page, limit)
	start := (pagination.Page - 1) * pagination.Limit
	end := start + pagination.Limit
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	views := make([]models.ReconocimientoView, 0, end-start)
	for i := start; i < end; i++ {
		views = append(views, filtered[i].View())
	}
	return views, pagination, nil
}

func matchesSearch(r *models.Reconocimiento, search string) bool {
	return strings.Contains(strings.ToLower(r.Direccion), search) ||
		strings.Contains(strings.ToLower(r.DescripcionIntervencion), search) ||
		strings.Contains(strings.ToLower(r.TipoIntervencion), search)
}

func paginate(total, page, limit int) models.Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	totalPages := (total + limit - 1) / limit
	return models.Pagination{
		TotalItems: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func (s *reconocimientoService) GetRecentReportes(limit int) ([]models.ReconocimientoView, error) {
	if limit < 1 {
		limit = 3
	}
	reconocimientos, err := s.reconocimientoRepo.FindRecent(limit)
	if err != nil {
		return nil, err
	}
	views := make([]models.ReconocimientoView, 0, len(reconocimientos))
	for _, r := range reconocimientos {
		views = append(views, r.View())
	}
	return views, nil
}

// GetDashboardStats feeds the grupo-operativo dashboard: visits this
// calendar month, reports still pending, distinct sites visited this month.
func (s *reconocimientoService) GetDashboardStats() (*models.DashboardStats, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	visitasMes, err := s.reconocimientoRepo.CountCreatedSince(monthStart)
	if err != nil {
		return nil, err
	}
	parquesVisitados, err := s.reconocimientoRepo.CountDistinctDireccionSince(monthStart)
	if err != nil {
		return nil, err
	}

	reconocimientos, err := s.reconocimientoRepo.FindAll("")
	if err != nil {
		return nil, err
	}
	seguimientos, err := s.seguimientoRepo.AllSeguimientos()
	if err != nil {
		return nil, err
	}

	// a report with no projection yet counts as pending
	resueltos := 0
	for _, seg := range seguimientos {
		if seg.Estado == models.EstadoResuelto || seg.Estado == models.EstadoCerrado {
			resueltos++
		}
	}
	pendientes := len(reconocimientos) - resueltos
	if pendientes < 0 {
		pendientes = 0
	}

	return &models.DashboardStats{
		TotalVisitasMes:  int(visitasMes),
		TotalPendientes:  pendientes,
		ParquesVisitados: int(parquesVisitados),
	}, nil
}

// DeleteReporte removes the photos under the report's S3 prefix, the report
// row and its projection. Deleting an unknown id is a no-op that still
// succeeds with photos_deleted=0.
func (s *reconocimientoService) DeleteReporte(reporteID string) (int, error) {
	prefix := fmt.Sprintf("reconocimientos/%s/", reporteID)
	keys, err := s.photoRepo.ListPhotoKeys(prefix)
	if err != nil {
		return 0, errs.New(fmt.Sprintf("Error eliminando reporte: %v", err), http.StatusInternalServerError)
	}

	photosDeleted := 0
	for _, key := range keys {
		if err := s.photoRepo.DeletePhoto(key); err != nil {
			log.Printf("could not delete %s: %v", key, err)
			continue
		}
		if !strings.Contains(key, "/thumbs/") {
			photosDeleted++
		}
	}

	if err := s.reconocimientoRepo.DeleteByID(reporteID); err != nil {
		return photosDeleted, errs.New(fmt.Sprintf("Error eliminando reporte: %v", err), http.StatusInternalServerError)
	}
	if err := s.seguimientoRepo.DeleteSeguimiento(reporteID); err != nil {
		log.Printf("could not delete seguimiento for %s: %v", reporteID, err)
	}

	return photosDeleted, nil
}
