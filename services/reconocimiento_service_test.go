package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Juanpgm/api-artefacto-360-dagma/config"
	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

type testPhoto struct {
	filename    string
	contentType string
	content     []byte
}

// buildPhotoHeaders assembles real multipart.FileHeaders by writing and
// re-reading an in-memory form.
func buildPhotoHeaders(t *testing.T, photos []testPhoto) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, photo := range photos {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, photo.filename))
		header.Set("Content-Type", photo.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(photo.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["photos"]
}

func jpegPhoto(filename string) testPhoto {
	return testPhoto{filename: filename, contentType: "image/jpeg", content: []byte("not-a-real-jpeg")}
}

func validInput() *CreateReconocimientoInput {
	return &CreateReconocimientoInput{
		TipoIntervencion:        "mantenimiento",
		DescripcionIntervencion: "Poda de árboles y limpieza de zona verde",
		Direccion:               "Parque del Perro, San Fernando",
		CoordinatesType:         "Point",
		CoordinatesData:         "[-76.52, 3.45]",
	}
}

func newReconocimientoFixture(t *testing.T) (ReconocimientoService, *fakeReconocimientoRepo, *fakeSeguimientoRepo, *fakePhotoRepo) {
	t.Helper()
	reconRepo := newFakeReconocimientoRepo()
	segRepo := newFakeSeguimientoRepo()
	photoRepo := newFakePhotoRepo()
	svc := NewReconocimientoService(reconRepo, segRepo, &fakeParqueRepo{}, photoRepo, &config.Config{S3Bucket: "test-bucket"})
	return svc, reconRepo, segRepo, photoRepo
}

func TestCreateReconocimiento(t *testing.T) {
	svc, reconRepo, _, photoRepo := newReconocimientoFixture(t)

	photos := buildPhotoHeaders(t, []testPhoto{jpegPhoto("antes.jpg"), jpegPhoto("despues.jpg")})
	view, err := svc.CreateReconocimiento(validInput(), photos)
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, 2, view.PhotosUploaded)
	assert.Len(t, view.PhotosURL, 2)
	for _, url := range view.PhotosURL {
		assert.Contains(t, url, "reconocimientos/"+view.ID+"/")
	}
	assert.Equal(t, "Point", view.Coordinates.Type)
	assert.NotEmpty(t, view.Timestamp)

	stored, err := reconRepo.FindByID(view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, stored.ID)
	assert.Len(t, photoRepo.uploads, 2)
}

func TestCreateReconocimientoPhotoCount(t *testing.T) {
	svc, _, _, _ := newReconocimientoFixture(t)

	_, err := svc.CreateReconocimiento(validInput(), nil)
	require.Error(t, err)
	appErr, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.CodeValidation, appErr.Code)

	var eleven []testPhoto
	for i := 0; i < 11; i++ {
		eleven = append(eleven, jpegPhoto(fmt.Sprintf("foto%d.jpg", i)))
	}
	_, err = svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, eleven))
	require.Error(t, err)
	appErr, ok = err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.CodeValidation, appErr.Code)

	var ten []testPhoto
	for i := 0; i < 10; i++ {
		ten = append(ten, jpegPhoto(fmt.Sprintf("foto%d.jpg", i)))
	}
	view, err := svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, ten))
	require.NoError(t, err)
	assert.Equal(t, 10, view.PhotosUploaded)
}

func TestCreateReconocimientoRejectsBadFiles(t *testing.T) {
	svc, _, _, photoRepo := newReconocimientoFixture(t)

	_, err := svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, []testPhoto{
		{filename: "video.mp4", contentType: "video/mp4", content: []byte("x")},
	}))
	require.Error(t, err)

	_, err = svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, []testPhoto{
		{filename: "script.exe", contentType: "image/jpeg", content: []byte("x")},
	}))
	require.Error(t, err)

	// nothing was uploaded for rejected requests
	assert.Empty(t, photoRepo.uploads)
}

func TestCreateReconocimientoRejectsBadGeometry(t *testing.T) {
	svc, _, _, _ := newReconocimientoFixture(t)

	input := validInput()
	input.CoordinatesData = "[-200, 3.45]"
	_, err := svc.CreateReconocimiento(input, buildPhotoHeaders(t, []testPhoto{jpegPhoto("a.jpg")}))
	require.Error(t, err)
	appErr, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.CodeValidation, appErr.Code)

	input = validInput()
	input.CoordinatesData = "no es json"
	_, err = svc.CreateReconocimiento(input, buildPhotoHeaders(t, []testPhoto{jpegPhoto("a.jpg")}))
	require.Error(t, err)
}

func TestCreateReconocimientoSanitizesFilenames(t *testing.T) {
	svc, _, _, photoRepo := newReconocimientoFixture(t)

	view, err := svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, []testPhoto{
		jpegPhoto("foto del parque (1)!.jpg"),
	}))
	require.NoError(t, err)
	require.Len(t, view.PhotosURL, 1)
	assert.Contains(t, view.PhotosURL[0], "foto_del_parque__1__.jpg")
	for key := range photoRepo.uploads {
		assert.NotContains(t, key, " ")
		assert.NotContains(t, key, "(")
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "antes.jpg", SanitizeFilename("antes.jpg"))
	assert.Equal(t, "con_espacios.png", SanitizeFilename("con espacios.png"))
	assert.Equal(t, "a_o_nuevo.webp", SanitizeFilename("año nuevo.webp"))
	assert.Equal(t, "photo", SanitizeFilename(""))
}

func TestCreateReconocimientoRollbackOnUploadFailure(t *testing.T) {
	svc, reconRepo, _, photoRepo := newReconocimientoFixture(t)
	photoRepo.failAfter = 1

	_, err := svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, []testPhoto{
		jpegPhoto("a.jpg"), jpegPhoto("b.jpg"),
	}))
	require.Error(t, err)

	// the photo uploaded before the failure was cleaned up
	require.Len(t, photoRepo.deleted, 1)
	assert.Contains(t, photoRepo.deleted[0], "a.jpg")
	all, _ := reconRepo.FindAll("")
	assert.Empty(t, all)
}

func TestCreateReconocimientoRollbackOnPersistFailure(t *testing.T) {
	svc, reconRepo, _, photoRepo := newReconocimientoFixture(t)
	reconRepo.saveErr = fmt.Errorf("db down")

	_, err := svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, []testPhoto{
		jpegPhoto("a.jpg"), jpegPhoto("b.jpg"),
	}))
	require.Error(t, err)

	// every uploaded key was deleted again
	assert.Len(t, photoRepo.deleted, 2)
	assert.Empty(t, photoRepo.uploads)
}

func seedReconocimiento(repo *fakeReconocimientoRepo, id, direccion, descripcion, tipo string, created time.Time) {
	repo.Save(&models.Reconocimiento{
		ID:                      id,
		TipoIntervencion:        tipo,
		DescripcionIntervencion: descripcion,
		Direccion:               direccion,
		CoordinatesType:         "Point",
		CoordinatesData:         "[-76.52, 3.45]",
		PhotosURL:               "[]",
		CreatedAt:               created,
	})
}

func TestGetReportesSearch(t *testing.T) {
	svc, reconRepo, _, _ := newReconocimientoFixture(t)

	now := time.Now().UTC()
	seedReconocimiento(reconRepo, "r1", "Parque del Perro", "poda de césped", "mantenimiento", now)
	seedReconocimiento(reconRepo, "r2", "Calle 5 con 36", "limpieza del PARQUE de las Banderas", "limpieza", now)
	seedReconocimiento(reconRepo, "r3", "Av. Colombia", "recolección de escombros", "limpieza", now)

	reportes, pagination, err := svc.GetReportes(models.ReporteFilters{Search: "parque"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, reportes, 2)
	assert.Equal(t, 2, pagination.TotalItems)
	for _, r := range reportes {
		text := strings.ToLower(r.Direccion + r.DescripcionIntervencion + r.TipoIntervencion)
		assert.Contains(t, text, "parque")
	}
}

func TestGetReportesYearMonthType(t *testing.T) {
	svc, reconRepo, _, _ := newReconocimientoFixture(t)

	seedReconocimiento(reconRepo, "r1", "a", "d1", "mantenimiento", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	seedReconocimiento(reconRepo, "r2", "b", "d2", "limpieza", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	seedReconocimiento(reconRepo, "r3", "c", "d3", "mantenimiento", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	reportes, _, err := svc.GetReportes(models.ReporteFilters{Year: 2026, Month: 3}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, reportes, 2)

	reportes, _, err = svc.GetReportes(models.ReporteFilters{Type: "mantenimiento"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, reportes, 2)

	reportes, _, err = svc.GetReportes(models.ReporteFilters{Year: 2026, Type: "limpieza"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, reportes, 1)
}

func TestGetReportesPaginacion(t *testing.T) {
	svc, reconRepo, _, _ := newReconocimientoFixture(t)

	base := time.Now().UTC()
	for i := 0; i < 12; i++ {
		seedReconocimiento(reconRepo, fmt.Sprintf("r%02d", i), "dir", "desc", "tipo", base.Add(time.Duration(i)*time.Minute))
	}

	reportes, pagination, err := svc.GetReportes(models.ReporteFilters{}, 1, 5)
	require.NoError(t, err)
	assert.Len(t, reportes, 5)
	assert.Equal(t, 12, pagination.TotalItems)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)

	reportes, pagination, err = svc.GetReportes(models.ReporteFilters{}, 3, 5)
	require.NoError(t, err)
	assert.Len(t, reportes, 2)
	assert.False(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
}

func TestGetRecentReportes(t *testing.T) {
	svc, reconRepo, _, _ := newReconocimientoFixture(t)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		seedReconocimiento(reconRepo, fmt.Sprintf("r%d", i), "dir", "desc", "tipo", base.Add(time.Duration(i)*time.Minute))
	}

	reportes, err := svc.GetRecentReportes(3)
	require.NoError(t, err)
	require.Len(t, reportes, 3)
	assert.Equal(t, "r4", reportes[0].ID)
	assert.Equal(t, "r3", reportes[1].ID)

	reportes, err = svc.GetRecentReportes(0)
	require.NoError(t, err)
	assert.Len(t, reportes, 3)
}

func TestGetDashboardStats(t *testing.T) {
	svc, reconRepo, segRepo, _ := newReconocimientoFixture(t)

	now := time.Now().UTC()
	seedReconocimiento(reconRepo, "r1", "Parque del Perro", "d", "t", now)
	seedReconocimiento(reconRepo, "r2", "Parque del Perro", "d", "t", now)
	seedReconocimiento(reconRepo, "r3", "Parque del Ingenio", "d", "t", now)
	// previous year, outside the current month
	seedReconocimiento(reconRepo, "r4", "Parque de la Retreta", "d", "t", now.AddDate(-1, 0, 0))

	segRepo.UpsertSeguimiento(&models.ReporteSeguimiento{ReporteID: "r1", Estado: models.EstadoCerrado, Prioridad: models.PrioridadMedia})
	segRepo.UpsertSeguimiento(&models.ReporteSeguimiento{ReporteID: "r2", Estado: models.EstadoEnProceso, Prioridad: models.PrioridadMedia})

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalVisitasMes)
	assert.Equal(t, 2, stats.ParquesVisitados)
	// r1 is cerrado; r2, r3 and r4 remain pending
	assert.Equal(t, 3, stats.TotalPendientes)
}

func TestDeleteReporte(t *testing.T) {
	svc, reconRepo, segRepo, photoRepo := newReconocimientoFixture(t)

	view, err := svc.CreateReconocimiento(validInput(), buildPhotoHeaders(t, []testPhoto{
		jpegPhoto("a.jpg"), jpegPhoto("b.jpg"),
	}))
	require.NoError(t, err)
	segRepo.UpsertSeguimiento(&models.ReporteSeguimiento{ReporteID: view.ID, Estado: models.EstadoRadicado, Prioridad: models.PrioridadMedia})

	photosDeleted, err := svc.DeleteReporte(view.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, photosDeleted)
	assert.Empty(t, photoRepo.uploads)

	_, err = reconRepo.FindByID(view.ID)
	assert.Error(t, err)
	seg, err := segRepo.GetSeguimiento(view.ID)
	require.NoError(t, err)
	assert.Nil(t, seg)
}

func TestDeleteReporteInexistenteEsIdempotente(t *testing.T) {
	svc, _, _, _ := newReconocimientoFixture(t)

	photosDeleted, err := svc.DeleteReporte("no-existe")
	require.NoError(t, err)
	assert.Equal(t, 0, photosDeleted)
}

func TestGetParques(t *testing.T) {
	reconRepo := newFakeReconocimientoRepo()
	segRepo := newFakeSeguimientoRepo()
	parqueRepo := &fakeParqueRepo{parques: []models.Parque{
		{ID: "p1", Nombre: "Parque del Perro"},
		{ID: "p2", Nombre: "Parque del Ingenio"},
	}}
	svc := NewReconocimientoService(reconRepo, segRepo, parqueRepo, newFakePhotoRepo(), &config.Config{})

	parques, err := svc.GetParques()
	require.NoError(t, err)
	assert.Len(t, parques, 2)
}
