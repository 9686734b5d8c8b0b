package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Juanpgm/api-artefacto-360-dagma/config"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=America/Bogota",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Reconocimiento{},
		&models.ReporteSeguimiento{},
		&models.HistorialAvance{},
		&models.EvidenciaAvance{},
		&models.Parque{},
		&models.User{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedParques(db); err != nil {
		return fmt.Errorf("seeding parques error: %v", err)
	}

	return nil
}

// SeedParques loads the baseline set of parques served by /init/parques.
// Existing rows are kept as-is.
func SeedParques(db *gorm.DB) error {
	parques := []models.Parque{
		{ID: uuid.New().String(), Nombre: "Parque de los Gatos", Direccion: "Av. 4 Oeste con Calle 12", Comuna: "3", Barrio: "Granada", Latitud: 3.4565, Longitud: -76.5388, AreaM2: 4200},
		{ID: uuid.New().String(), Nombre: "Parque del Perro", Direccion: "Calle 3 Oeste #35-10", Comuna: "19", Barrio: "San Fernando", Latitud: 3.4275, Longitud: -76.5449, AreaM2: 2800},
		{ID: uuid.New().String(), Nombre: "Parque de las Banderas", Direccion: "Calle 5 con Carrera 36", Comuna: "19", Barrio: "San Fernando Nuevo", Latitud: 3.4302, Longitud: -76.5420, AreaM2: 15600},
		{ID: uuid.New().String(), Nombre: "Parque del Ingenio", Direccion: "Carrera 85 con Calle 15", Comuna: "17", Barrio: "El Ingenio", Latitud: 3.3716, Longitud: -76.5400, AreaM2: 98000},
		{ID: uuid.New().String(), Nombre: "Parque de la Retreta", Direccion: "Av. Colombia #2-40", Comuna: "3", Barrio: "Centro", Latitud: 3.4512, Longitud: -76.5430, AreaM2: 3100},
		{ID: uuid.New().String(), Nombre: "Ecoparque Río Pance", Direccion: "Vía Pance Km 2", Comuna: "22", Barrio: "Pance", Latitud: 3.3290, Longitud: -76.5680, AreaM2: 320000},
	}

	for _, parque := range parques {
		var existing models.Parque
		result := db.Where("nombre = ?", parque.Nombre).First(&existing)
		if result.Error != nil {
			if result.Error == gorm.ErrRecordNotFound {
				if err := db.Create(&parque).Error; err != nil {
					log.Printf("Failed to create parque %s: %v", parque.Nombre, err)
					return err
				}
			} else {
				return result.Error
			}
		}
	}

	return nil
}
