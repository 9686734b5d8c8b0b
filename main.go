package main

import (
	"context"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"google.golang.org/api/option"

	"github.com/Juanpgm/api-artefacto-360-dagma/config"
	"github.com/Juanpgm/api-artefacto-360-dagma/db"
	"github.com/Juanpgm/api-artefacto-360-dagma/server"
	"github.com/Juanpgm/api-artefacto-360-dagma/services"
)

func initFirebaseAuth(conf *config.Config) *auth.Client {
	var opts []option.ClientOption
	if conf.GoogleApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(conf.GoogleApplicationCredentials))
	}

	app, err := firebase.NewApp(context.Background(), &firebase.Config{ProjectID: conf.FirebaseProjectID}, opts...)
	if err != nil {
		log.Fatalf("error initializing Firebase app: %v", err)
	}

	client, err := app.Auth(context.Background())
	if err != nil {
		log.Fatalf("error getting Auth client: %v", err)
	}
	log.Println("Firebase Auth initialized")
	return client
}

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	firebaseAuth := initFirebaseAuth(conf)

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	reconocimientoRepo := db.NewReconocimientoRepo(gormDB)
	seguimientoRepo := db.NewSeguimientoRepo(gormDB)
	parqueRepo := db.NewParqueRepo(gormDB)
	photoRepo, err := db.NewPhotoRepo(conf)
	if err != nil {
		log.Fatalf("error initializing photo storage: %v", err)
	}

	authService := services.NewAuthService(firebaseAuth, authRepo)
	reconocimientoService := services.NewReconocimientoService(reconocimientoRepo, seguimientoRepo, parqueRepo, photoRepo, conf)
	seguimientoService := services.NewSeguimientoService(seguimientoRepo, reconocimientoRepo)

	s := &server.Server{
		Config:                   conf,
		AuthRepository:           authRepo,
		AuthService:              authService,
		ReconocimientoRepository: reconocimientoRepo,
		ReconocimientoService:    reconocimientoService,
		SeguimientoRepository:    seguimientoRepo,
		SeguimientoService:       seguimientoService,
		ParqueRepository:         parqueRepo,
		PhotoRepository:          photoRepo,
		DB:                       *gormDB,
	}

	s.Start()
}
