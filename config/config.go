package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                        bool   `envconfig:"debug"`
	Port                         int    `envconfig:"port" default:"8000"`
	Env                          string `envconfig:"env"`
	Host                         string `envconfig:"host"`
	BaseUrl                      string `envconfig:"base_url"`
	PostgresHost                 string `envconfig:"postgres_host"`
	PostgresUser                 string `envconfig:"postgres_user"`
	PostgresDB                   string `envconfig:"postgres_db"`
	PostgresPort                 int    `envconfig:"postgres_port"`
	PostgresPassword             string `envconfig:"postgres_password"`
	AwsRegion                    string `envconfig:"aws_region"`
	AwsAccessKeyID               string `envconfig:"aws_access_key_id"`
	AwsSecretAccessKey           string `envconfig:"aws_secret_access_key"`
	S3Bucket                     string `envconfig:"s3_bucket_name" default:"360-dagma-photos"`
	GoogleApplicationCredentials string `envconfig:"google_application_credentials"`
	FirebaseProjectID            string `envconfig:"firebase_project_id"`
	FirebaseApiKey               string `envconfig:"firebase_api_key"`
	FirebaseAuthDomain           string `envconfig:"firebase_auth_domain"`
	FirebaseStorageBucket        string `envconfig:"firebase_storage_bucket"`
	AccessControlAllowOrigin     string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("dagma", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
