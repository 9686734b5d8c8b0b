package db

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Juanpgm/api-artefacto-360-dagma/config"
)

// PhotoRepository is the object-store collaborator: photo uploads keyed by
// reconocimiento, plus list/delete used for best-effort cleanup.
type PhotoRepository interface {
	UploadPhoto(data []byte, key, contentType string) (string, error)
	DeletePhoto(key string) error
	ListPhotoKeys(prefix string) ([]string, error)
}

type photoRepo struct {
	client *s3.Client
	bucket string
	region string
}

func NewPhotoRepo(c *config.Config) (PhotoRepository, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(c.AwsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AwsAccessKeyID, c.AwsSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}

	return &photoRepo{
		client: s3.NewFromConfig(cfg),
		bucket: c.S3Bucket,
		region: c.AwsRegion,
	}, nil
}

func (r *photoRepo) UploadPhoto(data []byte, key, contentType string) (string, error) {
	_, err := r.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %v", key, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", r.bucket, r.region, key), nil
}

func (r *photoRepo) DeletePhoto(key string) error {
	_, err := r.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %v", key, err)
	}
	return nil
}

func (r *photoRepo) ListPhotoKeys(prefix string) ([]string, error) {
	out, err := r.client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 objects under %s: %v", prefix, err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}
