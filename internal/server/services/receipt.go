package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/carcare/internal/common"
	sc "github.com/dmitrijs2005/carcare/internal/server/config"
	"github.com/dmitrijs2005/carcare/internal/server/guard"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ReceiptService attaches receipt photos to fuel entries. The blob lives
// in S3-compatible storage under an opaque generated key; only that key
// is persisted on the entry, via the write queue like any other mutation.
type ReceiptService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *guard.Guard
	queue       *writequeue.Queue
	config      *sc.Config
}

func NewReceiptService(db *sql.DB, m repomanager.RepositoryManager, g *guard.Guard, q *writequeue.Queue, cfg *sc.Config) *ReceiptService {
	return &ReceiptService{db: db, repomanager: m, guard: g, queue: q, config: cfg}
}

// randomStorageKey generates an opaque blob name. The date prefix keeps
// bucket listings manageable; nothing about the entry leaks into the key.
func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("receipts/%d/%02d/%v", d.Year(), d.Month(), uuid.New())
}

func (s *ReceiptService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PrepareUpload checks ownership of the entry, presigns a PUT for a
// fresh storage key, and enqueues recording that key on the entry. The
// caller uploads the photo directly to the returned URL.
func (s *ReceiptService) PrepareUpload(ctx context.Context, userID, entryID int64) (string, writequeue.Handle, error) {
	entry, err := s.guard.RequireFuelEntry(ctx, userID, entryID)
	if err != nil {
		return "", writequeue.Handle{}, err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", writequeue.Handle{}, err
	}

	bucket := s.config.S3Bucket
	key := randomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", writequeue.Handle{}, err
	}

	handle, err := s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireFuelEntry(ctx, userID, entryID); err != nil {
			return err
		}
		return s.repomanager.FuelEntries(s.db).SetReceiptPhoto(ctx, entry.VehicleID, entryID, key)
	})
	if err != nil {
		return "", writequeue.Handle{}, err
	}

	return req.URL, handle, nil
}

// FetchURL returns a presigned GET for the entry's stored receipt photo.
// Entries without one yield common.ErrorNotFound.
func (s *ReceiptService) FetchURL(ctx context.Context, userID, entryID int64) (string, error) {
	entry, err := s.guard.RequireFuelEntry(ctx, userID, entryID)
	if err != nil {
		return "", err
	}
	if entry.ReceiptPhoto == nil || *entry.ReceiptPhoto == "" {
		return "", fmt.Errorf("%w: entry has no receipt photo", common.ErrorNotFound)
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    entry.ReceiptPhoto,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
