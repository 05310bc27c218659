package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/oficina-maquinas/internal/config"
	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/models"
)

var ErrDisabled = errors.New("backup: S3_BUCKET não configurado")

// ObjectPutter é o pedaço do *s3.Client que o exportador usa.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Snapshot struct {
	Clients  []models.Client  `json:"clientes"`
	Machines []models.Machine `json:"maquinas"`
	Parts    []models.Part    `json:"pecas"`
	TakenAt  time.Time        `json:"geradoEm"`
}

type Exporter struct {
	repo   domain.Repository
	s3     ObjectPutter
	bucket string
	prefix string
	log    *zap.Logger
	now    func() time.Time
}

func NewExporter(
	repo domain.Repository,
	putter ObjectPutter,
	bucket string,
	prefix string,
	log *zap.Logger,
) *Exporter {
	return &Exporter{
		repo:   repo,
		s3:     putter,
		bucket: bucket,
		prefix: prefix,
		log:    log,
		now:    time.Now,
	}
}

// NewS3Client monta o cliente a partir da config. Com S3_ENDPOINT
// (MinIO, localstack) usa endereçamento por path.
func NewS3Client(cfg *config.Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.S3Region,
	}

	if cfg.S3AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		)
	}

	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return s3.New(opts)
}

// FromConfig devolve ErrDisabled quando não há bucket.
func FromConfig(cfg *config.Config, repo domain.Repository, log *zap.Logger) (*Exporter, error) {
	if !cfg.BackupEnabled() {
		return nil, ErrDisabled
	}
	return NewExporter(repo, NewS3Client(cfg), cfg.S3Bucket, cfg.S3Prefix, log), nil
}

// Export lê as três coleções e envia um único snapshot JSON.
// Devolve a chave do objeto criado.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("backup: encode snapshot: %w", err)
	}

	key := path.Join(e.prefix, "snapshot-"+snap.TakenAt.Format("20060102T150405Z")+".json")

	_, err = e.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("backup: put s3://%s/%s: %w", e.bucket, key, err)
	}

	e.log.Info("backup enviado",
		zap.String("bucket", e.bucket),
		zap.String("key", key),
		zap.Int("clientes", len(snap.Clients)),
		zap.Int("maquinas", len(snap.Machines)),
		zap.Int("pecas", len(snap.Parts)),
	)

	return key, nil
}

func (e *Exporter) snapshot(ctx context.Context) (*Snapshot, error) {
	clients, err := e.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	machines, err := e.repo.ListMachines(ctx)
	if err != nil {
		return nil, err
	}
	parts, err := e.repo.ListParts(ctx)
	if err != nil {
		return nil, err
	}

	if clients == nil {
		clients = []models.Client{}
	}
	if machines == nil {
		machines = []models.Machine{}
	}
	if parts == nil {
		parts = []models.Part{}
	}

	return &Snapshot{
		Clients:  clients,
		Machines: machines,
		Parts:    parts,
		TakenAt:  e.now().UTC(),
	}, nil
}
