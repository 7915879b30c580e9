// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/javajoker/vehicle-gateway/internal/config"
	"github.com/javajoker/vehicle-gateway/internal/lifecycle"
	"github.com/javajoker/vehicle-gateway/internal/models"
	"github.com/javajoker/vehicle-gateway/internal/utils"
)

const (
	evidenceFolder     = "contract-evidence"
	maxEvidenceSize    = 10 * 1024 * 1024 // 10MB
	evidenceURLTimeout = 15 * time.Minute
)

var evidenceTypes = []string{".jpg", ".jpeg", ".png", ".webp"}

// StorageService archives contract evidence to S3. The backend keeps the
// authoritative copy; the archive is best effort and disabled without AWS
// credentials.
type StorageService struct {
	s3Client s3iface.S3API
	bucket   string
	now      func() time.Time
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if !cfg.Enabled() {
		return &StorageService{now: time.Now}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewStorageServiceWithClient(s3.New(sess), cfg.S3Bucket), nil
}

func NewStorageServiceWithClient(client s3iface.S3API, bucket string) *StorageService {
	return &StorageService{s3Client: client, bucket: bucket, now: time.Now}
}

func (s *StorageService) Enabled() bool {
	return s.s3Client != nil
}

// ArchiveEvidence uploads every file under the appointment's folder and
// returns the object keys in upload order.
func (s *StorageService) ArchiveEvidence(ctx context.Context, appointmentID string, files []lifecycle.EvidenceFile) ([]string, error) {
	if s.s3Client == nil {
		return nil, nil
	}

	keys := make([]string, 0, len(files))
	for i, file := range files {
		side := lifecycle.SideSeller
		if i >= models.PhotosPerParty {
			side = lifecycle.SideBuyer
		}
		key := s.evidenceKey(appointmentID, side, file.Name)

		_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(file.Data),
			ContentType:   aws.String(contentTypeOf(file)),
			ContentLength: aws.Int64(int64(len(file.Data))),
			Metadata: map[string]*string{
				"sha256":         aws.String(utils.HashBytes(file.Data)),
				"appointment-id": aws.String(appointmentID),
				"side":           aws.String(string(side)),
			},
		})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s to S3: %w", key, err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

func (s *StorageService) GeneratePresignedURL(key string) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(evidenceURLTimeout)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url, nil
}

// ValidateEvidence checks size, extension and the file signature of one
// photo before it is accepted into an evidence set.
func ValidateEvidence(file lifecycle.EvidenceFile) error {
	if len(file.Data) == 0 {
		return fmt.Errorf("file %s is empty", file.Name)
	}
	if len(file.Data) > maxEvidenceSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", len(file.Data), maxEvidenceSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	allowed := false
	for _, allowedType := range evidenceTypes {
		if ext == allowedType {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("file type %s is not allowed", ext)
	}

	if !isValidImageType(file.Data) {
		return fmt.Errorf("invalid image file")
	}
	return nil
}

func (s *StorageService) evidenceKey(appointmentID string, side lifecycle.Side, originalName string) string {
	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(originalName))
	timestamp := s.now().Format("20060102")
	return fmt.Sprintf("%s/%s/%s/%s_%s%s", evidenceFolder, appointmentID, side, timestamp, id.String()[:8], ext)
}

func contentTypeOf(file lifecycle.EvidenceFile) string {
	if file.ContentType != "" {
		return file.ContentType
	}
	return http.DetectContentType(file.Data)
}

func isValidImageType(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// WEBP
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}
