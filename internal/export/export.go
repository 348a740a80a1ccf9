package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cliniqon/clinic-scheduler/internal/dto"
)

// Exporter renders appointment listings to CSV and, when a bucket is
// configured, uploads the file to S3 and returns its object key.
type Exporter struct {
	client *s3.Client
	bucket string
}

func New(region, keyID, secret, bucket string) *Exporter {
	e := &Exporter{bucket: bucket}
	if bucket == "" || keyID == "" {
		return e
	}

	e.client = s3.New(s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(keyID, secret, ""),
	})
	return e
}

func (e *Exporter) Enabled() bool { return e.client != nil }

// CSV renders the rows with a header line. Times are emitted in RFC
// 3339 so spreadsheets keep the zone offset.
func (e *Exporter) CSV(rows []dto.AppointmentListDTO) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "start_time", "end_time", "status",
		"clinic", "doctor", "patient",
		"services", "total", "visit_type", "description",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		services := ""
		for i, s := range r.Services {
			if i > 0 {
				services += "; "
			}
			services += s
		}
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.StatusLabel,
			r.ClinicName,
			r.DoctorName,
			r.PatientName,
			services,
			strconv.FormatFloat(r.Total, 'f', 2, 64),
			r.VisitType,
			r.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// Upload stores the CSV under exports/ and returns the object key.
func (e *Exporter) Upload(ctx context.Context, clinicID uint, data []byte) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("export bucket not configured")
	}

	key := fmt.Sprintf("exports/clinic-%d/appointments-%s.csv",
		clinicID, time.Now().UTC().Format("20060102-150405"))

	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	return key, nil
}
