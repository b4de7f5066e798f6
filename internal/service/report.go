package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"medtracker/internal/model"
	"medtracker/internal/storage"
)

const reportPrefix = "reports/"

var reportHeader = []string{
	"id", "patient", "medication", "dosage", "frequency",
	"startDate", "endDate", "days", "remainingDays",
}

// ReportService exports assignment snapshots to object storage.
type ReportService interface {
	// ExportAssignments renders every assignment with its remaining days as CSV,
	// uploads it and returns a presigned download URL.
	ExportAssignments(ctx context.Context) (*model.Report, error)

	// Download streams a stored report. The caller must close the reader.
	Download(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error)
}

type reportService struct {
	store       storage.Storage
	assignments AssignmentService
	expiry      time.Duration
	now         func() time.Time
}

// NewReportService constructs a new ReportService.
func NewReportService(store storage.Storage, assignments AssignmentService, expiry time.Duration) ReportService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &reportService{store: store, assignments: assignments, expiry: expiry, now: time.Now}
}

func (s *reportService) ExportAssignments(ctx context.Context) (*model.Report, error) {
	items, err := s.assignments.ListWithRemainingDays(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}
	for _, a := range items {
		if err := w.Write(reportRow(a)); err != nil {
			return nil, fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush report: %w", err)
	}

	generatedAt := s.now().UTC()
	name := fmt.Sprintf("assignments-%s-%s.csv", generatedAt.Format("20060102T150405Z"), uuid.NewString()[:8])
	key := reportPrefix + name

	info, err := s.store.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:               int64(buf.Len()),
		ContentType:        "text/csv",
		ContentDisposition: fmt.Sprintf(`attachment; filename="%s"`, name),
		Metadata:           map[string]string{"rows": strconv.Itoa(len(items))},
	})
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, name, s.expiry)
	if err != nil {
		// Rollback: the report is useless without a link.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("presign report: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign report: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("report_key", key).
		Int("rows", len(items)).
		Int64("size", info.Size).
		Msg("assignment report exported")

	return &model.Report{
		Name:        name,
		Key:         info.Key,
		Size:        info.Size,
		Rows:        len(items),
		URL:         url,
		GeneratedAt: generatedAt,
	}, nil
}

func (s *reportService) Download(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	if !validReportName(name) {
		return nil, storage.ObjectInfo{}, fmt.Errorf("%w: %q", ErrInvalidReportName, name)
	}

	rc, info, err := s.store.Get(ctx, reportPrefix+name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, &NotFoundError{Entity: "Report", ID: name}
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("download report: %w", err)
	}
	return rc, info, nil
}

func validReportName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return path.Ext(name) == ".csv" && len(name) > len(".csv")
}

func reportRow(a model.AssignmentWithRemainingDays) []string {
	var patient, medication, dosage, frequency string
	if a.Patient != nil {
		patient = a.Patient.Name
	}
	if a.Medication != nil {
		medication = a.Medication.Name
		dosage = a.Medication.Dosage
		frequency = a.Medication.Frequency
	}
	return []string{
		strconv.FormatInt(a.ID, 10),
		patient,
		medication,
		dosage,
		frequency,
		a.StartDate.String(),
		a.EndDate().String(),
		strconv.Itoa(a.Days),
		strconv.Itoa(a.RemainingDays),
	}
}
