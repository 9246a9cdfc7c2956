package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/ntu-info/05-sununyunun/internal/dissociate"
)

// CoordinateRow is one decoded sample row of ns.coordinates.
type CoordinateRow struct {
	StudyID dissociate.StudyID `json:"study_id"`
	X       float64            `json:"x"`
	Y       float64            `json:"y"`
	Z       float64            `json:"z"`
}

// TermAnnotationRow is one decoded sample row of ns.annotations_terms.
type TermAnnotationRow struct {
	StudyID    dissociate.StudyID `json:"study_id"`
	ContrastID string             `json:"contrast_id"`
	Term       string             `json:"term"`
	Weight     pgtype.Float8      `json:"weight"`
}

// DiagnosticReport is the /test_db payload: connectivity, table counts
// and small samples. Each sample probe either fills its slice or records
// its failure in SampleErrors; a probe failure does not fail the report.
type DiagnosticReport struct {
	OK                     bool                `json:"ok"`
	Dialect                string              `json:"dialect"`
	Version                string              `json:"version,omitempty"`
	CoordinatesCount       int64               `json:"coordinates_count"`
	MetadataCount          int64               `json:"metadata_count"`
	AnnotationsTermsCount  int64               `json:"annotations_terms_count"`
	CoordinatesSample      []CoordinateRow     `json:"coordinates_sample"`
	MetadataSample         []StudyTitleRow     `json:"metadata_sample"`
	AnnotationsTermsSample []TermAnnotationRow `json:"annotations_terms_sample"`
	SampleErrors           map[string]string   `json:"sample_errors,omitempty"`
	Error                  string              `json:"error,omitempty"`
}

// Diagnose probes the backing store and assembles a report. It never
// returns an error; failures land in the report so the handler can still
// show partial results.
func (s *Store) Diagnose(ctx context.Context) *DiagnosticReport {
	report := &DiagnosticReport{
		Dialect:                "postgresql",
		CoordinatesSample:      []CoordinateRow{},
		MetadataSample:         []StudyTitleRow{},
		AnnotationsTermsSample: []TermAnnotationRow{},
	}

	err := s.withRawTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, "SELECT version()").Scan(&report.Version); err != nil {
			return fmt.Errorf("version: %w", err)
		}

		counts := []struct {
			table string
			dst   *int64
		}{
			{"ns.coordinates", &report.CoordinatesCount},
			{"ns.metadata", &report.MetadataCount},
			{"ns.annotations_terms", &report.AnnotationsTermsCount},
		}
		for _, c := range counts {
			if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
				return fmt.Errorf("count %s: %w", c.table, err)
			}
		}

		if rows, err := sampleCoordinates(ctx, tx); err != nil {
			report.recordSampleError("coordinates_sample", err)
		} else {
			report.CoordinatesSample = rows
		}
		if rows, err := sampleMetadata(ctx, tx); err != nil {
			report.recordSampleError("metadata_sample", err)
		} else {
			report.MetadataSample = rows
		}
		if rows, err := sampleAnnotations(ctx, tx); err != nil {
			report.recordSampleError("annotations_terms_sample", err)
		} else {
			report.AnnotationsTermsSample = rows
		}
		return nil
	})
	if err != nil {
		report.Error = err.Error()
		s.log.Warn("store diagnostics failed", zap.Error(err))
		return report
	}

	report.OK = true
	return report
}

func (r *DiagnosticReport) recordSampleError(probe string, err error) {
	if r.SampleErrors == nil {
		r.SampleErrors = make(map[string]string)
	}
	r.SampleErrors[probe] = err.Error()
}

func sampleCoordinates(ctx context.Context, tx pgx.Tx) ([]CoordinateRow, error) {
	rows, err := tx.Query(ctx, `
		SELECT study_id::text, ST_X(geom), ST_Y(geom), ST_Z(geom)
		FROM ns.coordinates
		LIMIT 3
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CoordinateRow{}
	for rows.Next() {
		var r CoordinateRow
		if err := rows.Scan(&r.StudyID, &r.X, &r.Y, &r.Z); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func sampleMetadata(ctx context.Context, tx pgx.Tx) ([]StudyTitleRow, error) {
	rows, err := tx.Query(ctx, `
		SELECT study_id::text, title
		FROM ns.metadata
		LIMIT 3
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StudyTitleRow{}
	for rows.Next() {
		var r StudyTitleRow
		if err := rows.Scan(&r.StudyID, &r.Title); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func sampleAnnotations(ctx context.Context, tx pgx.Tx) ([]TermAnnotationRow, error) {
	rows, err := tx.Query(ctx, `
		SELECT study_id::text, contrast_id::text, term, weight
		FROM ns.annotations_terms
		LIMIT 3
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TermAnnotationRow{}
	for rows.Next() {
		var r TermAnnotationRow
		if err := rows.Scan(&r.StudyID, &r.ContrastID, &r.Term, &r.Weight); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
