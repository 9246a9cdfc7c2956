package store

import (
	"context"
	"fmt"

	"github.com/ntu-info/05-sununyunun/internal/dissociate"
)

// locationLimit caps the raw matches for a single coordinate lookup. A
// point with more matching studies than this gets truncated, which can
// understate the difference; that mirrors the upstream contract and is a
// documented limitation.
const locationLimit = 100

// StudyTitleRow is one decoded row of ns.metadata. Title is nil when the
// column is NULL.
type StudyTitleRow struct {
	StudyID dissociate.StudyID `json:"study_id"`
	Title   *string            `json:"title"`
}

// StudiesByTerm returns the ids of all studies having at least one
// annotation whose term contains the given text, case-insensitively. An
// empty term matches everything. No cap here; the caller applies its own
// limit to the joined result.
func (q *queries) StudiesByTerm(ctx context.Context, term string) ([]dissociate.StudyID, error) {
	rows, err := q.tx.Query(ctx, `
		SELECT DISTINCT study_id::text AS study_id
		FROM ns.annotations_terms
		WHERE term ILIKE '%' || $1 || '%'
		ORDER BY study_id
	`, term)
	if err != nil {
		return nil, fmt.Errorf("studies by term %q: %w", term, err)
	}
	defer rows.Close()

	var ids []dissociate.StudyID
	for rows.Next() {
		var id dissociate.StudyID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan study id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("studies by term %q: %w", term, err)
	}
	return ids, nil
}

// StudiesAtLocation returns the ids of studies reporting a coordinate
// exactly equal to c, up to locationLimit rows. Coordinates live as 3D
// geometries; x/y/z come out via the PostGIS accessors.
func (q *queries) StudiesAtLocation(ctx context.Context, c dissociate.Coordinate) ([]dissociate.StudyID, error) {
	rows, err := q.tx.Query(ctx, `
		SELECT DISTINCT study_id::text AS study_id
		FROM ns.coordinates
		WHERE ST_X(geom) = $1
		  AND ST_Y(geom) = $2
		  AND ST_Z(geom) = $3
		ORDER BY study_id
		LIMIT $4
	`, c.X, c.Y, c.Z, locationLimit)
	if err != nil {
		return nil, fmt.Errorf("studies at (%g, %g, %g): %w", c.X, c.Y, c.Z, err)
	}
	defer rows.Close()

	var ids []dissociate.StudyID
	for rows.Next() {
		var id dissociate.StudyID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan study id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("studies at (%g, %g, %g): %w", c.X, c.Y, c.Z, err)
	}
	return ids, nil
}

// Titles batch-resolves study ids to display titles in one query. Ids
// with no metadata row are absent from the map; a NULL title maps to
// nil. An empty input returns an empty map without touching the store.
func (q *queries) Titles(ctx context.Context, ids []dissociate.StudyID) (map[dissociate.StudyID]*string, error) {
	titles := make(map[dissociate.StudyID]*string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	rows, err := q.tx.Query(ctx, `
		SELECT study_id::text AS study_id, title
		FROM ns.metadata
		WHERE study_id::text = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("titles for %d studies: %w", len(ids), err)
	}
	defer rows.Close()

	for rows.Next() {
		var r StudyTitleRow
		if err := rows.Scan(&r.StudyID, &r.Title); err != nil {
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles[r.StudyID] = r.Title
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("titles for %d studies: %w", len(ids), err)
	}
	return titles, nil
}
