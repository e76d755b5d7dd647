package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leeovery/finddups/internal/dedup"
)

// GroupRow is a cached group with its members.
type GroupRow struct {
	ID        int
	Key       dedup.Key
	Size      int
	Confirmed int
	Choice    int
	Kept      int
	QSOs      []QSORow
}

// Ambiguous reports whether the group is duplicated and keeps more than one
// member.
func (g GroupRow) Ambiguous() bool {
	return g.Size > 1 && g.Kept > 1
}

// QSORow is a cached record.
type QSORow struct {
	Index     int
	QSO       dedup.QSO
	Confirmed bool
	Keep      bool
}

const statsQuery = `
SELECT
  (SELECT COUNT(*) FROM qsos),
  (SELECT COUNT(*) FROM qso_groups),
  (SELECT COUNT(*) FROM qso_groups WHERE size = 1),
  (SELECT COUNT(*) FROM qso_groups WHERE size > 1),
  (SELECT COUNT(*) FROM qsos q JOIN qso_groups g ON g.id = q.group_id WHERE g.size = 1 OR q.keep = 1),
  (SELECT COUNT(*) FROM qsos q JOIN qso_groups g ON g.id = q.group_id WHERE g.size > 1 AND q.keep = 0),
  (SELECT COUNT(*) FROM qso_groups WHERE size > 1 AND kept > 1),
  (SELECT COALESCE(MAX(size), 0) FROM qso_groups)
`

// ReadStats computes run statistics from the cached tables.
func ReadStats(ctx context.Context, db *sql.DB) (dedup.Stats, error) {
	var s dedup.Stats
	err := db.QueryRowContext(ctx, statsQuery).Scan(
		&s.Records, &s.Groups, &s.Singletons, &s.DuplicateGroups,
		&s.Kept, &s.Discarded, &s.Ambiguous, &s.LargestGroup,
	)
	if err != nil {
		return dedup.Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return s, nil
}

// ReadGroups returns cached groups in first-occurrence order with their
// members in input order. With duplicatesOnly, singleton groups are skipped.
func ReadGroups(ctx context.Context, db *sql.DB, duplicatesOnly bool) ([]GroupRow, error) {
	where := ""
	if duplicatesOnly {
		where = "WHERE g.size > 1"
	}

	rows, err := db.QueryContext(ctx, `SELECT g.id, g.call, g.qso_date, g.time_on, g.band, g.rx_band, g.mode,
		g.size, g.confirmed, g.choice, g.kept FROM qso_groups g `+where+` ORDER BY g.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []GroupRow
	byID := map[int]int{}
	for rows.Next() {
		var g GroupRow
		k := &g.Key
		if err := rows.Scan(&g.ID, &k.Call, &k.QSODate, &k.TimeOn, &k.Band, &k.RXBand, &k.Mode,
			&g.Size, &g.Confirmed, &g.Choice, &g.Kept); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		byID[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}

	qrows, err := db.QueryContext(ctx, `SELECT q.idx, q.group_id, q.call, q.qso_date, q.time_on, q.band, q.rx_band,
		q.mode, q.freq, q.qsl_rcvd, q.confirmed, q.keep
		FROM qsos q JOIN qso_groups g ON g.id = q.group_id `+where+` ORDER BY q.group_id, q.idx`)
	if err != nil {
		return nil, fmt.Errorf("failed to query qsos: %w", err)
	}
	defer qrows.Close()

	for qrows.Next() {
		var r QSORow
		var groupID int
		q := &r.QSO
		if err := qrows.Scan(&r.Index, &groupID, &q.Call, &q.QSODate, &q.TimeOn, &q.Band, &q.RXBand,
			&q.Mode, &q.Freq, &q.QSLRcvd, &r.Confirmed, &r.Keep); err != nil {
			return nil, fmt.Errorf("failed to scan qso: %w", err)
		}
		i, ok := byID[groupID]
		if !ok {
			continue
		}
		groups[i].QSOs = append(groups[i].QSOs, r)
	}
	if err := qrows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read qsos: %w", err)
	}

	return groups, nil
}
