package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Shlok-Goswami/virtudesk/internal/session"
)

// Insert stores the record, assigning its id and creation timestamp, and
// returns the saved record.
func (s *implStorage) Insert(ctx context.Context, rec session.Record) (session.Record, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	keyPoints, err := json.Marshal(rec.KeyPoints)
	if err != nil {
		return session.Record{}, fmt.Errorf("encode key points: %w", err)
	}
	participants, err := json.Marshal(rec.Participants)
	if err != nil {
		return session.Record{}, fmt.Errorf("encode participants: %w", err)
	}
	names, err := json.Marshal(rec.ParticipantNames)
	if err != nil {
		return session.Record{}, fmt.Errorf("encode participant names: %w", err)
	}
	transcriptions, err := json.Marshal(rec.Transcriptions)
	if err != nil {
		return session.Record{}, fmt.Errorf("encode transcriptions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meeting_summaries (
			id, room_id, group_id, created_by, summary, key_points,
			participants, participant_names, transcriptions,
			duration_ms, start_time, end_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RoomID, rec.GroupID, rec.CreatedBy, rec.Summary.Summary,
		string(keyPoints), string(participants), string(names), string(transcriptions),
		rec.DurationMS, rec.StartTime, rec.EndTime, rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return session.Record{}, fmt.Errorf("insert summary: %w", err)
	}

	s.logger.Debug(ctx, "Stored summary %s for room %s", rec.ID, rec.RoomID)
	return rec, nil
}

// ListByRoom returns the stored records for a room, newest first.
func (s *implStorage) ListByRoom(ctx context.Context, roomID string) ([]session.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, group_id, created_by, summary, key_points,
			participants, participant_names, transcriptions,
			duration_ms, start_time, end_time, created_at
		FROM meeting_summaries
		WHERE room_id = ?
		ORDER BY created_at DESC`, roomID)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var records []session.Record
	for rows.Next() {
		var rec session.Record
		var keyPoints, participants, names, transcriptions, createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.RoomID, &rec.GroupID, &rec.CreatedBy, &rec.Summary.Summary,
			&keyPoints, &participants, &names, &transcriptions,
			&rec.DurationMS, &rec.StartTime, &rec.EndTime, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}

		if err := json.Unmarshal([]byte(keyPoints), &rec.KeyPoints); err != nil {
			return nil, fmt.Errorf("decode key points: %w", err)
		}
		if err := json.Unmarshal([]byte(participants), &rec.Participants); err != nil {
			return nil, fmt.Errorf("decode participants: %w", err)
		}
		if err := json.Unmarshal([]byte(names), &rec.ParticipantNames); err != nil {
			return nil, fmt.Errorf("decode participant names: %w", err)
		}
		if err := json.Unmarshal([]byte(transcriptions), &rec.Transcriptions); err != nil {
			return nil, fmt.Errorf("decode transcriptions: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}

	return records, nil
}
