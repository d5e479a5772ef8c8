package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/careagent/internal/constants"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/storage"
)

var logColumns = []string{"id", "timestamp", "author", "original_text", "category", "severity"}

// timestampLayouts covers CURRENT_TIMESTAMP text and the RFC3339 form the
// driver produces when it hands back a DATETIME column as time.Time.
var timestampLayouts = []string{
	constants.TimestampFormat,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
}

func (s *Store) AddLog(entry models.LogEntry) (models.LogEntry, error) {
	if strings.TrimSpace(entry.OriginalText) == "" {
		return models.LogEntry{}, apperrors.Validation("log text", "", "cannot be empty")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	var category, severity sql.NullString
	if entry.Category != nil {
		category = sql.NullString{String: string(*entry.Category), Valid: true}
	}
	if entry.Severity != nil {
		severity = sql.NullString{String: string(*entry.Severity), Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO logs (timestamp, author, original_text, category, severity)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Timestamp.UTC().Format(constants.TimestampFormat), entry.Author, entry.OriginalText, category, severity)
	if err != nil {
		return models.LogEntry{}, apperrors.Storage("add log", fmt.Errorf("failed to insert log: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.LogEntry{}, apperrors.Storage("add log", fmt.Errorf("failed to read log id: %w", err))
	}
	entry.ID = id
	entry.Timestamp = entry.Timestamp.UTC().Truncate(time.Second)

	return entry, nil
}

func (s *Store) GetLog(id int64) (models.LogEntry, error) {
	query, args, err := builder.Select(logColumns...).From("logs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.LogEntry{}, apperrors.Storage("get log", fmt.Errorf("failed to build log query: %w", err))
	}
	row := s.db.QueryRow(query, args...)
	entry, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LogEntry{}, apperrors.Storage("get log", fmt.Errorf("log %d: %w", id, storage.ErrNotFound))
	}
	if err != nil {
		return models.LogEntry{}, apperrors.Storage("get log", fmt.Errorf("failed to get log: %w", err))
	}
	return entry, nil
}

// GetRecentLogs returns up to limit entries, newest first. A limit of zero
// or less returns every entry.
func (s *Store) GetRecentLogs(limit int) ([]models.LogEntry, error) {
	q := builder.Select(logColumns...).From("logs").OrderBy("id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, apperrors.Storage("list logs", fmt.Errorf("failed to build log query: %w", err))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperrors.Storage("list logs", fmt.Errorf("failed to query logs: %w", err))
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, apperrors.Storage("list logs", fmt.Errorf("failed to scan log: %w", err))
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list logs", fmt.Errorf("error iterating logs: %w", err))
	}

	return entries, nil
}

func (s *Store) GetLatestLogWithSeverity(sev models.Severity) (models.LogEntry, bool, error) {
	query, args, err := builder.Select(logColumns...).
		From("logs").
		Where(sq.Eq{"severity": string(sev)}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.LogEntry{}, false, apperrors.Storage("latest log", fmt.Errorf("failed to build log query: %w", err))
	}
	row := s.db.QueryRow(query, args...)
	entry, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LogEntry{}, false, nil
	}
	if err != nil {
		return models.LogEntry{}, false, apperrors.Storage("latest log", fmt.Errorf("failed to get latest %s log: %w", sev, err))
	}
	return entry, true, nil
}

func (s *Store) DeleteLog(id int64) error {
	result, err := s.db.Exec(`DELETE FROM logs WHERE id = ?`, id)
	if err != nil {
		return apperrors.Storage("delete log", fmt.Errorf("failed to delete log: %w", err))
	}
	return apperrors.Storage("delete log", checkAffected(result, "log", id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (models.LogEntry, error) {
	var (
		entry                               models.LogEntry
		ts                                  any
		author, text, category, severityStr sql.NullString
	)
	if err := row.Scan(&entry.ID, &ts, &author, &text, &category, &severityStr); err != nil {
		return models.LogEntry{}, err
	}

	parsed, err := parseTimestamp(ts)
	if err != nil {
		return models.LogEntry{}, err
	}
	entry.Timestamp = parsed
	entry.Author = nullString(author)
	entry.OriginalText = nullString(text)

	// Unknown labels from older rows are kept unclassified rather than guessed.
	if c, ok := models.ParseCategory(nullString(category)); ok {
		entry.Category = &c
	}
	if sev, ok := models.ParseSeverity(nullString(severityStr)); ok {
		entry.Severity = &sev
	}

	return entry, nil
}

func parseTimestamp(v any) (time.Time, error) {
	var raw string
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t.UTC(), nil
	case string:
		raw = t
	case []byte:
		raw = string(t)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", raw)
}
