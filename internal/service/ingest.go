package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/accountdeck/internal/database/repository"
)

// ImportStore is the part of the record store an import needs.
type ImportStore interface {
	ExistsUID(ctx context.Context, uid string) (bool, error)
	Upsert(ctx context.Context, a repository.Account) error
}

// IngestService imports account CSV exports.
type IngestService struct {
	Store ImportStore
	Log   *zap.Logger
	// NewID overrides id generation in tests.
	NewID func() string
}

type IngestResult struct {
	Imported int
	Skipped  int
	Warnings []string
	Errors   []error
}

var errNoHeader = errors.New("csv: header row required")

var requiredColumns = []string{"name", "uid"}

// ImportCSV reads a header row followed by account rows. Columns are matched
// by header name, case-insensitively, in any order: name, email, uid,
// password, twofa_secret, cookies, status, friend_count, has_suggestions,
// created, last_updated, notes. Rows whose uid already exists are skipped.
// A malformed row is reported and the import continues.
func (s *IngestService) ImportCSV(ctx context.Context, r io.Reader) (IngestResult, error) {
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return res, errNoHeader
	}
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return res, fmt.Errorf("%w: missing column %q", errNoHeader, c)
		}
	}

	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		a, warnings, err := s.parseRow(field)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		for _, w := range warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %s", line, w))
		}
		if a.UID != "" {
			exists, err := s.Store.ExistsUID(ctx, a.UID)
			if err != nil {
				return res, fmt.Errorf("line %d lookup uid: %w", line, err)
			}
			if exists {
				res.Skipped++
				continue
			}
		}
		if err := s.Store.Upsert(ctx, a); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		res.Imported++
	}
	s.logger().Info("csv import finished",
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("warnings", len(res.Warnings)),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

func (s *IngestService) parseRow(field func(string) string) (repository.Account, []string, error) {
	var warnings []string
	a := repository.Account{
		ID:          s.newID(),
		Name:        field("name"),
		Email:       field("email"),
		UID:         field("uid"),
		Password:    field("password"),
		TwoFASecret: field("twofa_secret"),
		Cookies:     field("cookies"),
		Notes:       field("notes"),
		Status:      repository.StatusActive,
	}
	if a.Name == "" {
		return a, nil, errors.New("name is empty")
	}
	if v := field("status"); v != "" {
		st, ok := repository.ParseStatus(v)
		if !ok {
			return a, nil, fmt.Errorf("unknown status %q", v)
		}
		a.Status = st
	}
	if v := field("friend_count"); v != "" {
		n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
		if err != nil || n < 0 {
			return a, nil, fmt.Errorf("friend_count %q is not a count", v)
		}
		a.FriendCount = n
	}
	if v := field("has_suggestions"); v != "" {
		b, ok := parseFlag(v)
		if !ok {
			return a, nil, fmt.Errorf("has_suggestions %q is not a flag", v)
		}
		a.HasSuggestions = b
	}
	var ok bool
	if a.CreatedAt, ok = parseDate(field("created")); !ok {
		warnings = append(warnings, fmt.Sprintf("created %q unparseable, stored as unknown", field("created")))
	}
	if a.LastUpdated, ok = parseDate(field("last_updated")); !ok {
		warnings = append(warnings, fmt.Sprintf("last_updated %q unparseable, stored as unknown", field("last_updated")))
	}
	return a, warnings, nil
}

func (s *IngestService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *IngestService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// parseDate accepts RFC 3339 or a bare date. Empty input is a valid unknown
// date; anything else that fails to parse reports false.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	return b, err == nil
}
