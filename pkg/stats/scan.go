package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zwavetools/zwconf/pkg/cache"
	"github.com/zwavetools/zwconf/pkg/jsontext"
)

// Logger is the minimal logging interface the scanner needs.
type Logger interface {
	Debugf(format string, args ...any)
}

// Scanner walks a device configuration tree and produces reports,
// memoized through the given cache.
type Scanner struct {
	baseDir string
	cache   cache.Cache
	ttl     time.Duration
	logger  Logger
}

// NewScanner creates a scanner over baseDir. c may be a NullCache to
// disable memoization.
func NewScanner(baseDir string, c cache.Cache) *Scanner {
	return &Scanner{baseDir: baseDir, cache: c, ttl: cache.DefaultTTL}
}

// SetLogger enables debug logging of per-file parse failures.
func (s *Scanner) SetLogger(l Logger) { s.logger = l }

// SetTTL bounds the lifetime of cached reports. Zero or negative
// restores the default.
func (s *Scanner) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	s.ttl = ttl
}

// Scan produces a report for the corpus. The second return reports
// whether the result came from cache. refresh forces a fresh walk.
func (s *Scanner) Scan(ctx context.Context, refresh bool) (*Report, bool, error) {
	key, err := s.fingerprint()
	if err != nil {
		return nil, false, err
	}

	if !refresh {
		if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			var report Report
			if err := json.Unmarshal(data, &report); err == nil {
				return &report, true, nil
			}
			// Undecodable cached report: fall through to a fresh scan.
		}
	}

	report, err := s.scan()
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(report); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
	return report, false, nil
}

// scan walks every .json file under baseDir. Per-file parse failures
// are counted and skipped; only filesystem-level failures abort.
func (s *Scanner) scan() (*Report, error) {
	report := newReport()

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			report.Errors++
			return nil
		}
		doc, err := jsontext.Parse(data)
		if err != nil {
			if s.logger != nil {
				s.logger.Debugf("skipping %s: %v", path, err)
			}
			report.Errors++
			return nil
		}

		report.addDocument(doc)
		report.Files++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// fingerprint derives a cache key from the corpus state: every file's
// path, size, and modification time. Any touched file changes the key,
// invalidating prior reports without explicit eviction.
func (s *Scanner) fingerprint() (string, error) {
	var lines []string

	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s|%d|%d", rel, info.Size(), info.ModTime().UnixNano()))
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Strings(lines)
	return "scan:" + cache.Hash([]byte(strings.Join(lines, "\n"))), nil
}
