// Package backup snapshots the SQLite store and ships the copy to object storage.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"quicklist/internal/repository/sqlite"
	"quicklist/internal/storage"
)

const timestampLayout = "20060102T150405Z"

// Config describes where snapshots are uploaded.
type Config struct {
	Bucket    string
	KeyPrefix string
	Logger    logrus.FieldLogger
}

// Runner takes snapshots of a live database.
type Runner struct {
	db     *sql.DB
	store  storage.Service
	cfg    Config
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewRunner(cfg Config, db *sql.DB, store storage.Service) (*Runner, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if store == nil {
		return nil, errors.New("storage service is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("backup bucket is required")
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &Runner{
		db:     db,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Run writes a snapshot to a temporary file, uploads it and returns its location.
func (r *Runner) Run(ctx context.Context) (string, error) {
	tmpDir, err := os.MkdirTemp("", "quicklist-backup-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	name := fmt.Sprintf("quicklist-%s.db", r.now().UTC().Format(timestampLayout))
	local := filepath.Join(tmpDir, name)
	if err := sqlite.Snapshot(ctx, r.db, local); err != nil {
		return "", err
	}

	key := name
	if r.cfg.KeyPrefix != "" {
		key = r.cfg.KeyPrefix + "/" + name
	}

	logger := r.logger.WithField("key", key)
	lastLogged := time.Time{}
	location, err := r.store.UploadFile(ctx, local, storage.UploadOptions{
		Bucket:      r.cfg.Bucket,
		Key:         key,
		ContentType: "application/vnd.sqlite3",
		ProgressCallback: func(done, total int64) {
			if time.Since(lastLogged) < time.Second && done != total {
				return
			}
			lastLogged = time.Now()
			logger.WithFields(logrus.Fields{"done": done, "total": total}).Debug("backup upload progress")
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	logger.WithField("location", location).Info("backup uploaded")
	return location, nil
}

// List returns the uploaded snapshots, newest first.
func (r *Runner) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	prefix := ""
	if r.cfg.KeyPrefix != "" {
		prefix = r.cfg.KeyPrefix + "/"
	}
	objects, err := r.store.ListObjects(ctx, r.cfg.Bucket, prefix)
	if err != nil {
		return nil, err
	}

	snapshots := objects[:0]
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, ".db") {
			snapshots = append(snapshots, obj)
		}
	}
	// keys embed a sortable timestamp
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Key > snapshots[j].Key
	})
	return snapshots, nil
}
