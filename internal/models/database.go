package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// SyncRun is the journal entry of one synchronization run
type SyncRun struct {
	ID      string    `boltholdKey:"ID"`
	Status  RunStatus `boltholdIndex:"Status"`
	Origins []Origin

	Created int
	Updated int
	Skipped int
	Failed  int
	Error   string

	StartedAt  time.Time
	FinishedAt *time.Time
}

// VideoLink remembers which post a provider video was synthesized into
type VideoLink struct {
	Key      string `boltholdKey:"Key"` // origin:videoId
	Origin   Origin `boltholdIndex:"Origin"`
	VideoID  string
	PostID   string
	SyncedAt time.Time
}

// Database wraps the bolthold store holding the run journal
type Database struct {
	store *bolthold.Store
}

// NewDatabase opens (or creates) the journal file
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the journal
func (db *Database) Close() error {
	return db.store.Close()
}

// Run operations

// CreateRun stores a new run
func (db *Database) CreateRun(run *SyncRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return db.store.Insert(run.ID, run)
}

// UpdateRun replaces a stored run
func (db *Database) UpdateRun(run *SyncRun) error {
	return db.store.Update(run.ID, run)
}

// FinishRun stamps the finish time and final status
func (db *Database) FinishRun(run *SyncRun, status RunStatus, runErr error) error {
	now := time.Now()
	run.FinishedAt = &now
	run.Status = status
	if runErr != nil {
		run.Error = runErr.Error()
	}
	return db.UpdateRun(run)
}

// GetRun retrieves a run by id
func (db *Database) GetRun(id string) (*SyncRun, error) {
	var run SyncRun
	if err := db.store.Get(id, &run); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns the latest runs, newest first
func (db *Database) RecentRuns(limit int) ([]*SyncRun, error) {
	var runs []*SyncRun
	query := (&bolthold.Query{}).SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := db.store.Find(&runs, query)
	return runs, err
}

// GetRunsByStatus retrieves runs in a given state
func (db *Database) GetRunsByStatus(status RunStatus) ([]*SyncRun, error) {
	var runs []*SyncRun
	err := db.store.Find(&runs, bolthold.Where("Status").Eq(status))
	return runs, err
}

// Link operations

// GetLink returns the post link for a video key
func (db *Database) GetLink(key string) (*VideoLink, error) {
	var link VideoLink
	if err := db.store.Get(key, &link); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, fmt.Errorf("video %s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return &link, nil
}

// SaveLink inserts or replaces a link
func (db *Database) SaveLink(link *VideoLink) error {
	link.SyncedAt = time.Now()
	return db.store.Upsert(link.Key, link)
}

// GetLinksByOrigin lists every link recorded for an origin
func (db *Database) GetLinksByOrigin(origin Origin) ([]*VideoLink, error) {
	var links []*VideoLink
	err := db.store.Find(&links, bolthold.Where("Origin").Eq(origin))
	return links, err
}
