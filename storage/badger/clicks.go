package badger

import (
	"context"

	"github.com/poiesic/filescout/core"
	"github.com/poiesic/filescout/storage"
)

// ClickRepository implements storage.ClickRepository for BadgerDB.
// Each path owns exactly one key, so a save overwrites the previous count.
type ClickRepository struct {
	backend *Backend
}

var _ storage.ClickRepository = (*ClickRepository)(nil)

// NewClickRepository creates a new ClickRepository.
func NewClickRepository(backend *Backend) *ClickRepository {
	return &ClickRepository{
		backend: backend,
	}
}

// SaveClick stores the record under its path.
func (r *ClickRepository) SaveClick(ctx context.Context, record *core.ClickRecord) error {
	if err := core.ValidateClickRecord(record); err != nil {
		return err
	}
	return r.backend.Put(makeClickKey(record.Path), storage.MarshalClickRecord(record))
}

// GetClick retrieves the record for path.
// Returns storage.ErrNotFound if the path was never clicked.
func (r *ClickRepository) GetClick(ctx context.Context, path string) (*core.ClickRecord, error) {
	var record *core.ClickRecord
	err := r.backend.Get(makeClickKey(path), func(val []byte) (err error) {
		record, err = storage.UnmarshalClickRecord(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// LoadClicks returns every stored record in key order.
func (r *ClickRepository) LoadClicks(ctx context.Context) ([]*core.ClickRecord, error) {
	var records []*core.ClickRecord
	err := r.backend.Scan(ctx, []byte(clickRecordPrefix+":"), func(val []byte) error {
		record, err := storage.UnmarshalClickRecord(val)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
