package storage

import (
	"encoding/json"
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"

	"conventest/internal/domain"
	"conventest/internal/logging"
)

var latestKey = []byte("latest")

func runKey(runID string) []byte {
	return []byte("run/" + runID)
}

// BadgerStorage keeps every run in a badger database and remembers the latest.
type BadgerStorage struct {
	db *badger.DB
}

// OpenBadgerStorage opens the store at dirPath. An empty path opens an
// in-memory store.
func OpenBadgerStorage(dirPath string) (*BadgerStorage, error) {
	var badgerOpts badger.Options
	if dirPath == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return nil, errors.Wrap(err, "could not create report store directory")
		}
		badgerOpts = badger.DefaultOptions(dirPath).WithSyncWrites(false).WithTruncate(true)
	}
	badgerOpts = badgerOpts.WithLogger(badgerLogger{})

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.WithMessage(err, "could not open report store")
	}
	return &BadgerStorage{db: db}, nil
}

// Save stores a new run and marks it as the latest
func (s *BadgerStorage) Save(results []domain.CaseResult, failures []domain.TestFailure, duration time.Duration, lifecycle string) (*domain.TestResultsOutput, error) {
	output := NewOutput(results, failures, duration, lifecycle)
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

// SaveOutput stores output under its run ID and marks it as the latest
func (s *BadgerStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.Marshal(output)
	if err != nil {
		return errors.WithMessage(err, "could not marshal results")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(runKey(output.Meta.RunID), data); err != nil {
			return err
		}
		return txn.Set(latestKey, []byte(output.Meta.RunID))
	})
}

// Load returns the latest run
func (s *BadgerStorage) Load() (*domain.TestResultsOutput, error) {
	var output domain.TestResultsOutput
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey)
		if err != nil {
			return err
		}
		runID, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err = txn.Get(runKey(string(runID)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &output)
		})
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not load latest run")
	}
	return &output, nil
}

// History returns the metadata of every stored run, oldest first
func (s *BadgerStorage) History() ([]domain.TestResultsMeta, error) {
	var metas []domain.TestResultsMeta
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("run/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var output domain.TestResultsOutput
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &output)
			})
			if err != nil {
				return err
			}
			metas = append(metas, output.Meta)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not read run history")
	}

	sortByTimestamp(metas)
	return metas, nil
}

// Close closes the database
func (s *BadgerStorage) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's own logging through the application logger
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error("badger", nil, format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn("badger", format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug("badger", format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug("badger", format, args...)
}
