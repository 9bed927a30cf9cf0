package report

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/wal"

	"conventest/internal/domain"
	"conventest/internal/logging"
)

// JournalEntry is the persisted form of one case result
type JournalEntry struct {
	RunID      string         `json:"run_id"`
	FullName   string         `json:"full_name"`
	Outcome    domain.Outcome `json:"outcome"`
	DurationNs int64          `json:"duration_ns"`
	Messages   []string       `json:"messages,omitempty"`
	SkipReason string         `json:"skip_reason,omitempty"`
}

// Journal appends every completed case to a write-ahead log, so results
// reported before a crash or hang survive it.
type Journal struct {
	Nop

	runID     string
	log       *wal.Log
	nextIndex uint64
	err       error
}

// OpenJournal opens or creates the journal at path
func OpenJournal(path, runID string) (*Journal, error) {
	log, err := wal.Open(path, &wal.Options{
		NoSync: true,
		NoCopy: true,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not open journal")
	}

	lastIndex, err := log.LastIndex()
	if err != nil {
		log.Close()
		return nil, errors.WithMessage(err, "could not read last index")
	}

	return &Journal{
		runID:     runID,
		log:       log,
		nextIndex: lastIndex + 1,
	}, nil
}

func (j *Journal) CaseCompleted(r domain.CaseResult) {
	if j.err != nil {
		return
	}

	entry := JournalEntry{
		RunID:      j.runID,
		FullName:   r.FullName,
		Outcome:    r.Outcome,
		DurationNs: int64(r.Duration),
		SkipReason: r.SkipReason,
	}
	for _, f := range r.Failures {
		entry.Messages = append(entry.Messages, f.Cause.Error())
	}

	data, err := json.Marshal(entry)
	if err != nil {
		j.fail(errors.WithMessage(err, "could not marshal journal entry"))
		return
	}
	if err := j.log.Write(j.nextIndex, data); err != nil {
		j.fail(errors.WithMessagef(err, "could not write index %d", j.nextIndex))
		return
	}
	j.nextIndex++
}

func (j *Journal) RunCompleted(domain.Summary) {
	if j.err != nil {
		return
	}
	if err := j.log.Sync(); err != nil {
		j.fail(errors.WithMessage(err, "could not sync journal"))
	}
}

func (j *Journal) fail(err error) {
	j.err = err
	logging.Error("journal", err, "Journal disabled for the rest of the run")
}

// Err returns the first write error, after which the journal stops recording
func (j *Journal) Err() error {
	return j.err
}

// Entries reads back every entry in the journal
func (j *Journal) Entries() ([]JournalEntry, error) {
	first, err := j.log.FirstIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "could not read first index")
	}
	last, err := j.log.LastIndex()
	if err != nil {
		return nil, errors.WithMessage(err, "could not read last index")
	}
	if first == 0 {
		return nil, nil
	}

	entries := make([]JournalEntry, 0, last-first+1)
	for i := first; i <= last; i++ {
		data, err := j.log.Read(i)
		if err != nil {
			return nil, errors.WithMessagef(err, "could not read index %d", i)
		}
		var entry JournalEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, errors.WithMessage(err, "error decoding entry, is the journal corrupt?")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close closes the underlying log
func (j *Journal) Close() error {
	return j.log.Close()
}
