// Package batch accumulates store mutations and commits them in bounded groups.
package batch

import (
	"context"
	"fmt"

	"academy-map-api/internal/metrics"
	"academy-map-api/internal/models"
)

// MaxSize is the largest number of mutations the store accepts in one commit.
const MaxSize = 500

// Op identifies the kind of a Mutation.
type Op int

const (
	// OpInsertAcademy inserts an academy.
	OpInsertAcademy Op = iota + 1
	// OpSetCoordinates sets latitude, longitude and geohash.
	OpSetCoordinates
	// OpSetGeohash sets only the geohash.
	OpSetGeohash
	// OpDeleteAcademy deletes an academy.
	OpDeleteAcademy
	// OpInsertReview inserts or replaces a raw review.
	OpInsertReview
	// OpUpsertReputation inserts or replaces a reputation.
	OpUpsertReputation
	// OpSetTotalReviews updates a reputation's review count.
	OpSetTotalReviews
)

// String returns the snake_case name used in logs and errors.
func (o Op) String() string {
	switch o {
	case OpInsertAcademy:
		return "insert_academy"
	case OpSetCoordinates:
		return "set_coordinates"
	case OpSetGeohash:
		return "set_geohash"
	case OpDeleteAcademy:
		return "delete_academy"
	case OpInsertReview:
		return "insert_review"
	case OpUpsertReputation:
		return "upsert_reputation"
	case OpSetTotalReviews:
		return "set_total_reviews"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Mutation is a single write against the store. Which fields are read depends on Op.
type Mutation struct {
	Op         Op
	ID         string
	Academy    *models.Academy
	Review     *models.Review
	Reputation *models.Reputation
	Geohash    string
	Lat        float64
	Lng        float64
	Count      int
}

// InsertAcademy inserts a new academy.
func InsertAcademy(a models.Academy) Mutation {
	return Mutation{Op: OpInsertAcademy, ID: a.ID, Academy: &a}
}

// SetCoordinates stores resolved coordinates together with their geohash.
func SetCoordinates(id string, lat, lng float64, geohash string) Mutation {
	return Mutation{Op: OpSetCoordinates, ID: id, Lat: lat, Lng: lng, Geohash: geohash}
}

// SetGeohash stores the geohash of an academy that already has coordinates.
func SetGeohash(id, geohash string) Mutation {
	return Mutation{Op: OpSetGeohash, ID: id, Geohash: geohash}
}

// DeleteAcademy removes an academy.
func DeleteAcademy(id string) Mutation {
	return Mutation{Op: OpDeleteAcademy, ID: id}
}

// InsertReview inserts a raw review, replacing one with the same ID.
func InsertReview(r models.Review) Mutation {
	return Mutation{Op: OpInsertReview, ID: r.ReviewID, Review: &r}
}

// UpsertReputation inserts or replaces the reputation stored under the normalized name.
func UpsertReputation(r models.Reputation) Mutation {
	return Mutation{Op: OpUpsertReputation, ID: r.AcademyName, Reputation: &r}
}

// SetTotalReviews sets the review count of the reputation whose normalized name matches
// academyName.
func SetTotalReviews(academyName string, count int) Mutation {
	return Mutation{Op: OpSetTotalReviews, ID: academyName, Count: count}
}

// Committer applies a group of mutations atomically.
type Committer interface {
	CommitBatch(ctx context.Context, mutations []Mutation) error
}

// Writer buffers mutations and commits every time the buffer reaches its size.
// After a failed commit the writer refuses further work; earlier commits stay applied.
type Writer struct {
	committer Committer
	size      int
	pending   []Mutation
	err       error

	// OnCommit, if set, is called after every successful commit with the number of
	// mutations in that commit and the running total.
	OnCommit func(n, total int)

	committed int
	batches   int
}

// NewWriter creates a writer committing at most size mutations at a time.
// Sizes outside [1, MaxSize] fall back to MaxSize.
func NewWriter(c Committer, size int) *Writer {
	if size <= 0 || size > MaxSize {
		size = MaxSize
	}
	return &Writer{committer: c, size: size, pending: make([]Mutation, 0, size)}
}

// Add queues m and commits the buffer when it is full.
func (w *Writer) Add(ctx context.Context, m Mutation) error {
	if w.err != nil {
		return w.err
	}
	w.pending = append(w.pending, m)
	if len(w.pending) >= w.size {
		return w.commit(ctx)
	}
	return nil
}

// Flush commits any queued mutations.
func (w *Writer) Flush(ctx context.Context) error {
	if w.err != nil {
		return w.err
	}
	if len(w.pending) == 0 {
		return nil
	}
	return w.commit(ctx)
}

// Committed returns the number of mutations committed so far.
func (w *Writer) Committed() int { return w.committed }

// Batches returns the number of successful commits.
func (w *Writer) Batches() int { return w.batches }

// Pending returns the number of queued, uncommitted mutations.
func (w *Writer) Pending() int { return len(w.pending) }

func (w *Writer) commit(ctx context.Context) error {
	n := len(w.pending)
	if err := w.committer.CommitBatch(ctx, w.pending); err != nil {
		w.err = fmt.Errorf("batch: commit %d after %d committed: %w", n, w.committed, err)
		metrics.BatchFailuresTotal.Inc()
		return w.err
	}
	w.committed += n
	w.batches++
	metrics.BatchCommitsTotal.Inc()
	metrics.BatchMutationsTotal.Add(float64(n))
	if w.OnCommit != nil {
		w.OnCommit(n, w.committed)
	}
	w.pending = make([]Mutation, 0, w.size)
	return nil
}
