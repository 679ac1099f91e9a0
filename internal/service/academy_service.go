package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"academy-map-api/internal/geo"
	"academy-map-api/internal/metrics"
	"academy-map-api/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultFetchCap bounds the number of candidates fetched across all range queries.
	DefaultFetchCap = 1000
	// DefaultResultCap bounds the number of items returned after grouping.
	DefaultResultCap = 1000
	// ReputationChunkSize is the number of names looked up per reputation query in
	// batched mode.
	ReputationChunkSize = 10
	// ReputedCap bounds the reputed academies listing.
	ReputedCap = 1000
)

// ReputationMode selects how reputations are joined onto search results.
type ReputationMode string

const (
	// ReputationPreload reads every reputation once per request.
	ReputationPreload ReputationMode = "preload"
	// ReputationBatched reads only the reputations of surviving academies, in chunks.
	ReputationBatched ReputationMode = "batched"
)

// AcademyRepository interface for dependency injection
type AcademyRepository interface {
	FindAcademiesInGeohashRange(ctx context.Context, start, end string, limit int) ([]models.Academy, error)
	ListAcademies(ctx context.Context) ([]models.Academy, error)
}

// ReputationRepository interface for dependency injection
type ReputationRepository interface {
	ListReputations(ctx context.Context) ([]models.Reputation, error)
	FindReputationsByNames(ctx context.Context, names []string) ([]models.Reputation, error)
}

// SearchOptions tunes the search pipeline.
type SearchOptions struct {
	FetchCap       int
	ResultCap      int
	ReputationMode ReputationMode
}

// AcademyService runs viewport searches and academy listings
type AcademyService struct {
	academies   AcademyRepository
	reputations ReputationRepository
	opts        SearchOptions
}

// NewAcademyService creates a new academy service. Zero options fall back to the defaults.
func NewAcademyService(academies AcademyRepository, reputations ReputationRepository, opts SearchOptions) *AcademyService {
	if opts.FetchCap <= 0 {
		opts.FetchCap = DefaultFetchCap
	}
	if opts.ResultCap <= 0 {
		opts.ResultCap = DefaultResultCap
	}
	if opts.ReputationMode != ReputationBatched {
		opts.ReputationMode = ReputationPreload
	}
	return &AcademyService{academies: academies, reputations: reputations, opts: opts}
}

// Search returns the academies inside the circle spanned by the query viewport,
// filtered, joined with their reputations and grouped by identical coordinates.
func (s *AcademyService) Search(ctx context.Context, q models.SearchQuery) ([]models.ResultItem, error) {
	plan := geo.PlanViewport(q.NorthEast, q.SouthWest)

	var (
		candidates []models.Academy
		preloaded  map[string]models.Reputation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.fetch(gctx, plan.Bounds)
		return err
	})
	if s.opts.ReputationMode == ReputationPreload {
		g.Go(func() error {
			var err error
			preloaded, err = s.preloadReputations(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.SearchCandidatesTotal.Add(float64(len(candidates)))

	survivors := filterCandidates(candidates, plan, q.Keyword, q.Course)

	lookup := preloaded
	if s.opts.ReputationMode == ReputationBatched {
		var err error
		lookup, err = s.lookupReputations(ctx, survivors)
		if err != nil {
			return nil, err
		}
	}

	items := GroupByLocation(attachReputations(survivors, lookup))
	if len(items) > s.opts.ResultCap {
		items = items[:s.opts.ResultCap]
	}
	metrics.SearchResultsTotal.Add(float64(len(items)))

	return items, nil
}

// AllAcademies returns every stored academy with its reputation attached when one matches.
func (s *AcademyService) AllAcademies(ctx context.Context) ([]models.AcademyView, error) {
	academies, err := s.academies.ListAcademies(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list academies: %w", err)
	}
	lookup, err := s.preloadReputations(ctx)
	if err != nil {
		return nil, err
	}
	return attachReputations(academies, lookup), nil
}

// ReputedAcademies returns at most ReputedCap academies that have a reputation.
func (s *AcademyService) ReputedAcademies(ctx context.Context) ([]models.AcademyView, error) {
	all, err := s.AllAcademies(ctx)
	if err != nil {
		return nil, err
	}

	reputed := make([]models.AcademyView, 0, min(len(all), ReputedCap))
	for _, v := range all {
		if v.Reputation == nil {
			continue
		}
		reputed = append(reputed, v)
		if len(reputed) == ReputedCap {
			break
		}
	}
	return reputed, nil
}

// fetch runs one range query per bound concurrently and concatenates the results in
// bound order. Any failing query fails the whole fetch.
func (s *AcademyService) fetch(ctx context.Context, bounds []geo.Range) ([]models.Academy, error) {
	if len(bounds) == 0 {
		return nil, nil
	}
	limit := (s.opts.FetchCap + len(bounds) - 1) / len(bounds)

	results := make([][]models.Academy, len(bounds))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range bounds {
		g.Go(func() error {
			academies, err := s.academies.FindAcademiesInGeohashRange(gctx, b.Start, b.End, limit)
			if err != nil {
				return fmt.Errorf("service: range %s..%s: %w", b.Start, b.End, err)
			}
			results[i] = academies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var candidates []models.Academy
	for _, r := range results {
		candidates = append(candidates, r...)
	}
	return candidates, nil
}

func (s *AcademyService) preloadReputations(ctx context.Context) (map[string]models.Reputation, error) {
	reps, err := s.reputations.ListReputations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load reputations: %w", err)
	}
	return reputationIndex(reps), nil
}

// lookupReputations queries the reputations of the given academies only, ReputationChunkSize
// names per query.
func (s *AcademyService) lookupReputations(ctx context.Context, academies []models.Academy) (map[string]models.Reputation, error) {
	seen := make(map[string]bool, len(academies))
	var names []string
	for _, a := range academies {
		key := models.NormalizeName(a.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, key)
	}

	var (
		mu   sync.Mutex
		reps []models.Reputation
	)
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(names); start += ReputationChunkSize {
		chunk := names[start:min(start+ReputationChunkSize, len(names))]
		g.Go(func() error {
			found, err := s.reputations.FindReputationsByNames(gctx, chunk)
			if err != nil {
				return fmt.Errorf("service: failed to look up reputations: %w", err)
			}
			mu.Lock()
			reps = append(reps, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reputationIndex(reps), nil
}

func reputationIndex(reps []models.Reputation) map[string]models.Reputation {
	index := make(map[string]models.Reputation, len(reps))
	for _, r := range reps {
		index[models.NormalizeName(r.AcademyName)] = r
	}
	return index
}

// filterCandidates drops academies without coordinates, outside the plan's circle, or
// not matching the keyword and course filters. Courses compare trimmed, as listed by
// CourseService.
func filterCandidates(candidates []models.Academy, plan geo.Plan, keyword, course string) []models.Academy {
	keyword = strings.ToLower(keyword)

	var out []models.Academy
	for _, a := range candidates {
		if !a.HasCoordinates() {
			continue
		}
		if !plan.Within(models.LatLng{Lat: *a.Latitude, Lng: *a.Longitude}) {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(a.Name), keyword) {
			continue
		}
		if course != "" && strings.TrimSpace(a.Course) != course {
			continue
		}
		out = append(out, a)
	}
	return out
}

// attachReputations pairs each academy with the reputation stored under its normalized
// name. Academies without a match are kept as they are.
func attachReputations(academies []models.Academy, lookup map[string]models.Reputation) []models.AcademyView {
	views := make([]models.AcademyView, 0, len(academies))
	for _, a := range academies {
		v := models.AcademyView{Academy: a}
		if rep, ok := lookup[models.NormalizeName(a.Name)]; ok {
			v.Reputation = &rep
		}
		views = append(views, v)
	}
	return views
}

// GroupByLocation collapses academies with identical coordinates into one item. The
// representative of a group is its first member carrying a reputation, or its first
// member. Items keep the order in which their location first appeared.
func GroupByLocation(views []models.AcademyView) []models.ResultItem {
	var keys []string
	groups := make(map[string][]models.AcademyView)
	for _, v := range views {
		key := locationKey(v.Academy)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], v)
	}

	items := make([]models.ResultItem, 0, len(keys))
	for _, key := range keys {
		members := groups[key]
		if len(members) == 1 {
			items = append(items, models.ResultItem{AcademyView: members[0]})
			continue
		}

		rep := members[0]
		for _, m := range members {
			if m.Reputation != nil {
				rep = m
				break
			}
		}
		items = append(items, models.ResultItem{
			AcademyView:  rep,
			IsGroup:      true,
			GroupCount:   len(members),
			GroupMembers: members,
		})
	}
	return items
}

func locationKey(a models.Academy) string {
	if !a.HasCoordinates() {
		return "id:" + a.ID
	}
	return strconv.FormatFloat(*a.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(*a.Longitude, 'f', -1, 64)
}
