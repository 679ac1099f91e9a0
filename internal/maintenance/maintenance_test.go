package maintenance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"academy-map-api/internal/geo"
	"academy-map-api/internal/models"
	"academy-map-api/internal/ndjson"
	"academy-map-api/pkg/kakao"
	"academy-map-api/pkg/neis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errCommit = errors.New("commit failed")

func academy(id string, lat, lng *float64) models.Academy {
	return models.Academy{ID: id, Name: "학원 " + id, Address: "서울특별시 강남구 " + id, Latitude: lat, Longitude: lng, RegionName: "서울특별시교육청", DistrictArea: "강남구"}
}

func TestGeohashBackfill(t *testing.T) {
	store := newMemStore(
		academy("a1", ptr(37.4946), ptr(127.0622)),
		academy("a2", ptr(35.1796), ptr(129.0756)),
		academy("a3", nil, nil),
		academy("a4", ptr(math.NaN()), ptr(127.0)),
		academy("a5", ptr(95.0), ptr(127.0)),
	)

	rep, err := GeohashBackfill(context.Background(), store, store, 500)
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 5, Written: 2, Skipped: 3}, rep)

	assert.Equal(t, geo.Encode(37.4946, 127.0622), *store.academies["a1"].Geohash)
	assert.Equal(t, geo.Encode(35.1796, 129.0756), *store.academies["a2"].Geohash)
	for _, id := range []string{"a3", "a4", "a5"} {
		assert.Nil(t, store.academies[id].Geohash, id)
	}

	again, err := GeohashBackfill(context.Background(), store, store, 500)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Written)
	assert.Len(t, store.commits, 1)
}

func TestGeohashBackfill_CommitsInBatches(t *testing.T) {
	var academies []models.Academy
	for i := range 1203 {
		academies = append(academies, academy(fmt.Sprintf("a%04d", i), ptr(37.0+float64(i)*1e-4), ptr(127.0)))
	}
	store := newMemStore(academies...)

	rep, err := GeohashBackfill(context.Background(), store, store, 500)
	require.NoError(t, err)
	assert.Equal(t, 1203, rep.Written)

	require.Len(t, store.commits, 3)
	assert.Len(t, store.commits[0], 500)
	assert.Len(t, store.commits[1], 500)
	assert.Len(t, store.commits[2], 203)
}

func TestGeohashBackfill_HaltsOnFailedCommit(t *testing.T) {
	var academies []models.Academy
	for i := range 12 {
		academies = append(academies, academy(fmt.Sprintf("a%02d", i), ptr(37.5), ptr(127.0)))
	}
	store := newMemStore(academies...)
	store.failCommit = 2

	_, err := GeohashBackfill(context.Background(), store, store, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, errCommit)

	missing, _ := store.ListAcademiesWithoutGeohash(context.Background())
	assert.Len(t, missing, 7)
}

func TestGeocodePass(t *testing.T) {
	noAddress := academy("a4", nil, nil)
	noAddress.Address = "  "
	elsewhere := academy("a5", nil, nil)
	elsewhere.RegionName = "부산광역시교육청"

	store := newMemStore(
		academy("a1", nil, nil),
		academy("a2", nil, nil),
		academy("a3", nil, nil),
		noAddress,
		elsewhere,
		academy("a6", ptr(37.5), ptr(127.0)),
	)

	g := new(MockGeocoder)
	g.On("Geocode", mock.Anything, "서울특별시 강남구 a1").Return(kakao.Coordinates{Lat: 37.4946, Lng: 127.0622}, nil)
	g.On("Geocode", mock.Anything, "서울특별시 강남구 a2").Return(kakao.Coordinates{}, kakao.ErrNotFound)
	g.On("Geocode", mock.Anything, "서울특별시 강남구 a3").Return(kakao.Coordinates{}, errors.New("upstream 502"))

	rep, err := GeocodePass(context.Background(), store, g, store, 500, []string{"서울특별시교육청"})
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 4, Written: 1, Deleted: 1, Skipped: 1, Failed: 1}, rep)

	a1 := store.academies["a1"]
	assert.InDelta(t, 37.4946, *a1.Latitude, 1e-9)
	assert.Equal(t, geo.Encode(37.4946, 127.0622), *a1.Geohash)
	assert.NotContains(t, store.academies, "a2")
	assert.Nil(t, store.academies["a3"].Latitude)
	assert.Nil(t, store.academies["a5"].Latitude)
	g.AssertExpectations(t)
	g.AssertNumberOfCalls(t, "Geocode", 3)
}

func TestGeocodePass_StopsWhenBudgetIsExhausted(t *testing.T) {
	store := newMemStore(
		academy("a1", nil, nil),
		academy("a2", nil, nil),
		academy("a3", nil, nil),
	)

	g := new(MockGeocoder)
	g.On("Geocode", mock.Anything, "서울특별시 강남구 a1").Return(kakao.Coordinates{Lat: 37.5, Lng: 127.0}, nil)
	g.On("Geocode", mock.Anything, "서울특별시 강남구 a2").Return(kakao.Coordinates{}, kakao.ErrQuotaExhausted)

	rep, err := GeocodePass(context.Background(), store, g, store, 500, nil)
	require.NoError(t, err)
	assert.True(t, rep.Stopped)
	assert.Equal(t, 1, rep.Scanned)
	assert.Equal(t, 1, rep.Written)

	// Work done before the budget ran out is committed; nothing is deleted.
	assert.NotNil(t, store.academies["a1"].Latitude)
	assert.Contains(t, store.academies, "a2")
	assert.Contains(t, store.academies, "a3")
	g.AssertNotCalled(t, "Geocode", mock.Anything, "서울특별시 강남구 a3")
}

func TestGeocodePass_Cancelled(t *testing.T) {
	store := newMemStore(academy("a1", nil, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GeocodePass(ctx, store, new(MockGeocoder), store, 500, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploadAcademies(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"fixed","name":"대치수학학원","course":"보습","lat":37.4946,"lng":127.0622}`,
		`{"name":" 신규학원 ","course":" 외국어 "}`,
		``,
		`{"name":"좌표오류학원","lat":123.0,"lng":127.0}`,
		`{"name":"   "}`,
	}, "\n")
	store := newMemStore()

	rep, err := UploadAcademies(context.Background(), strings.NewReader(input), store, 500)
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 4, Written: 3, Skipped: 1}, rep)
	require.Len(t, store.academies, 3)

	fixed := store.academies["fixed"]
	require.NotNil(t, fixed.Geohash)
	assert.Equal(t, geo.Encode(37.4946, 127.0622), *fixed.Geohash)

	for id, a := range store.academies {
		assert.NotEmpty(t, id)
		if a.Name == "신규학원" {
			assert.Equal(t, "외국어", a.Course)
		}
		if a.Name == "신규학원" || a.Name == "좌표오류학원" {
			assert.Len(t, id, 36)
			assert.Nil(t, a.Latitude)
			assert.Nil(t, a.Geohash)
		}
	}
}

func TestUploadAcademies_BadLine(t *testing.T) {
	store := newMemStore()
	input := `{"name":"a"}` + "\n" + `{"name":` + "\n"

	rep, err := UploadAcademies(context.Background(), strings.NewReader(input), store, 500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, rep.Scanned)
	assert.Empty(t, store.commits)
}

func TestUploadReviews(t *testing.T) {
	input := strings.Join([]string{
		`{"review_id":"r1","academy_name":"대치수학학원","text":"친절해요","rating":5}`,
		`{"academy_name":"ABC Academy","source_file":"other.json"}`,
		`{"academy_name":""}`,
	}, "\n")
	store := newMemStore()

	rep, err := UploadReviews(context.Background(), strings.NewReader(input), "gangnam.json", store, 500)
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 3, Written: 2, Skipped: 1}, rep)

	require.Len(t, store.reviews, 2)
	assert.Equal(t, "r1", store.reviews[0].ReviewID)
	assert.Equal(t, "gangnam.json", store.reviews[0].SourceFile)
	assert.Len(t, store.reviews[1].ReviewID, 36)
	assert.Equal(t, "other.json", store.reviews[1].SourceFile)
}

func TestUploadReputations(t *testing.T) {
	input := strings.Join([]string{
		`{"academy_name":"ABC Academy ","reputation_score_100":81.5,"total_reviews":4}`,
		`{"academy_name":"대치수학학원","display_name":"대치 수학","reputation_score_100":70}`,
		`{"academy_name":"  "}`,
	}, "\n")
	store := newMemStore()

	rep, err := UploadReputations(context.Background(), strings.NewReader(input), store, 500)
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 3, Written: 2, Skipped: 1}, rep)

	require.Contains(t, store.reputations, "abc academy")
	assert.Equal(t, "ABC Academy", store.reputations["abc academy"].DisplayName)
	assert.Equal(t, 81.5, store.reputations["abc academy"].Score)
	assert.Equal(t, 4, store.reputations["abc academy"].TotalReviews)
	assert.Equal(t, "대치 수학", store.reputations["대치수학학원"].DisplayName)
}

func TestRecountReviews(t *testing.T) {
	store := newMemStore()
	store.reputations = map[string]models.Reputation{
		"abc academy": {AcademyName: "abc academy", TotalReviews: 1},
		"대치수학학원":      {AcademyName: "대치수학학원", TotalReviews: 4},
		"리뷰없음학원":      {AcademyName: "리뷰없음학원", TotalReviews: 2},
	}
	store.counts = map[string]int{"ABC Academy": 3, "abc academy ": 2, "대치수학학원": 4}

	rep, err := RecountReviews(context.Background(), store, store, 500)
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 3, Written: 2, Skipped: 1}, rep)

	assert.Equal(t, 5, store.reputations["abc academy"].TotalReviews)
	assert.Equal(t, 4, store.reputations["대치수학학원"].TotalReviews)
	assert.Equal(t, 0, store.reputations["리뷰없음학원"].TotalReviews)
}

func TestScoreReputations(t *testing.T) {
	store := newMemStore()
	store.reviews = []models.Review{
		{ReviewID: "r1", AcademyName: "ABC Academy", Rating: ptr(5.0), DateCreated: ptr("1일 전")},
		{ReviewID: "r2", AcademyName: "abc academy ", Rating: ptr(4.0), DateCreated: ptr("2일 전")},
		{ReviewID: "r3", AcademyName: "대치수학학원", Rating: ptr(3.0), DateCreated: ptr("2024-01-01")},
	}

	rep, err := ScoreReputations(context.Background(), store, store, 500, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 3, Written: 2}, rep)

	require.Contains(t, store.reputations, "abc academy")
	assert.Equal(t, 2, store.reputations["abc academy"].TotalReviews)
	assert.Equal(t, "ABC Academy", store.reputations["abc academy"].DisplayName)
	assert.Greater(t, store.reputations["abc academy"].Score, store.reputations["대치수학학원"].Score)
}

func TestExportByDistrict(t *testing.T) {
	a1 := academy("a1", nil, nil)
	a2 := academy("a2", nil, nil)
	a3 := academy("a3", nil, nil)
	a3.DistrictArea = "수원시/팔달구"
	store := newMemStore(a1, a2, a3)
	dir := filepath.Join(t.TempDir(), "out")

	rep, err := ExportByDistrict(context.Background(), store, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Scanned)
	assert.Equal(t, 2, rep.Written)

	f, err := os.Open(filepath.Join(dir, "강남구_academies.ndjson"))
	require.NoError(t, err)
	defer f.Close()

	var ids []string
	_, err = ndjson.Read(f, func(a models.Academy) error {
		ids = append(ids, a.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, ids)

	assert.FileExists(t, filepath.Join(dir, "수원시_팔달구_academies.ndjson"))
}

func TestDistrictFile(t *testing.T) {
	assert.Equal(t, "강남구_academies.ndjson", DistrictFile("강남구"))
	assert.Equal(t, "unknown_academies.ndjson", DistrictFile(" "))
	assert.Equal(t, "a_b_academies.ndjson", DistrictFile("a/b"))
}

type staticCourses []string

func (s staticCourses) Courses(context.Context) ([]string, error) { return s, nil }

func TestExportCourses(t *testing.T) {
	var buf bytes.Buffer
	n, err := ExportCourses(context.Background(), staticCourses{"보습", "외국어"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "[\n  \"보습\",\n  \"외국어\"\n]\n", buf.String())

	buf.Reset()
	n, err = ExportCourses(context.Background(), staticCourses(nil), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "[]\n", buf.String())
}

type fakeRegistry struct {
	pages map[string][][]neis.Row
	fail  map[string]error
}

func (f fakeRegistry) FetchRegion(_ context.Context, region string, fn func([]neis.Row) error) (int, error) {
	n := 0
	for _, rows := range f.pages[region] {
		if err := fn(rows); err != nil {
			return n, err
		}
		n += len(rows)
	}
	return n, f.fail[region]
}

func TestIngest(t *testing.T) {
	reg := fakeRegistry{
		pages: map[string][][]neis.Row{
			"B10": {
				{{Name: "대치수학학원", RoadAddress: "서울 강남구 1", DistrictArea: "강남구"}, {Name: " "}},
				{{Name: "ABC Academy"}},
			},
			"C10": {{{Name: "부산영어학원"}}},
		},
		fail: map[string]error{"C10": errors.New("page 2 failed after 3 attempts")},
	}

	var buf bytes.Buffer
	rep, err := Ingest(context.Background(), reg, []string{"B10", "C10", "D10"}, ndjson.NewWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, Report{Scanned: 4, Written: 3, Skipped: 1, Failed: 1}, rep)

	var names []string
	_, err = ndjson.Read(&buf, func(a models.Academy) error {
		names = append(names, a.Name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"대치수학학원", "ABC Academy", "부산영어학원"}, names)
}
