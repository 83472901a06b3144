package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/biotope-labs/gbif-curator/pkg/gbif"
)

// fakeGBIF serves synthetic occurrence pages and backbone matches.
type fakeGBIF struct {
	records    []json.RawMessage
	matches    map[string]int64 // name -> usageKey; absent names match NONE
	requests   int
	matchCalls []string
	searchErr  error
	matchErr   error
}

func (f *fakeGBIF) SearchOccurrences(_ context.Context, _ string, limit, offset int) (*gbif.SearchPage, error) {
	f.requests++
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	var results []json.RawMessage
	for i := offset; i < len(f.records) && i < offset+limit; i++ {
		results = append(results, f.records[i])
	}
	return &gbif.SearchPage{
		Offset:       offset,
		Limit:        limit,
		Count:        int64(len(f.records)),
		EndOfRecords: offset+limit >= len(f.records),
		Results:      results,
	}, nil
}

func (f *fakeGBIF) MatchName(_ context.Context, name string) (*gbif.NameMatch, error) {
	f.matchCalls = append(f.matchCalls, name)
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	key, ok := f.matches[name]
	if !ok {
		return &gbif.NameMatch{MatchType: "NONE"}, nil
	}
	return &gbif.NameMatch{UsageKey: key, MatchType: "EXACT", CanonicalName: name}, nil
}

// occurrenceRecord builds a full nine-column occurrence as raw JSON.
func occurrenceRecord(species, lat, lon, date string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"species":%q,"decimalLatitude":%s,"decimalLongitude":%s,"country":"Brazil","eventDate":%q,"basisOfRecord":"HUMAN_OBSERVATION","institutionCode":"INST","identificationID":"id-1","identifiedBy":"someone"}`,
		species, lat, lon, date,
	))
}

// stubLocator resolves coordinates from a fixed answer set.
type stubLocator struct {
	notFound map[string]bool // "lat,lon" keys that resolve to nothing
	calls    int
	err      error
}

func (s *stubLocator) Locate(_ context.Context, lat, lon float64) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return !s.notFound[fmt.Sprintf("%g,%g", lat, lon)], nil
}
