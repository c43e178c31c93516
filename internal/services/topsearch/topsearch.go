// Package topsearch keeps per-user and site-wide counters of search terms and
// ranks them.
package topsearch

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"module/blogwithusers/internal/dto"
	"module/blogwithusers/internal/models"
	"module/blogwithusers/internal/repo"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const TopN = 5

// Normalize title-cases a search term so "bitcoin" and "BITCOIN" share a counter.
func Normalize(term string) string {
	return cases.Title(language.English).String(strings.TrimSpace(term))
}

// Rank orders by count descending, then by term descending, and keeps the first n.
func Rank(entries []dto.TopSearch, n int) []dto.TopSearch {
	ranked := slices.Clone(entries)
	slices.SortFunc(ranked, func(a, b dto.TopSearch) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(b.Term, a.Term)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

type TopSearchService struct {
	searchRepo *repo.SearchRepo
}

func NewTopSearchService(searchRepo *repo.SearchRepo) *TopSearchService {
	return &TopSearchService{searchRepo: searchRepo}
}

// Record counts one search of term site-wide and, when user is non-nil, for
// that user. It returns the normalized term.
func (s *TopSearchService) Record(user *models.User, term string) (string, error) {
	normalized := Normalize(term)
	if normalized == "" {
		return "", fmt.Errorf("empty search term")
	}

	if err := s.searchRepo.IncrementTotalSearch(normalized); err != nil {
		return "", fmt.Errorf("recording global search: %w", err)
	}
	if user != nil {
		if err := s.searchRepo.IncrementUserSearch(user.Id, normalized); err != nil {
			return "", fmt.Errorf("recording user search: %w", err)
		}
	}
	return normalized, nil
}

func (s *TopSearchService) TopForUser(userId int64) ([]dto.TopSearch, error) {
	rows, err := s.searchRepo.GetUserSearches(userId)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.TopSearch, len(rows))
	for i, row := range rows {
		entries[i] = dto.TopSearch{Term: row.SearchItem, Count: row.SearchCount}
	}
	return Rank(entries, TopN), nil
}

func (s *TopSearchService) TopGlobal() ([]dto.TopSearch, error) {
	rows, err := s.searchRepo.GetTotalSearches()
	if err != nil {
		return nil, err
	}
	entries := make([]dto.TopSearch, len(rows))
	for i, row := range rows {
		entries[i] = dto.TopSearch{Term: row.SearchItem, Count: row.TotalSearchCount}
	}
	return Rank(entries, TopN), nil
}
