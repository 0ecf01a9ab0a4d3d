// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline

import (
	"context"

	"github.com/kinoscope/catalog/internal/logging"
	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/searchindex"
	"github.com/kinoscope/catalog/internal/source"
)

// PersonSync keeps the persons index current with the person table,
// the person-document counterpart of GenreSync: the original ETL never
// writes a dedicated persons index, so this supplements it with a
// direct sync fed by a producer tracking its own
// "persons_index_modified" watermark, separate from the
// "persons_modified" key the persons film task advances.
//
// Unlike GenreSync, a Person document also carries its film credits
// (SPEC_FULL.md §3), so Run fans the watermark-bounded id/name stream
// out through a PersonCredits join before folding each person's rows
// into a document.
type PersonSync struct {
	credits   *source.PersonCredits
	index     *searchindex.Index
	batchSize int
}

// NewPersonSync builds a PersonSync, defaulting batchSize to 1000.
func NewPersonSync(credits *source.PersonCredits, index *searchindex.Index, batchSize int) *PersonSync {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &PersonSync{credits: credits, index: index, batchSize: batchSize}
}

// Run drains names (a source.NameProducer stream over the person
// table), looks up each person's film credits, and upserts the
// resulting documents into the persons index, batched. It returns the
// count of persons written and the first error observed.
func (s *PersonSync) Run(ctx context.Context, names <-chan source.NameRow, errs <-chan error) (int, error) {
	nameByID := map[string]string{}
	ids := make([]string, 0)

	for names != nil || errs != nil {
		select {
		case row, ok := <-names:
			if !ok {
				names = nil
				continue
			}
			nameByID[row.ID] = row.Name
			ids = append(ids, row.ID)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return 0, err
			}
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	if len(ids) == 0 {
		return 0, nil
	}

	idCh := make(chan string)
	go func() {
		defer close(idCh)
		for _, id := range ids {
			select {
			case idCh <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	creditRows, creditErrs := s.credits.Stream(ctx, idCh)

	batch := make([]models.Person, 0, s.batchSize)
	written := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.index.UpsertPersons(ctx, batch)
		if err != nil {
			return err
		}
		written += n
		logging.Ctx(ctx).Info().Int("count", n).Msg("persons uploaded to index")
		batch = batch[:0]
		return nil
	}

	acc := newPersonAccumulator()
	haveRow := false
	withCredits := make(map[string]bool, len(ids))

	emit := func() error {
		if !haveRow {
			return nil
		}
		withCredits[acc.personID] = true
		batch = append(batch, acc.build(nameByID[acc.personID]))
		if len(batch) >= s.batchSize {
			return flush()
		}
		return nil
	}

	for creditRows != nil || creditErrs != nil {
		select {
		case row, ok := <-creditRows:
			if !ok {
				creditRows = nil
				continue
			}
			if haveRow && acc.personID != row.PersonID {
				if err := emit(); err != nil {
					return written, err
				}
				acc = newPersonAccumulator()
			}
			haveRow = true
			acc.personID = row.PersonID
			acc.addCredit(row)
		case err, ok := <-creditErrs:
			if !ok {
				creditErrs = nil
				continue
			}
			if err != nil {
				return written, err
			}
		case <-ctx.Done():
			return written, ctx.Err()
		}
	}

	if err := emit(); err != nil {
		return written, err
	}

	// A person with no film credits yet never appears in PersonCredits'
	// join output; upsert those directly from the name stream so the
	// persons index still reflects them with an empty Films slice.
	for _, id := range ids {
		if withCredits[id] {
			continue
		}
		batch = append(batch, models.Person{ID: id, FullName: nameByID[id], Films: []models.PersonFilmEntry{}})
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}

	if err := flush(); err != nil {
		return written, err
	}
	return written, nil
}

// personAccumulator holds the running fold state for one person_id's
// film credits.
type personAccumulator struct {
	personID string
	filmIdx  map[string]int
	films    []models.PersonFilmEntry
}

func newPersonAccumulator() *personAccumulator {
	return &personAccumulator{filmIdx: map[string]int{}}
}

func (a *personAccumulator) addCredit(row source.PersonCreditRow) {
	idx, ok := a.filmIdx[row.FilmID]
	if !ok {
		idx = len(a.films)
		a.filmIdx[row.FilmID] = idx
		a.films = append(a.films, models.PersonFilmEntry{FilmID: row.FilmID, Title: row.Title})
	}

	role := models.PersonFilmRole(row.Role)
	for _, r := range a.films[idx].Roles {
		if r == role {
			return
		}
	}
	a.films[idx].Roles = append(a.films[idx].Roles, role)
}

func (a *personAccumulator) build(fullName string) models.Person {
	films := a.films
	if films == nil {
		films = []models.PersonFilmEntry{}
	}
	return models.Person{ID: a.personID, FullName: fullName, Films: films}
}
