// Catalog - Movie Catalog ETL and Query API
// Copyright 2026 Kinoscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinoscope/catalog

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinoscope/catalog/internal/models"
	"github.com/kinoscope/catalog/internal/source"
)

func TestPersonAccumulator_GroupsRolesByFilmAndDeduplicates(t *testing.T) {
	acc := newPersonAccumulator()
	acc.personID = "p1"
	acc.addCredit(source.PersonCreditRow{PersonID: "p1", FilmID: "f1", Title: "Film One", Role: "actor"})
	acc.addCredit(source.PersonCreditRow{PersonID: "p1", FilmID: "f1", Title: "Film One", Role: "director"})
	acc.addCredit(source.PersonCreditRow{PersonID: "p1", FilmID: "f1", Title: "Film One", Role: "actor"})
	acc.addCredit(source.PersonCreditRow{PersonID: "p1", FilmID: "f2", Title: "Film Two", Role: "writer"})

	person := acc.build("Alice")
	assert.Equal(t, "p1", person.ID)
	assert.Equal(t, "Alice", person.FullName)
	require := assert.New(t)
	require.Len(person.Films, 2)
	require.Equal("f1", person.Films[0].FilmID)
	require.ElementsMatch([]models.PersonFilmRole{models.RoleActor, models.RoleDirector}, person.Films[0].Roles)
	require.Equal("f2", person.Films[1].FilmID)
	require.Equal([]models.PersonFilmRole{models.RoleWriter}, person.Films[1].Roles)
}

func TestPersonAccumulator_NoCreditsBuildsEmptyFilms(t *testing.T) {
	acc := newPersonAccumulator()
	acc.personID = "p2"
	person := acc.build("Bob")
	assert.NotNil(t, person.Films)
	assert.Empty(t, person.Films)
}
