package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

// PostgresRepositorySuite runs against a real database named by
// LINKBIO_TEST_DATABASE_DSN and is skipped without one
type PostgresRepositorySuite struct {
	suite.Suite
	db             *gorm.DB
	links          repository.LinkRepository
	slugs          repository.SlugRepository
	customizations repository.CustomizationRepository
	clicks         repository.ClickRepository
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if os.Getenv("LINKBIO_TEST_DATABASE_DSN") == "" {
		t.Skip("LINKBIO_TEST_DATABASE_DSN not set")
	}
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	db, err := gorm.Open(postgres.Open(os.Getenv("LINKBIO_TEST_DATABASE_DSN")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		s.T().Skip("Test database not reachable: ", err)
	}
	s.db = db
	s.Require().NoError(Migrate(db, true))

	s.links = NewLinkRepository(db)
	s.slugs = NewSlugRepository(db)
	s.customizations = NewCustomizationRepository(db)
	s.clicks = NewClickRepository(db)
}

func (s *PostgresRepositorySuite) SetupTest() {
	s.db.Exec("DELETE FROM links")
	s.db.Exec("DELETE FROM slug_mappings")
	s.db.Exec("DELETE FROM click_events")
	s.db.Exec("DELETE FROM user_customizations")
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.db == nil {
		return
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *PostgresRepositorySuite) createLink(id, ownerID string, order int64) {
	s.Require().NoError(s.links.Create(context.Background(), &domain.Link{
		ID: id, OwnerID: ownerID, Title: id, URL: "https://" + id + ".com", Order: order,
	}))
}

func (s *PostgresRepositorySuite) TestListOrderAndTies() {
	ctx := context.Background()
	s.createLink("b", "user_1", 5)
	s.createLink("a", "user_1", 5)
	s.createLink("c", "user_1", 1)
	s.createLink("x", "user_2", 0)

	links, err := s.links.ListByOwner(ctx, "user_1")
	s.Require().NoError(err)
	s.Equal([]string{"c", "a", "b"}, []string{links[0].ID, links[1].ID, links[2].ID})

	count, err := s.links.CountByOwner(ctx, "user_1")
	s.Require().NoError(err)
	s.EqualValues(3, count)

	has, err := s.links.HasLinks(ctx, "user_3")
	s.Require().NoError(err)
	s.False(has)
}

func (s *PostgresRepositorySuite) TestMutationsCheckOwnership() {
	ctx := context.Background()
	s.createLink("a", "user_1", 0)

	s.ErrorIs(s.links.UpdateContent(ctx, "user_2", "a", "t", "https://evil.com"), domain.ErrForbidden)
	s.ErrorIs(s.links.Delete(ctx, "user_2", "a"), domain.ErrForbidden)
	s.ErrorIs(s.links.UpdateContent(ctx, "user_1", "missing", "t", "https://x.com"), domain.ErrLinkNotFound)

	s.Require().NoError(s.links.UpdateContent(ctx, "user_1", "a", "new", "https://new.com"))
	link, err := s.links.FindByID(ctx, "a")
	s.Require().NoError(err)
	s.Equal("new", link.Title)

	s.Require().NoError(s.links.Delete(ctx, "user_1", "a"))
	s.ErrorIs(s.links.Delete(ctx, "user_1", "a"), domain.ErrLinkNotFound)
}

func (s *PostgresRepositorySuite) TestReorderDropsUnowned() {
	ctx := context.Background()
	s.createLink("a", "user_1", 100)
	s.createLink("b", "user_1", 200)
	s.createLink("x", "user_2", 7)

	written, err := s.links.Reorder(ctx, "user_1", []string{"b", "x", "ghost", "a"})
	s.Require().NoError(err)
	s.Equal(2, written)

	links, err := s.links.ListByOwner(ctx, "user_1")
	s.Require().NoError(err)
	s.Equal("b", links[0].ID)
	s.EqualValues(0, links[0].Order)
	s.EqualValues(1, links[1].Order)

	foreign, err := s.links.FindByID(ctx, "x")
	s.Require().NoError(err)
	s.EqualValues(7, foreign.Order)
}

func (s *PostgresRepositorySuite) TestConcurrentReorders() {
	ctx := context.Background()
	ids := []string{"a", "b", "c", "d"}
	for i, id := range ids {
		s.createLink(id, "user_1", int64(i))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order := append([]string(nil), ids...)
			if i%2 == 0 {
				order[0], order[3] = order[3], order[0]
			}
			_, err := s.links.Reorder(ctx, "user_1", order)
			assert.NoError(s.T(), err)
		}(i)
	}
	wg.Wait()

	links, err := s.links.ListByOwner(ctx, "user_1")
	s.Require().NoError(err)
	s.Len(links, 4)
	for _, l := range links {
		s.GreaterOrEqual(l.Order, int64(0))
		s.Less(l.Order, int64(4))
	}
}

func (s *PostgresRepositorySuite) TestSlugClaim() {
	ctx := context.Background()

	previous, err := s.slugs.Claim(ctx, "user_1", "alice")
	s.Require().NoError(err)
	s.Empty(previous)

	_, err = s.slugs.Claim(ctx, "user_2", "alice")
	s.ErrorIs(err, domain.ErrSlugTaken)

	previous, err = s.slugs.Claim(ctx, "user_1", "alice_b")
	s.Require().NoError(err)
	s.Equal("alice", previous)

	_, err = s.slugs.FindBySlug(ctx, "alice")
	s.ErrorIs(err, domain.ErrSlugNotFound)

	mapping, err := s.slugs.FindByOwner(ctx, "user_1")
	s.Require().NoError(err)
	s.Equal("alice_b", mapping.Slug)
}

func (s *PostgresRepositorySuite) TestCustomizationUpsert() {
	ctx := context.Background()

	_, err := s.customizations.FindByOwner(ctx, "user_1")
	s.ErrorIs(err, domain.ErrCustomizationNotFound)

	s.Require().NoError(s.customizations.Upsert(ctx, &domain.Customization{OwnerID: "user_1", Description: "first", AccentColor: "#08CB00"}))
	s.Require().NoError(s.customizations.Upsert(ctx, &domain.Customization{OwnerID: "user_1", Description: "second", AccentColor: "#6366F1"}))

	got, err := s.customizations.FindByOwner(ctx, "user_1")
	s.Require().NoError(err)
	s.Equal("second", got.Description)
	s.Equal("#6366F1", got.AccentColor)

	var count int64
	s.Require().NoError(s.db.Model(&domain.Customization{}).Where("owner_id = ?", "user_1").Count(&count).Error)
	s.EqualValues(1, count)
}

func (s *PostgresRepositorySuite) TestClickRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	ref := "https://x.com"

	for i, linkID := range []string{"l1", "l2", "l1"} {
		s.Require().NoError(s.clicks.Insert(ctx, &domain.ClickEvent{
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
			OwnerID:   "user_1",
			LinkID:    linkID,
			Referrer:  &ref,
			VisitorID: "v1",
			Location:  domain.Location{Country: "US"},
		}))
	}

	events, err := s.clicks.List(ctx, domain.ClickQuery{
		OwnerID: "user_1", LinkID: "l1", Since: now.Add(-24 * time.Hour), Until: now.Add(time.Second),
	})
	s.Require().NoError(err)
	require.Len(s.T(), events, 2)
	s.True(events[0].Timestamp.Before(events[1].Timestamp))
	s.Equal("US", events[1].Location.Country)
	s.Equal(ref, *events[1].Referrer)
}
