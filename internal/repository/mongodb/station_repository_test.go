package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/config"
	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/errors"
)

type StationRepositorySuite struct {
	suite.Suite
	db         *DB
	collection *mongo.Collection
	repo       repository.StationRepository
	ctx        context.Context
	nearID     primitive.ObjectID
}

func TestStationRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(StationRepositorySuite))
}

func (s *StationRepositorySuite) SetupSuite() {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := New(ctx, uri, &config.MongoConfig{Database: "EVAT_test", ConnectRetries: 0}, zap.NewNop())
	if err != nil {
		s.T().Skipf("MongoDB not available: %v", err)
		return
	}

	s.db = db
	s.ctx = context.Background()
	s.collection = db.Collection("charging_stations_test")
	s.repo = NewStationRepository(s.collection, true, zap.NewNop())
}

func (s *StationRepositorySuite) TearDownSuite() {
	if s.db == nil {
		return
	}
	_ = s.collection.Drop(s.ctx)
	_ = s.db.Close(s.ctx)
}

func (s *StationRepositorySuite) SetupTest() {
	s.Require().NoError(s.collection.Drop(s.ctx))

	_, err := s.collection.Indexes().CreateOne(s.ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	s.Require().NoError(err)

	s.nearID = primitive.NewObjectID()
	docs := []interface{}{
		bson.M{
			"_id": s.nearID, "latitude": -37.81, "longitude": 144.96,
			"location":        bson.M{"type": "Point", "coordinates": bson.A{144.96, -37.81}},
			"connection_type": "CCS", "current_type": "DC", "operator": "Chargefox",
		},
		bson.M{
			"_id": primitive.NewObjectID(), "latitude": -33.86, "longitude": 151.21,
			"location":        bson.M{"type": "Point", "coordinates": bson.A{151.21, -33.86}},
			"connection_type": "Type 2", "current_type": "AC (Single-Phase)", "operator": "Evie",
		},
		bson.M{
			"_id": "legacy-no-location", "latitude": -37.82, "longitude": 144.97,
			"connection_type": "Type 2", "current_type": "AC (Three-Phase)",
		},
	}
	_, err = s.collection.InsertMany(s.ctx, docs)
	s.Require().NoError(err)
}

func (s *StationRepositorySuite) TestFindCandidates_All() {
	stations, err := s.repo.FindCandidates(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(stations, 3)
}

func (s *StationRepositorySuite) TestFindCandidates_GeoPrefilterKeepsLegacy() {
	area := &domain.SearchArea{Center: domain.GeoPoint{Lat: -37.81, Lon: 144.96}, RadiusKm: 10}

	stations, err := s.repo.FindCandidates(s.ctx, area)
	s.Require().NoError(err)

	ids := make([]string, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	s.ElementsMatch([]string{s.nearID.Hex(), "legacy-no-location"}, ids)
}

func (s *StationRepositorySuite) TestFindCandidates_GeoPrefilterUsesTopLevelCoordinates() {
	_, err := s.collection.InsertMany(s.ctx, []interface{}{
		bson.M{
			"_id": "stale-location", "latitude": -37.80, "longitude": 144.95,
			"location": bson.M{"type": "Point", "coordinates": bson.A{151.21, -33.86}},
		},
		bson.M{"_id": "text-far", "latitude": "-33.87", "longitude": "151.20"},
		bson.M{
			"_id": "location-only-far",
			"location": bson.M{"type": "Point", "coordinates": bson.A{151.21, -33.86}},
		},
	})
	s.Require().NoError(err)

	area := &domain.SearchArea{Center: domain.GeoPoint{Lat: -37.81, Lon: 144.96}, RadiusKm: 10}
	stations, err := s.repo.FindCandidates(s.ctx, area)
	s.Require().NoError(err)

	ids := make([]string, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	// текстовые координаты сервер не сравнивает, их отсекает ApplyCriteria
	s.ElementsMatch([]string{s.nearID.Hex(), "legacy-no-location", "stale-location", "text-far"}, ids)
}

func (s *StationRepositorySuite) TestFindByID() {
	station, err := s.repo.FindByID(s.ctx, s.nearID.Hex())
	s.Require().NoError(err)
	s.Equal("Chargefox", station.Operator)

	legacy, err := s.repo.FindByID(s.ctx, "legacy-no-location")
	s.Require().NoError(err)
	s.Equal("legacy-no-location", legacy.ID)
}

func (s *StationRepositorySuite) TestFindByID_NotFound() {
	_, err := s.repo.FindByID(s.ctx, primitive.NewObjectID().Hex())
	s.ErrorIs(err, errors.ErrStationNotFound)
}

func (s *StationRepositorySuite) TestFindByIDs() {
	stations, err := s.repo.FindByIDs(s.ctx, []string{s.nearID.Hex(), "missing", "legacy-no-location"})
	s.Require().NoError(err)
	s.Len(stations, 2)

	empty, err := s.repo.FindByIDs(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(empty)
}
