package mongodb

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/utils"
)

type stationRepository struct {
	collection   *mongo.Collection
	geoPrefilter bool
	logger       *zap.Logger
}

// NewStationRepository создает репозиторий станций поверх коллекции charging_stations
func NewStationRepository(collection *mongo.Collection, geoPrefilter bool, logger *zap.Logger) repository.StationRepository {
	return &stationRepository{
		collection:   collection,
		geoPrefilter: geoPrefilter,
		logger:       logger,
	}
}

// FindCandidates возвращает станции каталога.
// С включённым префильтром и областью поиска отбрасывает документы с GeoJSON location вне круга;
// документы без location возвращаются всегда.
func (r *stationRepository) FindCandidates(ctx context.Context, area *domain.SearchArea) ([]*domain.Station, error) {
	filter := bson.D{}
	if r.geoPrefilter {
		filter = candidateFilter(area)
	}
	return r.find(ctx, filter)
}

func (r *stationRepository) FindByID(ctx context.Context, id string) (*domain.Station, error) {
	var doc stationDocument
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idValues([]string{id})}}}}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrStationNotFound
		}
		r.logger.Error("Failed to find station", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	station, parseErr := doc.toDomain()
	if parseErr != nil {
		r.logger.Debug("Station has no usable coordinates",
			zap.String("id", station.ID), zap.Error(parseErr))
	}
	return station, nil
}

func (r *stationRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Station, error) {
	if len(ids) == 0 {
		return []*domain.Station{}, nil
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idValues(ids)}}}})
}

func (r *stationRepository) find(ctx context.Context, filter bson.D) ([]*domain.Station, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to query stations", zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	var docs []stationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode stations", zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}

	stations := make([]*domain.Station, 0, len(docs))
	skipped := 0
	for i := range docs {
		station, parseErr := docs[i].toDomain()
		if parseErr != nil {
			skipped++
		}
		stations = append(stations, station)
	}

	if skipped > 0 {
		r.logger.Debug("Stations without usable coordinates",
			zap.Int("count", skipped),
			zap.Int("total", len(stations)))
	}

	return stations, nil
}

// candidateFilter отбирает кандидатов по тем же координатам, что использует toDomain:
// числовые latitude/longitude проверяются bounding box'ом, текстовые пропускаются всегда,
// а location ($geoWithin) проверяется только у документов без latitude/longitude.
func candidateFilter(area *domain.SearchArea) bson.D {
	if area == nil {
		return bson.D{}
	}
	radians := utils.RadiusToRadians(area.RadiusKm)
	if radians >= math.Pi {
		return bson.D{}
	}

	minLat, minLon, maxLat, maxLon := utils.BoundingBox(area.Center.Lat, area.Center.Lon, area.RadiusKm)
	notNumber := bson.D{{Key: "$ne", Value: nil}, {Key: "$not", Value: bson.D{{Key: "$type", Value: "number"}}}}

	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "latitude", Value: notNumber}},
		bson.D{{Key: "longitude", Value: notNumber}},
		bson.D{
			{Key: "latitude", Value: bson.D{{Key: "$gte", Value: minLat}, {Key: "$lte", Value: maxLat}}},
			{Key: "longitude", Value: bson.D{{Key: "$gte", Value: minLon}, {Key: "$lte", Value: maxLon}}},
		},
		bson.D{
			{Key: "latitude", Value: nil},
			{Key: "longitude", Value: nil},
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "location", Value: bson.D{{Key: "$geoWithin", Value: bson.D{
					{Key: "$centerSphere", Value: bson.A{
						bson.A{area.Center.Lon, area.Center.Lat},
						radians,
					}},
				}}}}},
				bson.D{{Key: "location", Value: nil}},
			}},
		},
	}}}
}
