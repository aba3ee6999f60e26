package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/charger-microservice/internal/domain"
)

func decodeDocument(t *testing.T, raw bson.M) stationDocument {
	t.Helper()
	data, err := bson.Marshal(raw)
	require.NoError(t, err)

	var doc stationDocument
	require.NoError(t, bson.Unmarshal(data, &doc))
	return doc
}

func TestStationDocument_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()

	t.Run("numeric coordinates and passive fields", func(t *testing.T) {
		doc := decodeDocument(t, bson.M{
			"_id":             oid,
			"latitude":        -37.8136,
			"longitude":       144.9631,
			"operator":        "Chargefox",
			"connection_type": "CCS, CHAdeMO",
			"current_type":    "DC",
			"cost":            "0.60/kWh",
			"charging_points": int32(4),
			"is_operational":  "true",
		})

		station, err := doc.toDomain()
		require.NoError(t, err)

		assert.Equal(t, oid.Hex(), station.ID)
		loc, ok := station.Location()
		require.True(t, ok)
		assert.Equal(t, -37.8136, loc.Lat)
		assert.Equal(t, 144.9631, loc.Lon)
		assert.Equal(t, "CCS, CHAdeMO", station.ConnectorType)
		require.NotNil(t, station.Cost)
		assert.Equal(t, "0.60/kWh", *station.Cost)
		require.NotNil(t, station.ChargingPoints)
		assert.Equal(t, 4, *station.ChargingPoints)
		assert.Nil(t, station.PayAtLocation)
	})

	t.Run("text coordinates", func(t *testing.T) {
		doc := decodeDocument(t, bson.M{"_id": oid, "latitude": "-33.86", "longitude": " 151.21 "})

		station, err := doc.toDomain()
		require.NoError(t, err)
		loc, ok := station.Location()
		require.True(t, ok)
		assert.Equal(t, 151.21, loc.Lon)
	})

	t.Run("geojson fallback is lon lat", func(t *testing.T) {
		doc := decodeDocument(t, bson.M{
			"_id":      oid,
			"location": bson.M{"type": "Point", "coordinates": bson.A{144.96, -37.81}},
		})

		station, err := doc.toDomain()
		require.NoError(t, err)
		loc, ok := station.Location()
		require.True(t, ok)
		assert.Equal(t, -37.81, loc.Lat)
		assert.Equal(t, 144.96, loc.Lon)
	})

	t.Run("top level coordinates win over geojson", func(t *testing.T) {
		doc := decodeDocument(t, bson.M{
			"_id":       oid,
			"latitude":  int32(10),
			"longitude": int64(20),
			"location":  bson.M{"type": "Point", "coordinates": bson.A{0.0, 0.0}},
		})

		station, err := doc.toDomain()
		require.NoError(t, err)
		loc, _ := station.Location()
		assert.Equal(t, domain.GeoPoint{Lat: 10, Lon: 20}, loc)
	})

	t.Run("unparseable coordinates keep the station", func(t *testing.T) {
		doc := decodeDocument(t, bson.M{"_id": "legacy-1", "latitude": "n/a", "longitude": 10.0, "operator": "Evie"})

		station, err := doc.toDomain()
		assert.Error(t, err)
		require.NotNil(t, station)
		assert.Equal(t, "legacy-1", station.ID)
		assert.Equal(t, "Evie", station.Operator)
		_, ok := station.Location()
		assert.False(t, ok)
	})

	t.Run("malformed location is ignored", func(t *testing.T) {
		doc := decodeDocument(t, bson.M{"_id": oid, "location": "somewhere"})

		station, err := doc.toDomain()
		assert.Error(t, err)
		_, ok := station.Location()
		assert.False(t, ok)
	})
}

func TestIDValues(t *testing.T) {
	oid := primitive.NewObjectID()

	values := idValues([]string{oid.Hex(), "custom-id"})

	assert.Equal(t, []interface{}{oid, oid.Hex(), "custom-id"}, values)
}

func TestCandidateFilter(t *testing.T) {
	t.Run("no area", func(t *testing.T) {
		assert.Empty(t, candidateFilter(nil))
	})

	t.Run("area builds coordinate and location branches", func(t *testing.T) {
		filter := candidateFilter(&domain.SearchArea{Center: domain.GeoPoint{Lat: -37.8, Lon: 144.9}, RadiusKm: 6.371})

		require.Len(t, filter, 1)
		assert.Equal(t, "$or", filter[0].Key)
		branches, ok := filter[0].Value.(bson.A)
		require.True(t, ok)
		require.Len(t, branches, 4)

		data, err := bson.MarshalExtJSON(filter, false, false)
		require.NoError(t, err)
		assert.Contains(t, string(data), `{"latitude":{"$ne":null,"$not":{"$type":"number"}}}`)
		assert.Contains(t, string(data), `{"longitude":{"$ne":null,"$not":{"$type":"number"}}}`)
		assert.Contains(t, string(data), `{"latitude":null,"longitude":null,"$or":[{"location":{"$geoWithin":{"$centerSphere":[[144.9,-37.8],`)
		assert.Contains(t, string(data), `{"location":null}`)
	})

	t.Run("top-level coordinates win over a distant location", func(t *testing.T) {
		// {latitude: 0, longitude: 0, location: [10, 10]}: toDomain берёт (0, 0)
		filter := candidateFilter(&domain.SearchArea{Center: domain.GeoPoint{Lat: 0, Lon: 0}, RadiusKm: 50})
		branches := filter[0].Value.(bson.A)

		box := branches[2].(bson.D)
		require.Len(t, box, 2)
		assert.True(t, inRange(t, box[0], "latitude", 0))
		assert.True(t, inRange(t, box[1], "longitude", 0))
		assert.False(t, inRange(t, box[0], "latitude", 10))

		// location проверяется только когда latitude и longitude отсутствуют
		locationOnly := branches[3].(bson.D)
		assert.Equal(t, bson.E{Key: "latitude", Value: nil}, locationOnly[0])
		assert.Equal(t, bson.E{Key: "longitude", Value: nil}, locationOnly[1])

		doc := decodeDocument(t, bson.M{
			"_id": "both", "latitude": 0.0, "longitude": 0.0,
			"location": bson.M{"type": "Point", "coordinates": bson.A{10.0, 10.0}},
		})
		station, err := doc.toDomain()
		require.NoError(t, err)
		loc, ok := station.Location()
		require.True(t, ok)
		assert.Equal(t, domain.GeoPoint{Lat: 0, Lon: 0}, loc)
	})

	t.Run("radius covering the globe disables prefilter", func(t *testing.T) {
		assert.Empty(t, candidateFilter(&domain.SearchArea{RadiusKm: 30000}))
	})
}

func inRange(t *testing.T, e bson.E, key string, v float64) bool {
	t.Helper()
	require.Equal(t, key, e.Key)
	bounds := e.Value.(bson.D)
	require.Len(t, bounds, 2)
	return v >= bounds[0].Value.(float64) && v <= bounds[1].Value.(float64)
}
