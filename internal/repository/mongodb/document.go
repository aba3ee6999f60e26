package mongodb

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/charger-microservice/internal/domain"
)

// stationDocument - запись коллекции charging_stations.
// Числовые поля исторически хранились то числом, то строкой, поэтому читаются как RawValue.
type stationDocument struct {
	ID                 bson.RawValue `bson:"_id"`
	Latitude           bson.RawValue `bson:"latitude"`
	Longitude          bson.RawValue `bson:"longitude"`
	Location           bson.RawValue `bson:"location"`
	Operator           string        `bson:"operator"`
	ConnectionType     string        `bson:"connection_type"`
	CurrentType        string        `bson:"current_type"`
	Cost               bson.RawValue `bson:"cost"`
	ChargingPoints     bson.RawValue `bson:"charging_points"`
	ChargingPointsFlag bson.RawValue `bson:"charging_points_flag"`
	PayAtLocation      bson.RawValue `bson:"pay_at_location"`
	MembershipRequired bson.RawValue `bson:"membership_required"`
	AccessKeyRequired  bson.RawValue `bson:"access_key_required"`
	IsOperational      bson.RawValue `bson:"is_operational"`
	CreatedAt          *time.Time    `bson:"createdAt,omitempty"`
	UpdatedAt          *time.Time    `bson:"updatedAt,omitempty"`
}

// toDomain переводит документ в доменную станцию.
// Второе значение - ошибка разбора координат (станция всё равно возвращается, но без координат).
func (d *stationDocument) toDomain() (*domain.Station, error) {
	station := &domain.Station{
		ID:                 rawID(d.ID),
		Operator:           d.Operator,
		ConnectorType:      d.ConnectionType,
		CurrentType:        d.CurrentType,
		Cost:               rawString(d.Cost),
		ChargingPoints:     rawInt(d.ChargingPoints),
		ChargingPointsFlag: rawInt(d.ChargingPointsFlag),
		PayAtLocation:      rawString(d.PayAtLocation),
		MembershipRequired: rawString(d.MembershipRequired),
		AccessKeyRequired:  rawString(d.AccessKeyRequired),
		IsOperational:      rawString(d.IsOperational),
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}

	lat, lon := rawValue(d.Latitude), rawValue(d.Longitude)
	if lat == nil && lon == nil {
		lon, lat = geoJSONCoordinates(d.Location)
	}

	if err := station.SetLocation(lat, lon); err != nil {
		return station, err
	}
	return station, nil
}

// geoJSONCoordinates достаёт [lon, lat] из GeoJSON Point
func geoJSONCoordinates(v bson.RawValue) (lon, lat interface{}) {
	doc, ok := v.DocumentOK()
	if !ok {
		return nil, nil
	}
	arr, ok := doc.Lookup("coordinates").ArrayOK()
	if !ok {
		return nil, nil
	}
	values, err := arr.Values()
	if err != nil || len(values) != 2 {
		return nil, nil
	}
	return rawValue(values[0]), rawValue(values[1])
}

func rawID(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	case bson.TypeString:
		return v.StringValue()
	case 0:
		return ""
	default:
		return v.String()
	}
}

// rawValue возвращает значение, пригодное для domain.ParseCoordinate
func rawValue(v bson.RawValue) interface{} {
	switch v.Type {
	case bson.TypeDouble:
		return v.Double()
	case bson.TypeInt32:
		return v.Int32()
	case bson.TypeInt64:
		return v.Int64()
	case bson.TypeString:
		return v.StringValue()
	case bson.TypeDecimal128:
		return v.Decimal128().String()
	default:
		return nil
	}
}

func rawString(v bson.RawValue) *string {
	var s string
	switch val := rawValue(v).(type) {
	case nil:
		return nil
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		s = fmt.Sprint(val)
	}
	return &s
}

func rawInt(v bson.RawValue) *int {
	f, err := domain.ParseCoordinate(rawValue(v))
	if err != nil || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	return &n
}

// idValues переводит строковые ID в значения для фильтра _id.
// Валидный hex даёт ObjectID; сама строка тоже добавляется для записей со строковым _id.
func idValues(ids []string) []interface{} {
	values := make([]interface{}, 0, len(ids)*2)
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			values = append(values, oid)
		}
		values = append(values, id)
	}
	return values
}
