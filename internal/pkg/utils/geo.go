package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineDistance вычисляет расстояние по большому кругу между двумя точками в километрах.
// Координаты вне допустимого диапазона не проверяются.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	lat1Rad := degToRad(lat1)
	lat2Rad := degToRad(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadiusToRadians переводит радиус в км в угловой радиус (для $centerSphere)
func RadiusToRadians(radiusKm float64) float64 {
	return radiusKm / earthRadiusKm
}

// BoundingBox возвращает прямоугольник, содержащий круг radiusKm вокруг точки.
// У полюсов и на антимеридиане долгота расширяется до полного диапазона.
func BoundingBox(lat, lon, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	angular := radiusKm / earthRadiusKm
	dLat := angular * 180.0 / math.Pi
	minLat = math.Max(lat-dLat, -90)
	maxLat = math.Min(lat+dLat, 90)

	sinRatio := math.Sin(angular) / math.Cos(degToRad(lat))
	if minLat == -90 || maxLat == 90 || sinRatio >= 1 || angular >= math.Pi/2 {
		return minLat, -180, maxLat, 180
	}

	dLon := math.Asin(sinRatio) * 180.0 / math.Pi
	minLon = lon - dLon
	maxLon = lon + dLon
	if minLon < -180 || maxLon > 180 {
		return minLat, -180, maxLat, 180
	}
	return minLat, minLon, maxLat, maxLon
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius проверяет, что радиус положительный и конечный
func ValidateRadius(radiusKm float64) bool {
	return radiusKm > 0 && !math.IsInf(radiusKm, 1)
}
