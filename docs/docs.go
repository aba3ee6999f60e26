// Package docs Charger Microservice API.
//
// Каталог зарядных станций для электромобилей: фильтрация по разъёму, типу тока
// и оператору, сортировка по расстоянию, поиск ближайшей станции.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/api/v1/chargers": {
            "get": {
                "description": "Фильтрация по типу разъёма, типу тока и оператору (списки через запятую, без учёта регистра). С точкой отсчёта станции сортируются по расстоянию, radius ограничивает выборку (км, включительно).",
                "produces": ["application/json"],
                "tags": ["Chargers"],
                "summary": "List charging stations",
                "parameters": [
                    {"type": "string", "description": "Connector types, e.g. CCS,Type 2", "name": "connector", "in": "query"},
                    {"type": "string", "description": "Current types: AC, AC3, DC or canonical names", "name": "current", "in": "query"},
                    {"type": "string", "description": "Operators", "name": "operator", "in": "query"},
                    {"type": "number", "description": "Reference latitude", "name": "lat", "in": "query"},
                    {"type": "number", "description": "Reference longitude", "name": "lon", "in": "query"},
                    {"type": "number", "description": "Radius in km, requires lat and lon", "name": "radius", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/chargers/nearest-charger": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Chargers"],
                "summary": "Nearest matching charging station",
                "parameters": [
                    {"type": "number", "description": "Reference latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "Reference longitude", "name": "lon", "in": "query", "required": true},
                    {"type": "string", "description": "Connector types", "name": "connector", "in": "query"},
                    {"type": "string", "description": "Current types", "name": "current", "in": "query"},
                    {"type": "string", "description": "Operators", "name": "operator", "in": "query"},
                    {"type": "number", "description": "Radius in km", "name": "radius", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/chargers/by-ids": {
            "post": {
                "description": "Используется для избранных станций пользователя; отсутствующие ID пропускаются",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chargers"],
                "summary": "Charging stations by IDs",
                "parameters": [
                    {"description": "Station IDs", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.StationsByIDsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/chargers/nearby": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chargers"],
                "summary": "Charging stations within radius",
                "parameters": [
                    {"description": "Point and radius in km", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.NearbyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/chargers/{stationId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Chargers"],
                "summary": "Charging station by ID",
                "parameters": [
                    {"type": "string", "description": "Station ID", "name": "stationId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "description": "Количество станций, станций с координатами, разбивка по типу тока, разъёму и оператору",
                "produces": ["application/json"],
                "tags": ["Statistics"],
                "summary": "Get catalog statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Station": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "operator": {"type": "string"},
                "connection_type": {"type": "string"},
                "current_type": {"type": "string"},
                "cost": {"type": "string"},
                "charging_points": {"type": "integer"},
                "charging_points_flag": {"type": "integer"},
                "pay_at_location": {"type": "string"},
                "membership_required": {"type": "string"},
                "access_key_required": {"type": "string"},
                "is_operational": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.StationMatch": {
            "allOf": [
                {"$ref": "#/definitions/domain.Station"},
                {"type": "object", "properties": {"distance_km": {"type": "number"}}}
            ]
        },
        "domain.CatalogStatistics": {
            "type": "object",
            "properties": {
                "total_stations": {"type": "integer"},
                "with_coordinates": {"type": "integer"},
                "without_coordinates": {"type": "integer"},
                "by_current_type": {"type": "object", "additionalProperties": {"type": "integer"}},
                "by_connector_type": {"type": "object", "additionalProperties": {"type": "integer"}},
                "by_operator": {"type": "object", "additionalProperties": {"type": "integer"}},
                "generated_at": {"type": "string"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "dto.NearbyRequest": {
            "type": "object",
            "required": ["latitude", "longitude", "radius"],
            "properties": {
                "latitude": {"type": "number", "maximum": 90, "minimum": -90},
                "longitude": {"type": "number", "maximum": 180, "minimum": -180},
                "radius": {"type": "number"}
            }
        },
        "dto.NearbyResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "chargers": {"type": "array", "items": {"$ref": "#/definitions/domain.StationMatch"}}
            }
        },
        "dto.StationsByIDsRequest": {
            "type": "object",
            "required": ["ids"],
            "properties": {
                "ids": {"type": "array", "maxItems": 100, "minItems": 1, "items": {"type": "string"}}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "time_ms": {"type": "number"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/utils.Meta"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Charger Microservice API",
	Description:      "Каталог зарядных станций: фильтрация, поиск по расстоянию и статистика.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
