package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/utils"
	"github.com/charger-microservice/internal/pkg/validator"
	"github.com/charger-microservice/internal/usecase"
	"github.com/charger-microservice/internal/usecase/dto"
)

// StationHandler - обработчик запросов к каталогу зарядных станций
type StationHandler struct {
	stationUC *usecase.StationUseCase
	logger    *zap.Logger
}

// NewStationHandler - создание нового StationHandler
func NewStationHandler(stationUC *usecase.StationUseCase, logger *zap.Logger) *StationHandler {
	return &StationHandler{
		stationUC: stationUC,
		logger:    logger,
	}
}

// ListChargers godoc
// @Summary List charging stations
// @Description Фильтрация по типу разъёма, типу тока и оператору (списки через запятую, без учёта регистра).
// @Description С точкой отсчёта станции сортируются по расстоянию, radius ограничивает выборку (км, включительно).
// @Tags Chargers
// @Produce json
// @Param connector query string false "Connector types, e.g. CCS,Type 2"
// @Param current query string false "Current types: AC, AC3, DC or canonical names"
// @Param operator query string false "Operators"
// @Param lat query number false "Reference latitude"
// @Param lon query number false "Reference longitude"
// @Param radius query number false "Radius in km, requires lat and lon"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.StationMatch}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers [get]
func (h *StationHandler) ListChargers(c *fiber.Ctx) error {
	criteria, err := parseStationQuery(c).ToCriteria()
	if err != nil {
		return utils.SendError(c, err)
	}

	matches, err := h.stationUC.ListStations(c.UserContext(), criteria)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, matches, &utils.Meta{
		Total: len(matches),
	})
}

// NearestCharger godoc
// @Summary Nearest matching charging station
// @Tags Chargers
// @Produce json
// @Param lat query number true "Reference latitude"
// @Param lon query number true "Reference longitude"
// @Param connector query string false "Connector types"
// @Param current query string false "Current types"
// @Param operator query string false "Operators"
// @Param radius query number false "Radius in km"
// @Success 200 {object} utils.SuccessResponse{data=domain.StationMatch}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers/nearest-charger [get]
func (h *StationHandler) NearestCharger(c *fiber.Ctx) error {
	criteria, err := parseStationQuery(c).ToCriteria()
	if err != nil {
		return utils.SendError(c, err)
	}

	match, err := h.stationUC.NearestStation(c.UserContext(), criteria)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, match, nil)
}

// GetCharger godoc
// @Summary Charging station by ID
// @Tags Chargers
// @Produce json
// @Param stationId path string true "Station ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.Station}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers/{stationId} [get]
func (h *StationHandler) GetCharger(c *fiber.Ctx) error {
	station, err := h.stationUC.GetStationByID(c.UserContext(), c.Params("stationId"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, station, nil)
}

// GetChargersByIDs godoc
// @Summary Charging stations by IDs
// @Description Используется для избранных станций пользователя; отсутствующие ID пропускаются
// @Tags Chargers
// @Accept json
// @Produce json
// @Param request body dto.StationsByIDsRequest true "Station IDs"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Station}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers/by-ids [post]
func (h *StationHandler) GetChargersByIDs(c *fiber.Ctx) error {
	var req dto.StationsByIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	stations, err := h.stationUC.GetStationsByIDs(c.UserContext(), req.IDs)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stations, &utils.Meta{
		Total: len(stations),
	})
}

// SearchNearby godoc
// @Summary Charging stations within radius
// @Tags Chargers
// @Accept json
// @Produce json
// @Param request body dto.NearbyRequest true "Point and radius in km"
// @Success 200 {object} utils.SuccessResponse{data=dto.NearbyResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/chargers/nearby [post]
func (h *StationHandler) SearchNearby(c *fiber.Ctx) error {
	var req dto.NearbyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	result, err := h.stationUC.SearchNearby(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Count,
	})
}

// parseStationQuery собирает фильтры из query; повторяющиеся параметры объединяются
func parseStationQuery(c *fiber.Ctx) dto.StationQuery {
	args := c.Context().QueryArgs()
	multi := func(key string) []string {
		raw := args.PeekMulti(key)
		values := make([]string, 0, len(raw))
		for _, v := range raw {
			values = append(values, string(v))
		}
		return values
	}

	return dto.StationQuery{
		Connectors: multi("connector"),
		Currents:   multi("current"),
		Operators:  multi("operator"),
		Lat:        c.Query("lat"),
		Lon:        c.Query("lon"),
		Radius:     c.Query("radius"),
	}
}
