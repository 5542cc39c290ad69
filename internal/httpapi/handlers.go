package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

func (s *Server) createVitalSet(c echo.Context) error {
	rec, err := bindVitalSet(c)
	if err != nil {
		return err
	}

	created, err := s.service.CreateVitalSet(c.Request().Context(), rec)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) findAll(c echo.Context) error {
	records, err := s.service.FindAll(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) findByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	rec, err := s.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) updateVitalSet(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rec, err := bindVitalSet(c)
	if err != nil {
		return err
	}

	updated, err := s.service.UpdateVitalSet(c.Request().Context(), id, rec)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	result, err := s.service.DeleteByID(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) sendMessage(c echo.Context) error {
	var payload vitalset.PayloadRequest
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	s.service.SendMessage(c.Request().Context(), payload)
	return c.JSON(http.StatusAccepted, payload)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id").SetInternal(err)
	}
	return id, nil
}

func bindVitalSet(c echo.Context) (vitalset.VitalSet, error) {
	var rec vitalset.VitalSet
	if err := (&echo.DefaultBinder{}).BindBody(c, &rec); err != nil {
		return vitalset.VitalSet{}, echo.NewHTTPError(http.StatusBadRequest, "invalid vital set").SetInternal(err)
	}
	if err := rec.Validate(); err != nil {
		return vitalset.VitalSet{}, echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return rec, nil
}

// toHTTPError maps both not-found kinds to 404 and hides everything else
// behind a 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, vitalset.ErrResourceNotFound), errors.Is(err, vitalset.ErrNoDataFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}
}
