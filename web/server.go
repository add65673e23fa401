// Package web exposes a small local HTTP API over the coordinator and the
// device command API, mostly for troubleshooting.
package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ilievs/robovac/core"
	"github.com/ilievs/robovac/entity"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// EntityView is one entity with its current value, as returned by /entities.
type EntityView struct {
	UniqueID string `json:"unique_id"`
	Platform string `json:"platform"`
	Key      string `json:"key"`
	Value    any    `json:"value"`
}

type Server struct {
	coordinator *core.Coordinator
	api         core.CommandSender
	roomSelect  *entity.RoomSelect
	cleanRoom   *entity.CleanRoomButton
	echo        *echo.Echo
}

// NewServer builds the API around an existing room selector and button,
// so the selection state stays shared with whatever else exposes them.
func NewServer(coordinator *core.Coordinator, api core.CommandSender,
	roomSelect *entity.RoomSelect, cleanRoom *entity.CleanRoomButton) *Server {

	s := &Server{
		coordinator: coordinator,
		api:         api,
		roomSelect:  roomSelect,
		cleanRoom:   cleanRoom,
		echo:        echo.New(),
	}

	// Middleware
	s.echo.Use(middleware.Logger())
	s.echo.Use(middleware.Recover())

	// Routes
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/entities", s.handleEntities)
	s.echo.POST("/command", s.handleCommand)

	return s
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.coordinator.Prop())
}

func (s *Server) handleEntities(c echo.Context) error {
	prop := s.coordinator.Prop()
	rooms := s.coordinator.Rooms()

	var views []EntityView
	for _, desc := range entity.Sensors {
		views = append(views, EntityView{
			UniqueID: desc.Key + "_" + s.coordinator.DeviceID(),
			Platform: "sensor",
			Key:      desc.Key,
			Value:    desc.Value(prop),
		})
	}
	for _, desc := range entity.RoomSensors {
		var value any
		if rooms != nil {
			value = desc.Value(prop, rooms)
		}
		views = append(views, EntityView{
			UniqueID: desc.Key + "_" + s.coordinator.DeviceID(),
			Platform: "sensor",
			Key:      desc.Key,
			Value:    value,
		})
	}
	for _, desc := range entity.BinarySensors {
		views = append(views, EntityView{
			UniqueID: desc.Key + "_" + s.coordinator.DeviceID(),
			Platform: "binary_sensor",
			Key:      desc.Key,
			Value:    desc.Value(prop),
		})
	}
	for _, desc := range entity.Switches {
		views = append(views, EntityView{
			UniqueID: desc.Key + "_" + s.coordinator.DeviceID(),
			Platform: "switch",
			Key:      desc.Key,
			Value:    desc.Value(prop),
		})
	}
	for _, desc := range entity.Numbers {
		views = append(views, EntityView{
			UniqueID: desc.Key + "_" + s.coordinator.DeviceID(),
			Platform: "number",
			Key:      desc.Key,
			Value:    desc.Value(prop),
		})
	}
	views = append(views, EntityView{
		UniqueID: s.roomSelect.UniqueID(),
		Platform: "select",
		Key:      "room_selection",
		Value:    s.roomSelect.CurrentOption(),
	})
	views = append(views, EntityView{
		UniqueID: s.cleanRoom.UniqueID(),
		Platform: "button",
		Key:      "clean_selected_room",
		Value:    s.cleanRoom.Available(),
	})
	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleCommand(c echo.Context) error {
	command := new(core.Command)
	if err := c.Bind(command); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	if command.Name == "" {
		return c.String(http.StatusBadRequest, "missing command name")
	}
	err := s.api.SendCommand(c.Request().Context(), command.Name, command.Params)
	if err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	return c.NoContent(http.StatusOK)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails or is closed.
func (s *Server) Start(addr string) {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("failed to start server", "error", err)
	}
}
