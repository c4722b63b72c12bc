package handler

import (
	"net/http"

	"notebook/internal/contract"
	"notebook/internal/infrastructure/aws/websocket"
	"notebook/internal/service"
	"notebook/internal/utils"
	"notebook/internal/utils/apierror"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DefaultWebSocketRoute struct {
	WSService *service.WebSocketService
}

func NewWebSocketDefault(wsService *service.WebSocketService) *DefaultWebSocketRoute {
	return &DefaultWebSocketRoute{WSService: wsService}
}

// Connect registers a connection for event push. The gateway supplies the
// connection id; local clients without one get a fresh uuid.
func (w *DefaultWebSocketRoute) Connect(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tokenData, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID == "" {
		connID = uuid.NewString()
	}

	if apierr := w.WSService.RegisterConnection(user.ID, connID, tokenData.Exp); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, echo.Map{"connection_id": connID})
}

func (w *DefaultWebSocketRoute) Disconnect(c echo.Context) error {
	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError(websocket.HeaderConnectionID, "string"))
	}

	w.WSService.RemoveConnection(connID)
	return c.NoContent(http.StatusOK)
}

func (w *DefaultWebSocketRoute) Message(c echo.Context) error {
	connID := c.Request().Header.Get(websocket.HeaderConnectionID)
	if connID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError(websocket.HeaderConnectionID, "string"))
	}

	var msg contract.IncomingSocketMessage
	if err := c.Bind(&msg); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	w.WSService.HandleMessage(&msg, connID)
	return c.NoContent(http.StatusOK)
}
