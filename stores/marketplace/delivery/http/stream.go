package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/delivery"
	"github.com/closet-labs/marketapi/base/goroutine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// origins are already checked by the cors middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stream
//
//	@Summary		Subscribe to a marketplace session
//	@Description	Websocket pushing the view state as json after every change, starting with the current one
//	@Tags			marketplace
//	@Param			id	path	string	true	"session id"
//	@Success		101
//	@Failure		404
//	@Router			/marketplace/sessions/{id}/stream [get]
func (h *handler) stream(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	v, err := h.view(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already replied
		ctx.WithField("err", err).Warn("upgrader.Upgrade failed")
		return nil
	}
	defer conn.Close()

	// the first state is the current one
	states, cancel := v.Subscribe()
	defer cancel()

	// the reader only handles control frames and notices a closed socket
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	goroutine.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case state, ok := <-states:
			if !ok {
				// view closed
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(writeWait))
				return nil
			}
			if err := writeJson(conn, state); err != nil {
				ctx.WithField("err", err).Debug("writeJson failed")
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func writeJson(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
