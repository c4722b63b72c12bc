package service

import (
	"context"

	"notebook/internal/contract"
	"notebook/internal/domain/entity"
	"notebook/internal/domain/events"
	"notebook/internal/infrastructure/aws/websocket"
	"notebook/internal/utils"
	"notebook/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type ConnectionRepository interface {
	Save(conn *entity.Connection) error
	Delete(connID string) error
	FindByUserID(userID int64) ([]string, error)
	FindExpired(now int64) ([]*entity.Connection, error)
	UpdateHeartbeat(connID string, now int64) error
}

// WebSocketService pushes note events out to the author's open drawers in
// other browser sessions.
type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
	}
}

// Register subscribes the service to the note lifecycle events so every
// mutation reaches the author's other sessions.
func (s *WebSocketService) Register(bus *events.Bus) {
	for _, t := range []events.Type{
		events.TypeNoteCreated,
		events.TypeNoteUpdated,
		events.TypeNoteDeleted,
	} {
		bus.Subscribe(t, s.onNoteEvent)
	}
}

func (s *WebSocketService) onNoteEvent(evt events.Event) {
	authorID, ok := noteEventAuthor(evt)
	if !ok {
		return
	}
	s.PushToUser(context.Background(), authorID, evt)
}

func noteEventAuthor(evt events.Event) (int64, bool) {
	switch e := evt.(type) {
	case *events.NoteCreated:
		return e.AuthorID, true
	case *events.NoteUpdated:
		return e.AuthorID, true
	case *events.NoteDeleted:
		return e.AuthorID, true
	}
	return 0, false
}

func (s *WebSocketService) RegisterConnection(userID int64, connectionID string, exp int64) apierror.ErrorResponse {
	now := utils.NowUTC()
	conn := &entity.Connection{
		ConnectionID:    connectionID,
		UserID:          userID,
		ExpiresAt:       exp * 1000, // "exp" is stored in seconds, our app uses millis
		LastHeartbeatAt: now,        // Avoid users getting disconnected immediately
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(conn); err != nil {
		log.Errorf("failed to save connection: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(connectionID string) {
	// We don't return error here because if it fails, it's not the client's fault
	_ = s.ConnRepo.Delete(connectionID)
}

func (s *WebSocketService) HandleMessage(msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(connID)
	}
}

// PushToUser sends an event to every open connection of ONE user. Note
// events never travel past their author: other users must not learn about
// note activity through the socket channel.
func (s *WebSocketService) PushToUser(ctx context.Context, userID int64, evt events.Event) {
	conns, err := s.ConnRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch connections of user %d: %v", userID, err)
		return
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	for _, connID := range conns {
		// We ignore errors here so one stale connection doesn't block others
		_ = s.Gateway.PostToConnection(ctx, connID, envelope)
	}
}

func (s *WebSocketService) handlePing(connID string) {
	now := utils.NowUTC()
	err := s.ConnRepo.UpdateHeartbeat(connID, now)
	if err != nil {
		log.Errorf("failed to update heartbeat: %v", err)
		return
	}

	go func(conn string) {
		err := s.Gateway.PostToConnection(context.Background(), conn, &contract.OutgoingSocketMessage{
			Type: contract.EventAck,
		})
		if err != nil {
			log.Errorf("failed to post ack to conn %s: %v", conn, err)
		}
	}(connID)
}
