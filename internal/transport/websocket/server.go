package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/pelmanism/internal/apperror"
	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/rocketscienceinc/pelmanism/internal/pkg"
	"github.com/rocketscienceinc/pelmanism/internal/service"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 4096
	outboxSize      = 16
	shutdownTimeout = 5 * time.Second
)

type sessionUseCase interface {
	Subscribe(sessionID string) (<-chan *entity.Snapshot, func(), error)
	SendInput(ctx context.Context, sessionID string, input service.Input) error
	Restart(ctx context.Context, sessionID string) error
}

type Server struct {
	logger         *slog.Logger
	sessionUseCase sessionUseCase
	upgrader       gorilla.Upgrader
	handlers       map[string]func(ctx context.Context, sessionID string, msg *Message) error
}

func New(logger *slog.Logger, sessionUseCase sessionUseCase) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		sessionUseCase: sessionUseCase,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}

	server.handlers = map[string]func(context.Context, string, *Message) error{
		actionPointer: server.handlePointer,
		actionRestart: server.handleRestart,
	}

	return server
}

// Router exposes the upgrade endpoint, useful for tests.
func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/ws/{id}", that.upgradeToWebSocket)

	return r
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Router(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and streams the session.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, req *http.Request) {
	sessionID := chi.URLParam(req, "id")
	log := that.logger.With("method", "upgradeToWebSocket", "sessionID", sessionID)

	if !pkg.IsValidSessionID(sessionID) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	updates, unsubscribe, err := that.sessionUseCase.Subscribe(sessionID)
	if err != nil {
		log.Info("subscribe rejected", "error", err)
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	conn, err := that.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established")

	ctx, cancel := context.WithCancel(context.WithoutCancel(req.Context()))
	defer cancel()

	outbox := make(chan Message, outboxSize)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		if writeErr := that.writeLoop(ctx, conn, updates, outbox); writeErr != nil {
			log.Info("writer stopped", "error", writeErr)
		}
		cancel()
		_ = conn.Close()
	}()

	if err = that.readLoop(ctx, conn, sessionID, outbox); err != nil {
		log.Info("reader stopped", "error", err)
	}

	cancel()
	<-writerDone
}

// readLoop - processes messages from the client.
func (that *Server) readLoop(ctx context.Context, conn *gorilla.Conn, sessionID string, outbox chan<- Message) error {
	log := that.logger.With("method", "readLoop", "sessionID", sessionID)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				return fmt.Errorf("failed to read message: %w", err)
			}
			return nil
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.enqueue(ctx, outbox, errorMessage(message.Action, apperror.ErrUnknownAction.Error()))
			continue
		}

		if err := handler(ctx, sessionID, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			that.enqueue(ctx, outbox, errorMessage(message.Action, err.Error()))
		}
	}
}

func (that *Server) enqueue(ctx context.Context, outbox chan<- Message, msg Message) {
	select {
	case outbox <- msg:
	case <-ctx.Done():
	}
}

// writeLoop owns every write on the connection.
func (that *Server) writeLoop(ctx context.Context, conn *gorilla.Conn, updates <-chan *entity.Snapshot, outbox <-chan Message) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(gorilla.CloseMessage,
				gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return nil

		case snapshot, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(gorilla.CloseMessage,
					gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "session closed"), time.Now().Add(writeWait))
				return nil
			}
			if err := that.write(conn, snapshotMessage(snapshot)); err != nil {
				return err
			}

		case msg := <-outbox:
			if err := that.write(conn, msg); err != nil {
				return err
			}

		case <-ticker.C:
			if err := conn.WriteControl(gorilla.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to write ping: %w", err)
			}
		}
	}
}

func (that *Server) write(conn *gorilla.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
