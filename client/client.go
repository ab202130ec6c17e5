// Command client is a remote helm for a running broadside server. Each line
// typed on stdin is sent as one command token; server replies and wind
// reports are printed as they arrive.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	stlog "log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/irishsmurf/go-broadside/game"
)

var serverAddr = flag.String("addr", "ws://localhost:8080/ws", "broadside server websocket URL")
var verbose = flag.Bool("v", false, "debug logging")

const (
	writeWaitClient  = 10 * time.Second
	pongWaitClient   = 60 * time.Second
	pingPeriodClient = (pongWaitClient * 9) / 10
)

func main() {
	flag.Parse()

	level := stlog.LevelInfo
	if *verbose {
		level = stlog.LevelDebug
	}
	logger := stlog.New(stlog.NewTextHandler(os.Stderr, &stlog.HandlerOptions{Level: level}))
	stlog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, *serverAddr, nil)
	if err != nil {
		logger.Error("Dial error", "addr", *serverAddr, "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info("Connected", "addr", *serverAddr)
	fmt.Println("Commands:", strings.Join(game.Commands, " "))

	done := make(chan struct{})
	go func() {
		defer close(done)
		readLoop(conn, os.Stdout, logger)
	}()

	lines := make(chan string)
	go scanLines(os.Stdin, lines)

	pingTicker := time.NewTicker(pingPeriodClient)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Interrupt received, shutting down")
			conn.SetWriteDeadline(time.Now().Add(writeWaitClient))
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				logger.Debug("Error sending close message", "error", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
				logger.Warn("Read loop did not finish in time")
			}
			return

		case <-done:
			logger.Info("Connection lost")
			return

		case line, ok := <-lines:
			if !ok {
				cancel()
				lines = nil
				continue
			}
			token := strings.TrimSpace(line)
			if token == "" {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWaitClient))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(token)); err != nil {
				logger.Error("Write error", "error", err)
				cancel()
			}

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWaitClient))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Error("Ping error", "error", err)
				cancel()
			}
		}
	}
}

func readLoop(conn *websocket.Conn, out io.Writer, logger *stlog.Logger) {
	conn.SetReadDeadline(time.Now().Add(pongWaitClient))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWaitClient)); return nil })
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("Connection closed normally")
			} else {
				logger.Debug("Read error", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			logger.Debug("Ignoring non-text message", "type", messageType)
			continue
		}
		fmt.Fprintln(out, describe(message))
	}
}

func scanLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}

// describe renders a server message for the terminal. JSON reports are
// decoded; anything else is shown verbatim.
func describe(message []byte) string {
	var s structpb.Struct
	if err := protojson.Unmarshal(message, &s); err != nil {
		return string(message)
	}
	fields := s.GetFields()
	switch fields["type"].GetStringValue() {
	case "wind":
		angle := fields["angle"].GetNumberValue()
		return fmt.Sprintf("Wind blowing towards %.0f° (%s)", math.Mod(angle*180/math.Pi+360, 360), compassPoint(angle))
	default:
		return string(message)
	}
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// compassPoint names the nearest of eight compass points for a bearing in
// radians, measured from +z towards +x.
func compassPoint(angle float64) string {
	deg := math.Mod(angle*180/math.Pi+360, 360)
	return compassPoints[int(math.Round(deg/45))%len(compassPoints)]
}
