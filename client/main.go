package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/colorparty/models"
	"github.com/wfunc/colorparty/network"
)

// Interactive line-oriented test client. Commands:
//
//	create <name> [targetColor]
//	join <code> <name>
//	leave
//	info
//	game <findColor|mixColor>
//	start
//	submit <score> <seconds>
//	endround
//	continue
//	endsession
//	target <#rrggbb>
//	extend <seconds>

func send(c *websocket.Conn, msgID uint16, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Println("Marshal error:", err)
		return
	}
	if err := c.WriteMessage(websocket.BinaryMessage, network.Encode(msgID, data)); err != nil {
		log.Println("Write error:", err)
	}
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// The server may assign us a room before we ask for anything, so keep
	// the last seen room code around for commands that omit it.
	roomCode := ""

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			packet, err := network.Decode(message)
			if err != nil {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			log.Printf("<- RECV (ID: %d): %s", packet.MsgID, string(packet.Data))

			if packet.MsgID == network.MsgTypeRoomJoined || packet.MsgID == network.MsgTypeRoomCreated {
				var info models.GameInfo
				if err := json.Unmarshal(packet.Data, &info); err == nil && info.RoomID != "" {
					roomCode = info.RoomID
				}
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := c.WriteMessage(websocket.BinaryMessage, network.Encode(network.MsgTypeHeartbeat, nil)); err != nil {
				return
			}
		}
	}()

	log.Println("Connected. Type 'create <name>' or 'join <code> <name>' to begin.")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(strings.TrimSpace(text))
			if len(fields) == 0 {
				continue
			}

			switch fields[0] {
			case "create":
				if len(fields) < 2 {
					log.Println("Usage: create <name> [targetColor]")
					continue
				}
				req := models.CreateRoomRequest{PlayerName: fields[1]}
				if len(fields) > 2 {
					req.TargetColor = fields[2]
				}
				send(c, network.MsgTypeCreateRoom, req)

			case "join":
				if len(fields) < 3 {
					log.Println("Usage: join <code> <name>")
					continue
				}
				send(c, network.MsgTypeJoinRoom, models.JoinRoomRequest{RoomID: fields[1], PlayerName: fields[2]})

			case "leave":
				send(c, network.MsgTypeLeaveRoom, models.RoomRequest{RoomID: roomCode})
				roomCode = ""

			case "info":
				send(c, network.MsgTypeGetRoomInfo, models.RoomRequest{RoomID: roomCode})

			case "game":
				if len(fields) < 2 {
					log.Println("Usage: game <findColor|mixColor>")
					continue
				}
				send(c, network.MsgTypeSelectGameType, models.SelectGameTypeRequest{
					RoomID:   roomCode,
					GameType: models.GameType(fields[1]),
				})

			case "start":
				send(c, network.MsgTypeStartRound, models.RoomRequest{RoomID: roomCode})

			case "submit":
				if len(fields) < 3 {
					log.Println("Usage: submit <score> <seconds>")
					continue
				}
				score, err1 := strconv.ParseFloat(fields[1], 64)
				secs, err2 := strconv.ParseFloat(fields[2], 64)
				if err1 != nil || err2 != nil {
					log.Println("Usage: submit <score> <seconds>")
					continue
				}
				send(c, network.MsgTypeSubmitScore, models.SubmitScoreRequest{
					RoomID:    roomCode,
					Score:     score,
					TimeTaken: int64(secs * 1000),
				})

			case "endround":
				send(c, network.MsgTypeEndRound, models.RoomRequest{RoomID: roomCode})

			case "continue":
				send(c, network.MsgTypeContinueSession, models.RoomRequest{RoomID: roomCode})

			case "endsession":
				send(c, network.MsgTypeEndSession, models.RoomRequest{RoomID: roomCode})

			case "target":
				if len(fields) < 2 {
					log.Println("Usage: target <#rrggbb>")
					continue
				}
				send(c, network.MsgTypeSetTargetColor, models.SetTargetColorRequest{RoomID: roomCode, TargetColor: fields[1]})

			case "extend":
				if len(fields) < 2 {
					log.Println("Usage: extend <seconds>")
					continue
				}
				secs, err := strconv.Atoi(fields[1])
				if err != nil {
					log.Println("Usage: extend <seconds>")
					continue
				}
				send(c, network.MsgTypeExtendTime, models.ExtendTimeRequest{RoomID: roomCode, AdditionalSeconds: secs})

			default:
				log.Printf("Unknown command: %s", fields[0])
			}
		}
	}
}
