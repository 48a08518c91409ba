package live

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	wsClients    = make(map[*websocket.Conn]bool)
	wsClientsMux = &sync.Mutex{}

	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Local analysis station, same-origin browser clients only.
			return true
		},
	}
)

func SetupHandlers() {
	http.HandleFunc("/live/progress", handleProgressSocket)
}

func handleProgressSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket connection: %v", err)
		return
	}

	wsClientsMux.Lock()
	wsClients[conn] = true
	wsClientsMux.Unlock()

	// Drain the client so close frames are processed; we never expect
	// inbound messages.
	go func() {
		defer func() {
			wsClientsMux.Lock()
			delete(wsClients, conn)
			wsClientsMux.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes a progress update to every connected client. Clients that
// fail a write are dropped.
func Broadcast(update Progress) {
	wsClientsMux.Lock()
	defer wsClientsMux.Unlock()
	for client := range wsClients {
		if err := client.WriteJSON(update); err != nil {
			log.Printf("Error sending progress update to client: %v", err)
			client.Close()
			delete(wsClients, client)
		}
	}
}

// ClientCount returns the number of connected progress listeners.
func ClientCount() int {
	wsClientsMux.Lock()
	defer wsClientsMux.Unlock()
	return len(wsClients)
}
