// Command echoserver is a small unrelated collaborator: a websocket relay
// that broadcasts each client's message to every other connected client. It
// has no dependency on the simulation core and defines no wire schema
// beyond "broadcast the bytes you received".
package main

import (
	"flag"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	out  chan []byte
}

type registry struct {
	mu      sync.Mutex
	clients map[*client]bool
}

func newRegistry() *registry {
	return &registry{clients: make(map[*client]bool)}
}

func (r *registry) add(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = true
	log.Printf("client connected, total=%d", len(r.clients))
}

func (r *registry) remove(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
	close(c.out)
	log.Printf("client disconnected, total=%d", len(r.clients))
}

// broadcastFrom sends msg to every connected client except from.
func (r *registry) broadcastFrom(from *client, msg []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		if c == from {
			continue
		}
		select {
		case c.out <- msg:
		default:
			log.Printf("dropping message for slow client")
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func handler(reg *registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade: %v", err)
			return
		}

		c := &client{conn: conn, out: make(chan []byte, 16)}
		reg.add(c)

		done := make(chan struct{})
		go writer(c, done)
		reader(reg, c)
		close(done)

		reg.remove(c)
		conn.Close()
	}
}

func writer(c *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-c.out:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

func reader(reg *registry, c *client) {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		reg.broadcastFrom(c, msg)
	}
}

func main() {
	addr := flag.String("addr", ":6969", "address to listen on")
	path := flag.String("path", "/ws", "websocket upgrade path")
	flag.Parse()

	reg := newRegistry()
	http.Handle(*path, handler(reg))

	log.Printf("echoserver listening on %s%s", *addr, *path)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal(err)
	}
}
