package auth

import (
	"encoding/json"
	"sync"
)

// Message is one cross-window message delivered to the login flow.
type Message struct {
	// Origin is the sender's origin, for example http://localhost:8080.
	Origin string `json:"-"`

	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// LoginPayload is the data of a *_LOGIN_SUCCESS message. For an existing
// user TempToken carries the access token; Token is read when TempToken is
// absent.
type LoginPayload struct {
	Token     string `json:"token"`
	TempToken string `json:"tempToken"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	IsNewUser bool   `json:"isNewUser"`
}

// token returns the token the payload carries.
func (p LoginPayload) token() string {
	if p.TempToken != "" {
		return p.TempToken
	}
	return p.Token
}

// errorPayload is the data of a *_LOGIN_ERROR message.
type errorPayload struct {
	Error string `json:"error"`
}

// MessageSource delivers messages addressed to the opener. Listen returns a
// channel of messages and a function that removes the listener.
type MessageSource interface {
	Listen() (<-chan Message, func())
}

// Relay is an in-process MessageSource. Publish hands a message to every
// current listener; messages sent with no listener are dropped.
type Relay struct {
	mu        sync.Mutex
	next      int
	listeners map[int]chan Message
}

// NewRelay returns an empty Relay.
func NewRelay() *Relay {
	return &Relay{listeners: make(map[int]chan Message)}
}

func (r *Relay) Listen() (<-chan Message, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	ch := make(chan Message, 8)
	r.listeners[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.listeners, id)
		})
	}
}

// Publish delivers m and reports how many listeners received it. A full
// listener misses the message.
func (r *Relay) Publish(m Message) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	for _, ch := range r.listeners {
		select {
		case ch <- m:
			delivered++
		default:
		}
	}
	return delivered
}
