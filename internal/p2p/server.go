package p2p

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// peerHandle is one connected peer as tracked by Server: the live Conn
// plus the id it announced via HELLO (empty until received).
type peerHandle struct {
	id   string
	conn *Conn
}

// Server accepts inbound TCP connections, dispatches their messages, and
// tracks outbound dials, mirroring the teacher's peer-registry pattern
// adapted to the JSON-line wire format (spec.md §6).
type Server struct {
	mu    sync.RWMutex
	peers map[string]*peerHandle

	pendingMu sync.Mutex
	pending   map[string]chan Envelope

	dispatcher *Dispatcher
	listener   net.Listener
	log        *logrus.Logger
}

// NewServer constructs a Server bound to a Dispatcher of message handlers,
// logging through log like every other subsystem (spec.md §7,
// SPEC_FULL.md §2).
func NewServer(dispatcher *Dispatcher, log *logrus.Logger) *Server {
	return &Server{
		peers:      make(map[string]*peerHandle),
		pending:    make(map[string]chan Envelope),
		dispatcher: dispatcher,
		log:        log,
	}
}

// Listen starts accepting inbound connections on addr. Call Serve to
// process them; Listen and Serve are split so tests can inspect the bound
// address before accepting begins.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Addr returns the listener's bound address, valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve() error {
	for {
		raw, err := s.listener.Accept()
		if err != nil {
			return err
		}
		conn := NewConn(raw)
		go s.readLoop(conn, raw.RemoteAddr().String())
	}
}

// Close stops accepting new connections and closes every tracked peer.
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.peers {
		_ = p.conn.Close()
	}
	s.peers = make(map[string]*peerHandle)
	return err
}

// Dial opens an outbound connection and begins processing it the same
// way as an inbound one.
func (s *Server) Dial(addr string) (*Conn, error) {
	raw, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	conn := NewConn(raw)
	go s.readLoop(conn, addr)
	return conn, nil
}

// readLoop is the per-connection reader, matching the teacher's
// one-goroutine-per-peer pattern. A peer is registered under its address
// until its HELLO reassigns it to the announced node id.
func (s *Server) readLoop(conn *Conn, initialID string) {
	handle := &peerHandle{id: initialID, conn: conn}
	s.register(handle)
	defer s.unregister(handle)
	defer conn.Close()

	for {
		env, err := conn.ReadEnvelope()
		if err != nil {
			return
		}
		if env.Kind == TypeHello {
			s.rename(handle, env)
		}
		if s.deliverResponse(handle.id, env) {
			continue
		}
		s.dispatcher.Dispatch(handle.id, env)
	}
}

func (s *Server) rename(handle *peerHandle, env Envelope) {
	var hello HelloMsg
	if err := decodeBody(env, &hello); err != nil || hello.NodeID == "" {
		return
	}
	s.mu.Lock()
	delete(s.peers, handle.id)
	handle.id = hello.NodeID
	s.peers[handle.id] = handle
	s.mu.Unlock()
}

func (s *Server) register(h *peerHandle) {
	s.mu.Lock()
	s.peers[h.id] = h
	s.mu.Unlock()
}

func (s *Server) unregister(h *peerHandle) {
	s.mu.Lock()
	delete(s.peers, h.id)
	s.mu.Unlock()
}

// PeerIDs returns the ids of every currently connected peer.
func (s *Server) PeerIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.peers))
	for id := range s.peers {
		ids = append(ids, id)
	}
	return ids
}

// Send delivers a message to one peer by id. Returns false if the peer
// isn't connected.
func (s *Server) Send(peerID string, kind Type, payload interface{}) bool {
	s.mu.RLock()
	h, ok := s.peers[peerID]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := h.conn.Send(kind, payload); err != nil {
		s.log.WithField("peer", peerID).WithError(err).Warn("send failed")
		return false
	}
	return true
}

// Broadcast delivers a message to every connected peer, continuing past
// any individual send failure (spec.md §7: "a broadcast to N peers MUST
// continue when one peer fails").
func (s *Server) Broadcast(kind Type, payload interface{}) {
	s.mu.RLock()
	handles := make([]*peerHandle, 0, len(s.peers))
	for _, h := range s.peers {
		handles = append(handles, h)
	}
	s.mu.RUnlock()

	for _, h := range handles {
		if err := h.conn.Send(kind, payload); err != nil {
			s.log.WithField("peer", h.id).WithError(err).Warn("broadcast failed")
		}
	}
}

// RequestResponse sends reqKind/reqPayload to peerID and blocks for the
// next envelope of respKind from that peer, or until timeout elapses.
// It underlies the sync protocol's request/response exchanges (spec.md
// §4.6): the wire protocol itself is message-oriented, not RPC, so this
// correlates a request with its reply by (peer, response-kind) alone. At
// most one outstanding request per (peer, kind) pair is supported, which
// matches the sync manager's one-attempt-at-a-time usage.
func (s *Server) RequestResponse(peerID string, reqKind Type, reqPayload interface{}, respKind Type, timeout time.Duration) (Envelope, error) {
	key := peerID + "|" + string(respKind)
	ch := make(chan Envelope, 1)

	s.pendingMu.Lock()
	s.pending[key] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, key)
		s.pendingMu.Unlock()
	}()

	if !s.Send(peerID, reqKind, reqPayload) {
		return Envelope{}, fmt.Errorf("p2p: peer %s not connected", peerID)
	}

	select {
	case env := <-ch:
		return env, nil
	case <-time.After(timeout):
		return Envelope{}, fmt.Errorf("p2p: request %s to %s timed out after %s", reqKind, peerID, timeout)
	}
}

// deliverResponse hands env to whatever RequestResponse call is waiting
// on (peerID, env.Kind), if any. Returns false if nothing was waiting,
// meaning env should be treated as an ordinary dispatched message instead
// (e.g. an unsolicited status push, or a response that already timed
// out).
func (s *Server) deliverResponse(peerID string, env Envelope) bool {
	key := peerID + "|" + string(env.Kind)
	s.pendingMu.Lock()
	ch, ok := s.pending[key]
	s.pendingMu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- env:
	default:
	}
	return true
}
