package model

import "sync"

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// SyncConn serializes writes to a Conn, which supports one writer at a
// time. Game states older than the last one written are dropped.
type SyncConn struct {
	mu      sync.Mutex
	conn    Conn
	version int
}

func NewSyncConn(conn Conn) *SyncConn {
	if sc, ok := conn.(*SyncConn); ok {
		return sc
	}
	return &SyncConn{conn: conn, version: -1}
}

func (c *SyncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SyncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// Close does not wait for a write in progress.
func (c *SyncConn) Close() error {
	return c.conn.Close()
}

// writeState writes v unless a state with the same or a later version has
// already gone out.
func (c *SyncConn) writeState(version int, v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version <= c.version {
		return nil
	}
	c.version = version
	return c.conn.WriteJSON(v)
}

func (c *SyncConn) wraps(conn Conn) bool {
	return Conn(c) == conn || c.conn == conn
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*SyncConn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*SyncConn),
	}
}
