package domain

import (
	"context"
	"errors"
	"time"
)

// Connection lifecycle states.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
)

// Sentinel errors for connection operations.
var (
	ErrAlreadyConnected  = errors.New("connection already exists")
	ErrSelfConnection    = errors.New("cannot connect to yourself")
	ErrNotConnectionPeer = errors.New("not a participant of this connection")
)

// Connection is an undirected relationship between two users. RequesterID is
// the side that initiated the request; lookups treat the pair as unordered.
// swagger:model Connection
type Connection struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requester_id"`
	AddresseeID string    `json:"addressee_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PeerID returns the other participant of the connection relative to userID.
func (c *Connection) PeerID(userID string) string {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}

// Involves reports whether userID is one of the two participants.
func (c *Connection) Involves(userID string) bool {
	return c.RequesterID == userID || c.AddresseeID == userID
}

// ConnectionWithPeer bundles a connection with the public profile of the
// other participant.
type ConnectionWithPeer struct {
	Connection *Connection    `json:"connection"`
	Peer       *PublicProfile `json:"peer"`
}

// ConnectionRepository defines storage for connection edges. At most one row
// exists per unordered pair of users.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *Connection) error
	GetByID(ctx context.Context, id string) (*Connection, error)
	// GetByPair returns the edge between the two users regardless of which
	// side initiated it.
	GetByPair(ctx context.Context, userA, userB string) (*Connection, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	ListByUserID(ctx context.Context, userID, status string) ([]*Connection, error)
	// ListAcceptedPeerIDs returns the IDs of all users with an accepted edge
	// touching userID, in either direction. No ordering guarantee.
	ListAcceptedPeerIDs(ctx context.Context, userID string) ([]string, error)
	// CountAcceptedEdgesWithPeers returns, per user, how many of the given
	// peer IDs that user holds an accepted edge with. Users touching none of
	// the peers are absent from the map.
	CountAcceptedEdgesWithPeers(ctx context.Context, peerIDs []string) (map[string]int, error)
}

// ConnectionService defines the friend-request workflow.
type ConnectionService interface {
	Request(ctx context.Context, requesterID, targetID string) (*Connection, error)
	Accept(ctx context.Context, connectionID, userID string) (*Connection, error)
	Decline(ctx context.Context, connectionID, userID string) (*Connection, error)
	// Remove cancels the caller's own pending request or removes an accepted
	// connection. Declined edges may also be removed by either side.
	Remove(ctx context.Context, connectionID, userID string) error
	List(ctx context.Context, userID, status string) ([]*ConnectionWithPeer, error)
}
