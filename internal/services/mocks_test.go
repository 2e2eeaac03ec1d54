package services

import (
	"context"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

// Hand-rolled repository fakes shared by the service tests in this package.
// Each fake returns its err field from every method when set.

type mockUserRepository struct {
	users   map[string]*domain.User
	byEmail map[string]*domain.User
	err     error

	created       []*domain.User
	assignedRoles map[string]string // userID -> roleID
	activeFlags   map[string]bool
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if m.byEmail != nil {
		if _, ok := m.byEmail[user.Email]; ok {
			return domain.ErrDuplicateEmail
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(m.created)+1)
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	if m.activeFlags == nil {
		m.activeFlags = map[string]bool{}
	}
	m.activeFlags[id] = active
	return nil
}

func (m *mockUserRepository) ListActive(ctx context.Context) ([]*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.User
	for _, u := range m.users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	if m.assignedRoles == nil {
		m.assignedRoles = map[string]string{}
	}
	m.assignedRoles[userID] = roleID
	return nil
}

type mockRoleRepository struct {
	byCode map[string]*domain.Role
	byUser map[string][]*domain.Role
	err    error
}

func (m *mockRoleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	role, ok := m.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return role, nil
}

func (m *mockRoleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byUser[userID], nil
}

type mockConnectionRepository struct {
	conns        map[string]*domain.Connection
	peersByUser  map[string][]string
	mutualCounts map[string]int
	err          error

	updatedStatus map[string]string
	deleted       []string
}

func (m *mockConnectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	if m.err != nil {
		return m.err
	}
	conn.ID = fmt.Sprintf("conn-%d", len(m.conns)+1)
	if m.conns == nil {
		m.conns = map[string]*domain.Connection{}
	}
	m.conns[conn.ID] = conn
	return nil
}

func (m *mockConnectionRepository) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	if m.err != nil {
		return nil, m.err
	}
	conn, ok := m.conns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conn, nil
}

func (m *mockConnectionRepository) GetByPair(ctx context.Context, userA, userB string) (*domain.Connection, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, conn := range m.conns {
		if conn.Involves(userA) && conn.Involves(userB) {
			return conn, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockConnectionRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	conn, ok := m.conns[id]
	if !ok {
		return domain.ErrNotFound
	}
	conn.Status = status
	conn.UpdatedAt = updatedAt
	if m.updatedStatus == nil {
		m.updatedStatus = map[string]string{}
	}
	m.updatedStatus[id] = status
	return nil
}

func (m *mockConnectionRepository) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.conns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.conns, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockConnectionRepository) ListByUserID(ctx context.Context, userID, status string) ([]*domain.Connection, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Connection
	for _, conn := range m.conns {
		if !conn.Involves(userID) {
			continue
		}
		if status != "" && conn.Status != status {
			continue
		}
		out = append(out, conn)
	}
	return out, nil
}

func (m *mockConnectionRepository) ListAcceptedPeerIDs(ctx context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.peersByUser[userID], nil
}

func (m *mockConnectionRepository) CountAcceptedEdgesWithPeers(ctx context.Context, peerIDs []string) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.mutualCounts == nil {
		return map[string]int{}, nil
	}
	return m.mutualCounts, nil
}

type mockEventRepository struct {
	events map[string]*domain.Event
	list   []*domain.Event
	total  int
	err    error

	softDeleted []string
	updated     []*domain.Event
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	event.ID = fmt.Sprintf("event-%d", len(m.events)+1)
	if m.events == nil {
		m.events = map[string]*domain.Event{}
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok || ev.Deleted {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.list, m.total, nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, event)
	return nil
}

func (m *mockEventRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Deleted = true
	m.softDeleted = append(m.softDeleted, id)
	return nil
}

type mockRegistrationRepository struct {
	regs            map[string]*domain.Registration // key: eventID + ":" + userID
	regsByUser      map[string][]*domain.Registration
	eventIDsByUser  map[string][]string
	membersByEvent  map[string][]string
	attendedByUser  map[string]int
	registeredCount map[string]int
	err             error
	createErr       error

	created       []*domain.Registration
	statusUpdates map[string]string
	attendedSet   []string
}

func (m *mockRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.err != nil {
		return m.err
	}
	reg.ID = fmt.Sprintf("reg-%d", len(m.created)+1)
	m.created = append(m.created, reg)
	return nil
}

func (m *mockRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	reg, ok := m.regs[eventID+":"+userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (m *mockRegistrationRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	if m.statusUpdates == nil {
		m.statusUpdates = map[string]string{}
	}
	m.statusUpdates[id] = status
	return nil
}

func (m *mockRegistrationRepository) SetAttended(ctx context.Context, id string, attended bool, updatedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.attendedSet = append(m.attendedSet, id)
	return nil
}

func (m *mockRegistrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.regsByUser[userID], nil
}

func (m *mockRegistrationRepository) CountRegisteredByEventID(ctx context.Context, eventID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.registeredCount[eventID], nil
}

func (m *mockRegistrationRepository) ListRegisteredEventIDs(ctx context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.eventIDsByUser[userID], nil
}

func (m *mockRegistrationRepository) ListRegisteredUserIDsByEvents(ctx context.Context, eventIDs []string) (map[string][]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string][]string)
	for _, id := range eventIDs {
		if members, ok := m.membersByEvent[id]; ok {
			out[id] = members
		}
	}
	return out, nil
}

func (m *mockRegistrationRepository) CountAttendedByUserID(ctx context.Context, userID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.attendedByUser[userID], nil
}

type mockReviewRepository struct {
	reviews     map[string]*domain.Review // key: eventID + ":" + userID
	byEvent     map[string][]*domain.Review
	countByUser map[string]int
	err         error

	created []*domain.Review
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if m.err != nil {
		return m.err
	}
	key := review.EventID + ":" + review.UserID
	if m.reviews != nil {
		if _, ok := m.reviews[key]; ok {
			return domain.ErrAlreadyReviewed
		}
	}
	review.ID = fmt.Sprintf("review-%d", len(m.created)+1)
	m.created = append(m.created, review)
	return nil
}

func (m *mockReviewRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	review, ok := m.reviews[eventID+":"+userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return review, nil
}

func (m *mockReviewRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Review, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byEvent[eventID], nil
}

func (m *mockReviewRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.countByUser[userID], nil
}

type mockOrderRepository struct {
	orders    map[string]*domain.Order // key: order ID
	bySession map[string]*domain.Order
	paid      map[string]*domain.Order // key: eventID + ":" + userID
	err       error

	created       []*domain.Order
	statusUpdates map[string]string
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, order)
	return nil
}

func (m *mockOrderRepository) GetByProviderSessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.bySession[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) GetPaidByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	order, ok := m.paid[eventID+":"+userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	if m.statusUpdates == nil {
		m.statusUpdates = map[string]string{}
	}
	m.statusUpdates[id] = status
	if order, ok := m.orders[id]; ok {
		order.Status = status
	}
	return nil
}

type mockBookmarkRepository struct {
	eventIDsByUser map[string][]string
	err            error

	added   []string // userID + ":" + eventID
	removed []string
}

func (m *mockBookmarkRepository) Add(ctx context.Context, userID, eventID string, createdAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, userID+":"+eventID)
	return nil
}

func (m *mockBookmarkRepository) Remove(ctx context.Context, userID, eventID string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, userID+":"+eventID)
	return nil
}

func (m *mockBookmarkRepository) ListEventIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.eventIDsByUser[userID], nil
}

type mockSubscriptionRepository struct {
	hostsByFollower map[string][]string
	err             error

	added   []string // followerID + ":" + hostID
	removed []string
}

func (m *mockSubscriptionRepository) Add(ctx context.Context, followerID, hostID string, createdAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, followerID+":"+hostID)
	return nil
}

func (m *mockSubscriptionRepository) Remove(ctx context.Context, followerID, hostID string) error {
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, followerID+":"+hostID)
	return nil
}

func (m *mockSubscriptionRepository) ListHostIDsByFollowerID(ctx context.Context, followerID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hostsByFollower[followerID], nil
}

func (m *mockSubscriptionRepository) ListFollowerIDsByHostID(ctx context.Context, hostID string) ([]string, error) {
	return nil, nil
}

type mockEmailService struct {
	welcomes      []*domain.WelcomeMessageEmailData
	confirmations []*domain.RegistrationConfirmedEmailData
	err           error
}

func (m *mockEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.welcomes = append(m.welcomes, data)
	return nil
}

func (m *mockEmailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationConfirmedEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, data)
	return nil
}

type mockPasswordHasher struct{ compareErr error }

func (m *mockPasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (m *mockPasswordHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}
func (m *mockPasswordHasher) Compare(hash, salt, password string) error {
	if m.compareErr != nil {
		return m.compareErr
	}
	if hash != "hash:"+salt+":"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

type mockTokenIssuer struct{ err error }

func (m *mockTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token-" + userID, nil
}

type mockCheckoutProvider struct {
	session *domain.CheckoutSession
	err     error

	createdFor []*domain.Order
}

func (m *mockCheckoutProvider) CreateSession(ctx context.Context, order *domain.Order, eventName string) (*domain.CheckoutSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.createdFor = append(m.createdFor, order)
	return m.session, nil
}

type mockLLMClient struct {
	reply string
	err   error

	prompts []string
}

func (m *mockLLMClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockCertificateRenderer struct {
	out []byte
	err error

	rendered []*domain.CertificateData
}

func (m *mockCertificateRenderer) Render(data *domain.CertificateData) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.rendered = append(m.rendered, data)
	return m.out, nil
}
