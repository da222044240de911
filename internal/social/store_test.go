package social

import (
	"context"
	"sort"
	"sync"
	"time"

	"friend-service/internal/models"
	"friend-service/internal/repositories"
)

// memStore is an in-memory relation store used by the service tests.
type memStore struct {
	mu        sync.Mutex
	nextRel   int64
	nextAttr  int64
	nextChat  int64
	rels      map[int64]models.Relationship
	attrs     map[int64]models.Attribute
	users     map[string]models.User
	chats     map[[2]string]models.Chat
	reports   []models.Report
	bulkCalls int
	failWith  error
	acceptErr error
	// hidePairs makes FindBetween miss existing rows, as a concurrent
	// writer would.
	hidePairs bool
}

func newMemStore() *memStore {
	return &memStore{
		rels:  make(map[int64]models.Relationship),
		attrs: make(map[int64]models.Attribute),
		users: make(map[string]models.User),
		chats: make(map[[2]string]models.Chat),
	}
}

func (m *memStore) addUser(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = models.User{ID: id, Username: name, AvatarURL: "https://img/" + id}
}

func (m *memStore) sortedRels() []models.Relationship {
	out := make([]models.Relationship, 0, len(m.rels))
	for _, rel := range m.rels {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) pairRows(a, b string) []models.Relationship {
	var out []models.Relationship
	for _, rel := range m.sortedRels() {
		if (rel.InitiatorID == a && rel.RecipientID == b) || (rel.InitiatorID == b && rel.RecipientID == a) {
			out = append(out, rel)
		}
	}
	return out
}

// insertRaw bypasses the pair check to simulate legacy duplicate rows.
func (m *memStore) insertRaw(initiator, recipient string, status models.RelationshipStatus) models.Relationship {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRel++
	rel := models.Relationship{ID: m.nextRel, InitiatorID: initiator, RecipientID: recipient, Status: status}
	m.rels[rel.ID] = rel
	return rel
}

type memRelationships struct{ *memStore }

func (r memRelationships) FindBetween(ctx context.Context, userID, otherID string) ([]models.Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	if r.hidePairs {
		return nil, nil
	}
	return r.pairRows(userID, otherID), nil
}

func (r memRelationships) Get(ctx context.Context, id int64) (models.Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.rels[id]
	if !ok {
		return models.Relationship{}, repositories.ErrRelationshipNotFound
	}
	return rel, nil
}

func (r memRelationships) ListForUser(ctx context.Context, userID string, status models.RelationshipStatus) ([]models.Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Relationship
	for _, rel := range r.sortedRels() {
		if rel.Involves(userID) && rel.Status == status {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (r memRelationships) ListPending(ctx context.Context, userID string, role models.Side) ([]models.Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Relationship
	for _, rel := range r.sortedRels() {
		if rel.Status == models.StatusPending && rel.SideUser(role) == userID {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (r memRelationships) Create(ctx context.Context, initiatorID, recipientID string) (models.Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pairRows(initiatorID, recipientID)) > 0 {
		return models.Relationship{}, repositories.ErrDuplicatePair
	}
	r.nextRel++
	now := time.Now()
	rel := models.Relationship{
		ID:          r.nextRel,
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.rels[rel.ID] = rel
	return rel, nil
}

func (r memRelationships) Accept(ctx context.Context, rel models.Relationship) (models.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acceptErr != nil {
		return models.Chat{}, false, r.acceptErr
	}
	stored, ok := r.rels[rel.ID]
	if !ok || stored.Status != models.StatusPending {
		return models.Chat{}, false, nil
	}
	stored.Status = models.StatusAccepted
	r.rels[rel.ID] = stored
	return r.chatFor(stored.InitiatorID, stored.RecipientID), true, nil
}

func (r memRelationships) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rels[id]; !ok {
		return repositories.ErrRelationshipNotFound
	}
	delete(r.rels, id)
	return nil
}

func (r memRelationships) DeletePair(ctx context.Context, userID, otherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rel := range r.pairRows(userID, otherID) {
		delete(r.rels, rel.ID)
	}
	return nil
}

func (r memRelationships) SetAttributes(ctx context.Context, id int64, side models.Side, attributeIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.rels[id]
	if !ok {
		return repositories.ErrRelationshipNotFound
	}
	if side == models.SideInitiator {
		rel.InitiatorAttributes = append([]int64(nil), attributeIDs...)
	} else {
		rel.RecipientAttributes = append([]int64(nil), attributeIDs...)
	}
	r.rels[id] = rel
	return nil
}

type memAttributes struct{ *memStore }

func (a memAttributes) Create(ctx context.Context, ownerID, label string) (models.Attribute, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextAttr++
	attr := models.Attribute{ID: a.nextAttr, OwnerID: ownerID, Label: label, CreatedAt: time.Now()}
	a.attrs[attr.ID] = attr
	return attr, nil
}

func (a memAttributes) Get(ctx context.Context, id int64) (models.Attribute, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	attr, ok := a.attrs[id]
	if !ok {
		return models.Attribute{}, repositories.ErrAttributeNotFound
	}
	return attr, nil
}

func (a memAttributes) Delete(ctx context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.attrs[id]; !ok {
		return repositories.ErrAttributeNotFound
	}
	delete(a.attrs, id)
	return nil
}

func (a memAttributes) ListByOwner(ctx context.Context, ownerID string) ([]models.Attribute, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.Attribute
	for _, attr := range a.attrs {
		if attr.OwnerID == ownerID {
			out = append(out, attr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memChats struct{ *memStore }

func (c memChats) CreateOrGetChat(ctx context.Context, userID, friendID string) (models.Chat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatFor(userID, friendID), nil
}

// chatFor returns the chat of the pair, creating it. Callers hold mu.
func (m *memStore) chatFor(userID, friendID string) models.Chat {
	pair := []string{userID, friendID}
	sort.Strings(pair)
	key := [2]string{pair[0], pair[1]}
	if chat, ok := m.chats[key]; ok {
		return chat
	}
	m.nextChat++
	chat := models.Chat{ID: m.nextChat, User1ID: key[0], User2ID: key[1]}
	m.chats[key] = chat
	return chat
}

type memUsers struct{ *memStore }

func (u memUsers) GetUser(ctx context.Context, userID string) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[userID]
	if !ok {
		return models.User{}, repositories.ErrUserNotFound
	}
	return user, nil
}

func (u memUsers) BulkUsers(ctx context.Context, ids []string) ([]models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bulkCalls++
	var out []models.User
	for _, id := range ids {
		if user, ok := u.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (u memUsers) SetPushToken(ctx context.Context, userID, token string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PushToken = token
	u.users[userID] = user
	return nil
}

func (u memUsers) SetBannedUntil(ctx context.Context, userID string, until time.Time) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.BannedUntil = &until
	u.users[userID] = user
	return nil
}

func (u memUsers) EnsureUser(ctx context.Context, userID, username string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failWith != nil {
		return false, u.failWith
	}
	if _, ok := u.users[userID]; ok {
		return false, nil
	}
	u.users[userID] = models.User{ID: userID, Username: username}
	return true, nil
}

type memReports struct{ *memStore }

func (r memReports) Create(ctx context.Context, reporterID, reportedID, reason string) (models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report := models.Report{
		ID:         int64(len(r.reports) + 1),
		ReporterID: reporterID,
		ReportedID: reportedID,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}
	r.reports = append(r.reports, report)
	return report, nil
}

func (r memReports) ListOpen(ctx context.Context) ([]models.OpenReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, report := range r.reports {
		counts[report.ReportedID]++
	}
	var out []models.OpenReport
	for i := len(r.reports) - 1; i >= 0; i-- {
		report := r.reports[i]
		if report.Confirmed {
			continue
		}
		out = append(out, models.OpenReport{
			Report:           report,
			ReportedUsername: r.users[report.ReportedID].Username,
			ReportCount:      counts[report.ReportedID],
		})
	}
	return out, nil
}

func (r memReports) Confirm(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reports {
		if r.reports[i].ID == id {
			r.reports[i].Confirmed = true
			return nil
		}
	}
	return repositories.ErrReportNotFound
}

type recordingNotifier struct {
	mu      sync.Mutex
	intents []models.NotificationIntent
	err     error
}

func (n *recordingNotifier) Send(ctx context.Context, intent models.NotificationIntent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.intents = append(n.intents, intent)
	return n.err
}

var (
	_ repositories.RelationshipRepository = memRelationships{}
	_ repositories.AttributeRepository    = memAttributes{}
	_ repositories.ChatRepository         = memChats{}
	_ repositories.UserRepository         = memUsers{}
	_ repositories.ReportRepository       = memReports{}
)
