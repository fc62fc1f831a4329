package services

import (
	"context"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/campusbeacon/api/internal/app/models"
	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/pkg/apperrors"
	"github.com/campusbeacon/api/internal/pkg/filestorage"
	"github.com/campusbeacon/api/internal/pkg/websocket"
)

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (f *fakeUserStore) CountByHostel(_ context.Context, hostelID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.HostelID != nil && *u.HostelID == hostelID {
			n++
		}
	}
	return n, nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenStore) Create(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeTokenStore) Get(_ context.Context, value string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[value]
	switch {
	case !ok:
		return nil, apperrors.ErrTokenNotFound
	case t.IsRevoked:
		return nil, apperrors.ErrTokenRevoked
	case !t.ExpiresAt.After(time.Now()):
		return nil, apperrors.ErrTokenExpired
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[value]
	if !ok || t.IsRevoked || !t.ExpiresAt.After(time.Now()) {
		return apperrors.ErrTokenRevoked
	}
	t.IsRevoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.UserID == userID {
			t.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeTokenStore) CleanupExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, t := range f.tokens {
		if t.IsRevoked || !t.ExpiresAt.After(now) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeLostItemStore struct {
	nextID int64
	items  map[int64]*models.LostItem
}

func newFakeLostItemStore() *fakeLostItemStore {
	return &fakeLostItemStore{items: map[int64]*models.LostItem{}}
}

func (f *fakeLostItemStore) List(_ context.Context, filter dto.LostItemFilter, offset uint64, limit int) ([]*models.LostItem, int64, error) {
	var out []*models.LostItem
	for _, it := range f.items {
		if filter.Status != "" && it.Status != filter.Status {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if int(offset) >= len(out) {
		return []*models.LostItem{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeLostItemStore) GetByID(_ context.Context, id int64) (*models.LostItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrLostItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeLostItemStore) Create(_ context.Context, item *models.LostItem) error {
	f.nextID++
	item.ID = f.nextID
	item.CreatedAt = fixedNow
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeLostItemStore) UpdateStatus(_ context.Context, id int64, status models.LostItemStatus) error {
	it, ok := f.items[id]
	if !ok {
		return apperrors.ErrLostItemNotFound
	}
	it.Status = status
	return nil
}

func (f *fakeLostItemStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return apperrors.ErrLostItemNotFound
	}
	delete(f.items, id)
	return nil
}

// fakeRideStore serializes Join and Leave the way the row lock does.
type fakeRideStore struct {
	mu     sync.Mutex
	nextID int64
	rides  map[int64]*models.Ride
	lists  int
}

func newFakeRideStore() *fakeRideStore {
	return &fakeRideStore{rides: map[int64]*models.Ride{}}
}

func cloneRide(r *models.Ride) *models.Ride {
	cp := *r
	cp.Passengers = append([]models.RidePassenger{}, r.Passengers...)
	return &cp
}

func (f *fakeRideStore) Create(_ context.Context, ride *models.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ride.ID = f.nextID
	ride.AvailableSeats = ride.TotalSeats
	ride.Passengers = []models.RidePassenger{}
	f.rides[ride.ID] = cloneRide(ride)
	return nil
}

func (f *fakeRideStore) GetByID(_ context.Context, id int64) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return nil, apperrors.ErrRideNotFound
	}
	return cloneRide(r), nil
}

func (f *fakeRideStore) List(_ context.Context, departingAfter *time.Time) ([]*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	out := []*models.Ride{}
	for _, r := range f.rides {
		if departingAfter != nil && !r.DepartureTime.After(*departingAfter) {
			continue
		}
		out = append(out, cloneRide(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRideStore) ListByUser(_ context.Context, userID int64) ([]*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Ride{}
	for _, r := range f.rides {
		if r.CreatorID == userID || r.HasPassenger(userID) {
			out = append(out, cloneRide(r))
		}
	}
	return out, nil
}

func (f *fakeRideStore) Join(_ context.Context, rideID, userID int64, check func(*models.Ride) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[rideID]
	if !ok {
		return apperrors.ErrRideNotFound
	}
	if err := check(cloneRide(r)); err != nil {
		return err
	}
	if r.AvailableSeats <= 0 {
		return apperrors.ErrNoSeatsAvailable
	}
	r.Passengers = append(r.Passengers, models.RidePassenger{UserID: userID, JoinedAt: fixedNow})
	r.AvailableSeats--
	return nil
}

func (f *fakeRideStore) Leave(_ context.Context, rideID, userID int64, check func(*models.Ride) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[rideID]
	if !ok {
		return apperrors.ErrRideNotFound
	}
	if err := check(cloneRide(r)); err != nil {
		return err
	}
	kept := r.Passengers[:0]
	for _, p := range r.Passengers {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	r.Passengers = kept
	if r.AvailableSeats < r.TotalSeats {
		r.AvailableSeats++
	}
	return nil
}

func (f *fakeRideStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rides[id]; !ok {
		return apperrors.ErrRideNotFound
	}
	delete(f.rides, id)
	return nil
}

type enrollment struct{ userID, subjectID int64 }

type recordKey struct {
	userID, subjectID int64
	date              string
}

type fakeAttendanceStore struct {
	nextID   int64
	subjects map[int64]*models.Subject
	enrolled map[enrollment]bool
	records  map[recordKey]*models.AttendanceRecord
}

func newFakeAttendanceStore(subjects ...*models.Subject) *fakeAttendanceStore {
	f := &fakeAttendanceStore{
		subjects: map[int64]*models.Subject{},
		enrolled: map[enrollment]bool{},
		records:  map[recordKey]*models.AttendanceRecord{},
	}
	for _, s := range subjects {
		f.subjects[s.ID] = s
	}
	return f
}

func (f *fakeAttendanceStore) ListSubjects(context.Context) ([]*models.Subject, error) {
	out := []*models.Subject{}
	for _, s := range f.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeAttendanceStore) GetSubject(_ context.Context, id int64) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	return s, nil
}

func (f *fakeAttendanceStore) CreateSubject(_ context.Context, subject *models.Subject) error {
	for _, s := range f.subjects {
		if s.Code == subject.Code {
			return apperrors.ErrSubjectAlreadyExists
		}
	}
	subject.ID = int64(len(f.subjects) + 100)
	f.subjects[subject.ID] = subject
	return nil
}

func (f *fakeAttendanceStore) Enroll(_ context.Context, userID, subjectID int64) error {
	if _, ok := f.subjects[subjectID]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	key := enrollment{userID, subjectID}
	if f.enrolled[key] {
		return apperrors.ErrSubjectAlreadyAdded
	}
	f.enrolled[key] = true
	return nil
}

func (f *fakeAttendanceStore) Unenroll(_ context.Context, userID, subjectID int64) error {
	key := enrollment{userID, subjectID}
	if !f.enrolled[key] {
		return apperrors.ErrSubjectNotTracked
	}
	delete(f.enrolled, key)
	for k := range f.records {
		if k.userID == userID && k.subjectID == subjectID {
			delete(f.records, k)
		}
	}
	return nil
}

func (f *fakeAttendanceStore) IsEnrolled(_ context.Context, userID, subjectID int64) (bool, error) {
	return f.enrolled[enrollment{userID, subjectID}], nil
}

func (f *fakeAttendanceStore) ListEnrolled(_ context.Context, userID int64) ([]*models.Subject, error) {
	out := []*models.Subject{}
	for k := range f.enrolled {
		if k.userID == userID {
			out = append(out, f.subjects[k.subjectID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeAttendanceStore) UpsertRecord(_ context.Context, record *models.AttendanceRecord) error {
	key := recordKey{record.UserID, record.SubjectID, record.Date.Format("2006-01-02")}
	if existing, ok := f.records[key]; ok {
		existing.Status = record.Status
		record.ID = existing.ID
		return nil
	}
	f.nextID++
	record.ID = f.nextID
	cp := *record
	f.records[key] = &cp
	return nil
}

func (f *fakeAttendanceStore) ImportRecords(ctx context.Context, records []*models.AttendanceRecord) error {
	for _, r := range records {
		if err := f.UpsertRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAttendanceStore) DeleteRecord(_ context.Context, userID, subjectID int64, date time.Time) error {
	key := recordKey{userID, subjectID, date.Format("2006-01-02")}
	if _, ok := f.records[key]; !ok {
		return apperrors.NewResourceNotFoundError("attendance record not found")
	}
	delete(f.records, key)
	return nil
}

func (f *fakeAttendanceStore) ListRecords(_ context.Context, userID, subjectID int64, from, to time.Time) ([]*models.AttendanceRecord, error) {
	out := []*models.AttendanceRecord{}
	for k, r := range f.records {
		if k.userID != userID || k.subjectID != subjectID {
			continue
		}
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !r.Date.Before(to) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeAttendanceStore) Counts(_ context.Context, userID int64) ([]models.AttendanceCounts, error) {
	bySubject := map[int64]*models.AttendanceCounts{}
	for k, r := range f.records {
		if k.userID != userID {
			continue
		}
		c, ok := bySubject[k.subjectID]
		if !ok {
			c = &models.AttendanceCounts{SubjectID: k.subjectID}
			bySubject[k.subjectID] = c
		}
		c.Total++
		if r.Status == models.AttendancePresent {
			c.Present++
		}
	}
	out := []models.AttendanceCounts{}
	for _, c := range bySubject {
		out = append(out, *c)
	}
	return out, nil
}

// fakeHostelStore implements the hostel and complaint parts of HostelStore.
// Unimplemented methods panic through the nil embedded interface.
type fakeHostelStore struct {
	HostelStore
	hostels    map[int64]*models.Hostel
	complaints map[int64]*models.Complaint
	menu       []models.MessMenuEntry
	deleted    []int64
	notices    []*models.Notification
}

func newFakeHostelStore(hostels ...*models.Hostel) *fakeHostelStore {
	f := &fakeHostelStore{hostels: map[int64]*models.Hostel{}, complaints: map[int64]*models.Complaint{}}
	for _, h := range hostels {
		f.hostels[h.ID] = h
	}
	return f
}

func (f *fakeHostelStore) GetByID(_ context.Context, id int64) (*models.Hostel, error) {
	h, ok := f.hostels[id]
	if !ok {
		return nil, apperrors.ErrHostelNotFound
	}
	return h, nil
}

func (f *fakeHostelStore) Delete(_ context.Context, id int64) error {
	delete(f.hostels, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeHostelStore) CreateComplaint(_ context.Context, c *models.Complaint) error {
	c.ID = int64(len(f.complaints) + 1)
	cp := *c
	f.complaints[c.ID] = &cp
	return nil
}

func (f *fakeHostelStore) GetComplaint(_ context.Context, id int64) (*models.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, apperrors.ErrComplaintNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeHostelStore) UpdateComplaintStatus(_ context.Context, id int64, from, to models.ComplaintStatus, response *string) (*models.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok || c.Status != from {
		return nil, apperrors.ErrInvalidStatusTransition
	}
	c.Status = to
	if response != nil {
		c.Response = response
	}
	cp := *c
	return &cp, nil
}

func (f *fakeHostelStore) ListComplaintsByUser(_ context.Context, userID int64) ([]*models.Complaint, error) {
	out := []*models.Complaint{}
	for _, c := range f.complaints {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeHostelStore) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = int64(len(f.notices) + 1)
	f.notices = append(f.notices, n)
	return nil
}

func (f *fakeHostelStore) GetMenu(context.Context, int64) ([]models.MessMenuEntry, error) {
	return f.menu, nil
}

func (f *fakeHostelStore) ReplaceMenu(_ context.Context, _ int64, entries []models.MessMenuEntry) error {
	f.menu = entries
	return nil
}

type fakeChatStore struct {
	rooms    map[int64]*models.ChatRoom
	messages map[int64]*models.ChatMessage
	nextID   int64
	failOn   string
}

func newFakeChatStore(roomIDs ...int64) *fakeChatStore {
	f := &fakeChatStore{rooms: map[int64]*models.ChatRoom{}, messages: map[int64]*models.ChatMessage{}}
	for _, id := range roomIDs {
		f.rooms[id] = &models.ChatRoom{ID: id, Name: "general"}
	}
	return f
}

func (f *fakeChatStore) ListRooms(context.Context) ([]*models.ChatRoom, error) {
	out := []*models.ChatRoom{}
	for _, r := range f.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeChatStore) CreateRoom(_ context.Context, room *models.ChatRoom) error {
	for _, r := range f.rooms {
		if r.Name == room.Name {
			return apperrors.ErrRoomAlreadyExists
		}
	}
	room.ID = int64(len(f.rooms) + 1)
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeChatStore) RoomExists(_ context.Context, roomID int64) (bool, error) {
	_, ok := f.rooms[roomID]
	return ok, nil
}

func (f *fakeChatStore) CreateMessage(_ context.Context, message *models.ChatMessage) error {
	if f.failOn == "create" {
		return apperrors.NewConflictError("insert failed")
	}
	if _, ok := f.rooms[message.RoomID]; !ok {
		return apperrors.ErrRoomNotFound
	}
	f.nextID++
	message.ID = f.nextID
	message.SenderName = "Sender"
	message.CreatedAt = fixedNow
	message.UpdatedAt = fixedNow
	cp := *message
	f.messages[message.ID] = &cp
	return nil
}

func (f *fakeChatStore) GetMessage(_ context.Context, id int64) (*models.ChatMessage, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeChatStore) ListMessages(_ context.Context, roomID, before int64, limit int) ([]*models.ChatMessage, error) {
	out := []*models.ChatMessage{}
	for _, m := range f.messages {
		if m.RoomID == roomID && (before == 0 || m.ID < before) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeChatStore) UpdateMessage(_ context.Context, message *models.ChatMessage) error {
	m, ok := f.messages[message.ID]
	if !ok {
		return apperrors.ErrMessageNotFound
	}
	m.Content = message.Content
	m.Edited = true
	message.Edited = true
	return nil
}

func (f *fakeChatStore) DeleteMessage(_ context.Context, id int64) error {
	if _, ok := f.messages[id]; !ok {
		return apperrors.ErrMessageNotFound
	}
	delete(f.messages, id)
	return nil
}

// recordingPublisher captures published events and can check that the
// message was already stored when it was published.
type recordingPublisher struct {
	events []websocket.Event
	store  *fakeChatStore
	stored []bool
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event websocket.Event) error {
	p.events = append(p.events, event)
	if p.store != nil && event.Message != nil {
		_, ok := p.store.messages[event.Message.ID]
		p.stored = append(p.stored, ok)
	}
	return p.err
}

type fakeStorage struct {
	saved   []string
	deleted []string
}

func (s *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (*filestorage.FileInfo, error) {
	path := subPath + "/" + fh.Filename
	s.saved = append(s.saved, path)
	return &filestorage.FileInfo{Path: path, Filename: fh.Filename, FileSize: fh.Size}, nil
}

func (s *fakeStorage) DeleteFile(path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStorage) URL(path string) string {
	return "/uploads/" + path
}
