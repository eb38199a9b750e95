package services

import (
	"context"
	"sort"
	"time"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests.

// ----- users -----

type fakeUserRepo struct {
	users      map[uint]*models.User
	nextID     uint
	attendance map[uint]int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[uint]*models.User),
		attendance: make(map[uint]int64),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email || u.Handle == user.Handle {
			return gorm.ErrDuplicatedKey
		}
		if user.OwnerKey != nil && u.OwnerKey != nil && *u.OwnerKey == *user.OwnerKey {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByHandle(_ context.Context, handle string) (*models.User, error) {
	for _, u := range r.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, u := range r.users {
		if u.ID != user.ID && (u.Email == user.Email || u.Handle == user.Handle) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*models.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, r.users[id])
	}
	return out, int64(len(r.users)), nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByHandle(_ context.Context, handle string) (bool, error) {
	_, err := r.GetByHandle(context.Background(), handle)
	return err == nil, nil
}

func (r *fakeUserRepo) OwnerExists(_ context.Context) (bool, error) {
	for _, u := range r.users {
		if u.Role == string(domain.RoleOwner) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListWithAttendance(_ context.Context, role domain.Role) ([]*domain.AttendanceEntry, error) {
	var entries []*domain.AttendanceEntry
	for _, u := range r.users {
		if u.Role != string(role) {
			continue
		}
		entries = append(entries, &domain.AttendanceEntry{
			UserID:          u.ID,
			FullName:        u.FullName,
			Handle:          u.Handle,
			Email:           u.Email,
			Role:            domain.Role(u.Role),
			AttendanceCount: r.attendance[u.ID],
			CreatedAt:       u.CreatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AttendanceCount > entries[j].AttendanceCount
	})
	return entries, nil
}

// ----- refresh tokens -----

type fakeRefreshTokenRepo struct {
	tokens map[string]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	t, ok := r.tokens[tokenHash]
	if !ok || t.RevokedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.ID == id {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	if t, ok := r.tokens[tokenHash]; ok {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	for hash, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, hash)
		}
	}
	return nil
}

// ----- events -----

type fakeEventRepo struct {
	events      map[uint]*models.Event
	nextID      uint
	regs        map[uint]map[uint]bool
	pays        map[uint]map[uint]bool
	interests   map[uint]map[uint]string
	discussions map[uint]*models.Discussion
	nextDiscID  uint
	upvotes     map[uint]map[uint]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:      make(map[uint]*models.Event),
		regs:        make(map[uint]map[uint]bool),
		pays:        make(map[uint]map[uint]bool),
		interests:   make(map[uint]map[uint]string),
		discussions: make(map[uint]*models.Discussion),
		upvotes:     make(map[uint]map[uint]bool),
	}
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.Event) error {
	r.nextID++
	event.ID = r.nextID
	r.events[event.ID] = event
	r.regs[event.ID] = make(map[uint]bool)
	r.pays[event.ID] = make(map[uint]bool)
	r.interests[event.ID] = make(map[uint]string)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uint) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id uint) error {
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) List(_ context.Context, status string, _ string, offset, limit int) ([]*models.Event, int64, error) {
	ids := make([]uint, 0, len(r.events))
	for id, e := range r.events {
		if status != "" && e.Status != status {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*models.Event
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, r.events[id])
	}
	return out, int64(len(ids)), nil
}

func (r *fakeEventRepo) CountRegistrations(_ context.Context, eventID uint) (int64, error) {
	return int64(len(r.regs[eventID])), nil
}

func (r *fakeEventRepo) Register(_ context.Context, eventID, userID uint, maxParticipants *int) error {
	regs, ok := r.regs[eventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if regs[userID] {
		return domain.ErrAlreadyRegistered
	}
	if maxParticipants != nil && len(regs) >= *maxParticipants {
		return domain.ErrEventFull
	}
	regs[userID] = true
	return nil
}

func (r *fakeEventRepo) Unregister(_ context.Context, eventID, userID uint) error {
	regs := r.regs[eventID]
	if !regs[userID] {
		return domain.ErrNotRegistered
	}
	delete(regs, userID)
	delete(r.pays[eventID], userID)
	return nil
}

func (r *fakeEventRepo) IsRegistered(_ context.Context, eventID, userID uint) (bool, error) {
	return r.regs[eventID][userID], nil
}

func (r *fakeEventRepo) MarkPaid(_ context.Context, eventID, userID uint) error {
	if r.pays[eventID][userID] {
		return domain.ErrAlreadyPaid
	}
	r.pays[eventID][userID] = true
	return nil
}

func (r *fakeEventRepo) HasPaid(_ context.Context, eventID, userID uint) (bool, error) {
	return r.pays[eventID][userID], nil
}

func (r *fakeEventRepo) UpsertInterest(_ context.Context, eventID, userID uint, status domain.InterestStatus) error {
	r.interests[eventID][userID] = string(status)
	return nil
}

func (r *fakeEventRepo) ClearInterest(_ context.Context, eventID, userID uint) error {
	delete(r.interests[eventID], userID)
	return nil
}

func (r *fakeEventRepo) InterestCounts(_ context.Context, eventID uint) (*models.InterestCounts, error) {
	counts := &models.InterestCounts{}
	for _, s := range r.interests[eventID] {
		switch domain.InterestStatus(s) {
		case domain.InterestInterested:
			counts.Interested++
		case domain.InterestNotInterested:
			counts.NotInterested++
		case domain.InterestGoing:
			counts.Going++
		}
	}
	return counts, nil
}

func (r *fakeEventRepo) CreateDiscussion(_ context.Context, discussion *models.Discussion) error {
	r.nextDiscID++
	discussion.ID = r.nextDiscID
	discussion.CreatedAt = time.Now()
	r.discussions[discussion.ID] = discussion
	r.upvotes[discussion.ID] = make(map[uint]bool)
	return nil
}

func (r *fakeEventRepo) GetDiscussion(_ context.Context, eventID, discussionID uint) (*models.Discussion, error) {
	d, ok := r.discussions[discussionID]
	if !ok || d.EventID != eventID {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeEventRepo) UpdateDiscussion(_ context.Context, discussion *models.Discussion) error {
	if _, ok := r.discussions[discussion.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.discussions[discussion.ID] = discussion
	return nil
}

func (r *fakeEventRepo) DeleteDiscussion(_ context.Context, discussionID uint) error {
	delete(r.discussions, discussionID)
	delete(r.upvotes, discussionID)
	return nil
}

func (r *fakeEventRepo) ListDiscussions(_ context.Context, eventID uint) ([]*models.Discussion, error) {
	var out []*models.Discussion
	for _, d := range r.discussions {
		if d.EventID == eventID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeEventRepo) HasUpvoted(_ context.Context, discussionID, userID uint) (bool, error) {
	return r.upvotes[discussionID][userID], nil
}

func (r *fakeEventRepo) AddUpvote(_ context.Context, discussionID, userID uint) error {
	r.upvotes[discussionID][userID] = true
	return nil
}

func (r *fakeEventRepo) RemoveUpvote(_ context.Context, discussionID, userID uint) error {
	delete(r.upvotes[discussionID], userID)
	return nil
}

func (r *fakeEventRepo) CountUpvotes(_ context.Context, discussionID uint) (int64, error) {
	return int64(len(r.upvotes[discussionID])), nil
}

func (r *fakeEventRepo) MarkOngoing(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for _, e := range r.events {
		if e.Status == string(domain.EventUpcoming) && !e.StartDate.After(now) {
			e.Status = string(domain.EventOngoing)
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) MarkCompleted(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for _, e := range r.events {
		if e.Status == string(domain.EventOngoing) && e.EndDate != nil && !e.EndDate.After(now) {
			e.Status = string(domain.EventCompleted)
			n++
		}
	}
	return n, nil
}

// ----- sessions -----

type fakeSessionRepo struct {
	sessions map[uint]*models.Session
	nextID   uint
	checkins map[uint]map[uint]bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[uint]*models.Session),
		checkins: make(map[uint]map[uint]bool),
	}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now()
	r.sessions[session.ID] = session
	r.checkins[session.ID] = make(map[uint]bool)
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uint) (*models.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) AddCheckin(_ context.Context, sessionID, userID uint) error {
	if r.checkins[sessionID][userID] {
		return domain.ErrAlreadyPresent
	}
	r.checkins[sessionID][userID] = true
	return nil
}

func (r *fakeSessionRepo) CountCheckins(_ context.Context, sessionID uint) (int64, error) {
	return int64(len(r.checkins[sessionID])), nil
}

// ----- articles and problems -----

type fakeArticleRepo struct {
	articles map[uint]*models.Article
	nextID   uint
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[uint]*models.Article)}
}

func (r *fakeArticleRepo) Create(_ context.Context, article *models.Article) error {
	r.nextID++
	article.ID = r.nextID
	article.CreatedAt = time.Now()
	r.articles[article.ID] = article
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id uint) (*models.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeArticleRepo) Update(_ context.Context, article *models.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.articles[article.ID] = article
	return nil
}

func (r *fakeArticleRepo) Delete(_ context.Context, id uint) error {
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) List(_ context.Context, filter repositories.ArticleFilter) ([]*models.Article, error) {
	var out []*models.Article
	for _, a := range r.articles {
		if filter.Tag != "" {
			found := false
			for _, tag := range models.SplitTags(a.Tags) {
				if tag == filter.Tag {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if filter.EventID != nil && (a.EventID == nil || *a.EventID != *filter.EventID) {
			continue
		}
		if filter.ProblemID != nil && (a.ProblemID == nil || *a.ProblemID != *filter.ProblemID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeProblemRepo struct {
	problems map[uint]*models.Problem
	nextID   uint
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{problems: make(map[uint]*models.Problem)}
}

func (r *fakeProblemRepo) Create(_ context.Context, problem *models.Problem) error {
	r.nextID++
	problem.ID = r.nextID
	r.problems[problem.ID] = problem
	return nil
}

func (r *fakeProblemRepo) GetByID(_ context.Context, id uint) (*models.Problem, error) {
	p, ok := r.problems[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProblemRepo) List(_ context.Context, tag string) ([]*models.Problem, error) {
	var out []*models.Problem
	for _, p := range r.problems {
		if tag != "" {
			found := false
			for _, t := range models.SplitTags(p.Tags) {
				if t == tag {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ----- handle verifier -----

type fakeVerifier struct {
	known map[string]*HandleInfo
}

func newFakeVerifier(handles ...string) *fakeVerifier {
	v := &fakeVerifier{known: make(map[string]*HandleInfo)}
	for _, h := range handles {
		rating := 1500
		v.known[h] = &HandleInfo{Handle: h, Rating: &rating}
	}
	return v
}

func (v *fakeVerifier) Verify(_ context.Context, handle string) (*HandleInfo, error) {
	return v.known[handle], nil
}
