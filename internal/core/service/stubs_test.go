package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory user store (credential store + user repository)
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	seq     int
	findErr error // if set, lookups return this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) List(context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Photo != nil {
		u.Photo = *upd.Photo
	}
	if upd.Gender != nil {
		u.Gender = *upd.Gender
	}
	if upd.BloodType != nil {
		u.BloodType = *upd.BloodType
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// plainHasher avoids bcrypt cost in tests that do not care about hashing.
type plainHasher struct{ checks int }

func (h *plainHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

func (h *plainHasher) Check(pw, hash string) bool {
	h.checks++
	return hash == "hashed:"+pw
}

// ---------------------------------------------------------------------------
// In-memory doctor store and cache
// ---------------------------------------------------------------------------

type stubDoctorRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Doctor
	gets    int
	getErr  error
	ratings map[string]domain.RatingSummary
	// onGet runs after GetByID has loaded its result.
	onGet func(id string)
}

func newStubDoctorRepo(doctors ...*domain.Doctor) *stubDoctorRepo {
	r := &stubDoctorRepo{
		byID:    make(map[string]*domain.Doctor),
		ratings: make(map[string]domain.RatingSummary),
	}
	for _, d := range doctors {
		r.byID[d.ID] = d
	}
	return r
}

func (r *stubDoctorRepo) GetByID(_ context.Context, id string) (*domain.Doctor, error) {
	d, err := r.get(id)
	if r.onGet != nil {
		r.onGet(id)
	}
	return d, err
}

func (r *stubDoctorRepo) get(id string) (*domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	c := *d
	return &c, nil
}

func (r *stubDoctorRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Doctor
	for _, id := range ids {
		if d, ok := r.byID[id]; ok {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubDoctorRepo) List(_ context.Context, f ports.ListDoctorsFilter) ([]*domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Doctor
	for _, d := range r.byID {
		if d.Deleted || (f.ApprovedOnly && d.Approval != domain.ApprovalApproved) {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(d.Name+" "+d.Specialization), strings.ToLower(f.Query)) {
			continue
		}
		c := *d
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubDoctorRepo) Upsert(_ context.Context, id string, p domain.DoctorProfile) (*domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		d = &domain.Doctor{ID: id, Approval: domain.ApprovalPending}
		r.byID[id] = d
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.TicketPrice != nil {
		d.TicketPrice = *p.TicketPrice
	}
	if p.Specialization != nil {
		d.Specialization = *p.Specialization
	}
	c := *d
	return &c, nil
}

func (r *stubDoctorRepo) SetApproval(_ context.Context, id string, status domain.ApprovalStatus) (*domain.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok || d.Deleted {
		return nil, domain.ErrDoctorNotFound
	}
	d.Approval = status
	c := *d
	return &c, nil
}

func (r *stubDoctorRepo) SetRating(_ context.Context, id string, s domain.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return domain.ErrDoctorNotFound
	}
	d.AverageRating = s.Average
	d.TotalRating = s.Count
	r.ratings[id] = s
	return nil
}

func (r *stubDoctorRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok || d.Deleted {
		return domain.ErrDoctorNotFound
	}
	d.Deleted = true
	return nil
}

type stubDoctorCache struct {
	entries     map[string]*domain.Doctor
	versions    map[string]int64
	getErr      error
	invalidated []string
}

func newStubDoctorCache() *stubDoctorCache {
	return &stubDoctorCache{
		entries:  make(map[string]*domain.Doctor),
		versions: make(map[string]int64),
	}
}

func (c *stubDoctorCache) Get(_ context.Context, id string) (*domain.Doctor, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.entries[id]
	return d, ok, nil
}

func (c *stubDoctorCache) Version(_ context.Context, id string) (int64, error) {
	return c.versions[id], nil
}

func (c *stubDoctorCache) Set(_ context.Context, d *domain.Doctor, version int64) error {
	if c.versions[d.ID] != version {
		return nil
	}
	c.entries[d.ID] = d
	return nil
}

func (c *stubDoctorCache) Invalidate(_ context.Context, id string) error {
	c.versions[id]++
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory review store and queue
// ---------------------------------------------------------------------------

type stubReviewRepo struct {
	mu      sync.Mutex
	reviews []*domain.Review
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *rv
	c.ID = fmt.Sprintf("review-%d", len(r.reviews)+1)
	r.reviews = append(r.reviews, &c)
	out := c
	return &out, nil
}

func (r *stubReviewRepo) List(_ context.Context, doctorID string) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rv := range r.reviews {
		if doctorID == "" || rv.DoctorID == doctorID {
			c := *rv
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubReviewRepo) Summarize(_ context.Context, doctorID string) (domain.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, n int
	for _, rv := range r.reviews {
		if rv.DoctorID == doctorID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.RatingSummary{Average: float64(sum) / float64(n), Count: n}, nil
}

type stubBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (r *stubBookingRepo) ListByPatient(_ context.Context, patientID string) ([]*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.PatientID == patientID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

type recordingQueue struct {
	enqueued []string
	full     bool
}

func (q *recordingQueue) Enqueue(doctorID string) bool {
	if q.full {
		return false
	}
	q.enqueued = append(q.enqueued, doctorID)
	return true
}

// ---------------------------------------------------------------------------
// Payment provider
// ---------------------------------------------------------------------------

type stubProvider struct {
	mu       sync.Mutex
	requests []ports.PaymentSessionRequest
	session  *ports.PaymentSession
	err      error
	// block makes CreateSession wait for ctx cancellation.
	block bool
}

func (p *stubProvider) CreateSession(ctx context.Context, req ports.PaymentSessionRequest) (*ports.PaymentSession, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

func (p *stubProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}
