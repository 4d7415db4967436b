package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

// memoryStore backs the in-memory repository doubles used by the service
// tests. A per-day mutex stands in for the row lock the real store takes
// while booking, so concurrency tests exercise the same serialization.
type memoryStore struct {
	mu  sync.Mutex
	seq int64

	attractions  map[int64]*domain.Attraction
	engagements  map[int64]*domain.Engagement
	days         map[int64]map[string]*domain.TicketDay
	reservations map[int64]*domain.Reservation
	favorites    map[[2]int64]*domain.Favorite

	dayLocks map[string]*sync.Mutex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		attractions:  make(map[int64]*domain.Attraction),
		engagements:  make(map[int64]*domain.Engagement),
		days:         make(map[int64]map[string]*domain.TicketDay),
		reservations: make(map[int64]*domain.Reservation),
		favorites:    make(map[[2]int64]*domain.Favorite),
		dayLocks:     make(map[string]*sync.Mutex),
	}
}

func dayKey(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}

func (s *memoryStore) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *memoryStore) dayLock(attractionID int64, date time.Time) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%d/%s", attractionID, dayKey(date))
	lock, ok := s.dayLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.dayLocks[key] = lock
	}
	return lock
}

func (s *memoryStore) seedWindowLocked(attractionID int64, total int, from time.Time) {
	byDate, ok := s.days[attractionID]
	if !ok {
		byDate = make(map[string]*domain.TicketDay)
		s.days[attractionID] = byDate
	}
	for i := 0; i < domain.TicketWindowDays; i++ {
		date := domain.NormalizeDate(from.AddDate(0, 0, i))
		byDate[dayKey(date)] = &domain.TicketDay{
			ID:               s.nextID(),
			AttractionID:     attractionID,
			Date:             date,
			TotalTickets:     total,
			RemainingTickets: total,
			CurrentFlow:      0,
		}
	}
}

// uniqueViolationErr mimics the driver error the real store surfaces for
// duplicate keys.
func uniqueViolationErr() error {
	return &pgconn.PgError{Code: "23505"}
}

type memAttractionRepo struct{ store *memoryStore }

var _ ports.AttractionRepository = (*memAttractionRepo)(nil)

func (r *memAttractionRepo) Create(_ context.Context, fields domain.AttractionFields, seedTotal int) (*domain.Attraction, *domain.Engagement, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	attraction := &domain.Attraction{
		ID:          s.nextID(),
		Name:        fields.Name,
		ImageURL:    fields.ImageURL,
		Description: fields.Description,
		Category:    fields.Category,
		Tags:        fields.Tags,
		CreatedAt:   time.Now().UTC(),
	}
	engagement := &domain.Engagement{AttractionID: attraction.ID}
	s.attractions[attraction.ID] = attraction
	s.engagements[attraction.ID] = engagement
	if seedTotal > 0 {
		s.seedWindowLocked(attraction.ID, seedTotal, time.Now())
	}
	return attraction, engagement, nil
}

func (r *memAttractionRepo) Update(_ context.Context, id int64, fields domain.AttractionFields) (*domain.Attraction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	attraction, ok := s.attractions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if fields.Name != "" {
		attraction.Name = fields.Name
	}
	if fields.ImageURL != nil {
		attraction.ImageURL = fields.ImageURL
	}
	if fields.Description != nil {
		attraction.Description = fields.Description
	}
	if fields.Category != nil {
		attraction.Category = fields.Category
	}
	if fields.Tags != nil {
		attraction.Tags = fields.Tags
	}
	return attraction, nil
}

func (r *memAttractionRepo) SetImageURL(_ context.Context, id int64, url string) (*domain.Attraction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	attraction, ok := s.attractions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	attraction.ImageURL = &url
	return attraction, nil
}

func (r *memAttractionRepo) DeleteCascade(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.attractions[id]; !ok {
		return ports.ErrAttractionMissing
	}
	delete(s.engagements, id)
	delete(s.days, id)
	for rid, res := range s.reservations {
		if res.AttractionID == id {
			delete(s.reservations, rid)
		}
	}
	for key := range s.favorites {
		if key[1] == id {
			delete(s.favorites, key)
		}
	}
	delete(s.attractions, id)
	return nil
}

func (r *memAttractionRepo) FindByID(_ context.Context, id int64) (*domain.Attraction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	attraction, ok := s.attractions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return attraction, nil
}

func (r *memAttractionRepo) GetDetail(_ context.Context, id int64) (*domain.AttractionDetail, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailLocked(id)
}

func (s *memoryStore) detailLocked(id int64) (*domain.AttractionDetail, error) {
	attraction, ok := s.attractions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}

	detail := &domain.AttractionDetail{Attraction: *attraction}
	for _, day := range s.days[id] {
		detail.Tickets = append(detail.Tickets, *day)
	}
	sort.Slice(detail.Tickets, func(i, j int) bool {
		return detail.Tickets[i].Date.Before(detail.Tickets[j].Date)
	})
	if engagement, ok := s.engagements[id]; ok {
		detail.Engagement = *engagement
	}
	return detail, nil
}

func (r *memAttractionRepo) ListDetails(_ context.Context) ([]domain.AttractionDetail, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.attractions))
	for id := range s.attractions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.AttractionDetail, 0, len(ids))
	for _, id := range ids {
		detail, err := s.detailLocked(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *detail)
	}
	return out, nil
}

type memTicketRepo struct{ store *memoryStore }

var _ ports.TicketRepository = (*memTicketRepo)(nil)

func (r *memTicketRepo) CreateDay(_ context.Context, attractionID int64, date time.Time, total int) (*domain.TicketDay, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.days[attractionID]
	if !ok {
		byDate = make(map[string]*domain.TicketDay)
		s.days[attractionID] = byDate
	}
	if _, exists := byDate[dayKey(date)]; exists {
		return nil, uniqueViolationErr()
	}
	day := &domain.TicketDay{
		ID:               s.nextID(),
		AttractionID:     attractionID,
		Date:             domain.NormalizeDate(date),
		TotalTickets:     total,
		RemainingTickets: total,
	}
	byDate[dayKey(date)] = day
	return day, nil
}

func (r *memTicketRepo) FindDay(_ context.Context, attractionID int64, date time.Time) (*domain.TicketDay, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[attractionID][dayKey(date)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *day
	return &copied, nil
}

func (r *memTicketRepo) ListByAttraction(_ context.Context, attractionID int64) ([]domain.TicketDay, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TicketDay, 0, len(s.days[attractionID]))
	for _, day := range s.days[attractionID] {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memTicketRepo) UpdateRemaining(_ context.Context, attractionID int64, date time.Time, remaining int) (*domain.TicketDay, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[attractionID][dayKey(date)]
	if !ok || remaining < 0 || remaining > day.TotalTickets {
		return nil, sql.ErrNoRows
	}
	day.RemainingTickets = remaining
	day.CurrentFlow = day.TotalTickets - remaining
	copied := *day
	return &copied, nil
}

func (r *memTicketRepo) ReplaceDay(_ context.Context, attractionID int64, date time.Time, newTotal int) (*domain.TicketDay, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[attractionID][dayKey(date)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	day.TotalTickets = newTotal
	day.RemainingTickets = newTotal
	day.CurrentFlow = 0
	copied := *day
	return &copied, nil
}

func (r *memTicketRepo) DeleteDay(_ context.Context, attractionID int64, date time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.days[attractionID][dayKey(date)]; !ok {
		return ports.ErrTicketDayMissing
	}
	for _, res := range s.reservations {
		if res.AttractionID == attractionID && dayKey(res.Date) == dayKey(date) && res.Status == domain.ReservationActive {
			res.Status = domain.ReservationCancelled
		}
	}
	delete(s.days[attractionID], dayKey(date))
	return nil
}

func (r *memTicketRepo) RegenerateWindow(_ context.Context, attractionID int64, total int) ([]domain.TicketDay, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.attractions[attractionID]; !ok {
		return nil, ports.ErrAttractionMissing
	}
	for _, res := range s.reservations {
		if res.AttractionID == attractionID && res.Status == domain.ReservationActive {
			res.Status = domain.ReservationCancelled
		}
	}
	s.days[attractionID] = make(map[string]*domain.TicketDay)
	s.seedWindowLocked(attractionID, total, time.Now())

	out := make([]domain.TicketDay, 0, domain.TicketWindowDays)
	for _, day := range s.days[attractionID] {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type memReservationRepo struct{ store *memoryStore }

var _ ports.ReservationRepository = (*memReservationRepo)(nil)

func (r *memReservationRepo) Reserve(_ context.Context, userID, attractionID int64, date time.Time) (*domain.Reservation, error) {
	s := r.store
	lock := s.dayLock(attractionID, date)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.attractions[attractionID]; !ok {
		return nil, ports.ErrAttractionMissing
	}
	day, ok := s.days[attractionID][dayKey(date)]
	if !ok {
		return nil, ports.ErrTicketDayMissing
	}
	if day.RemainingTickets <= 0 {
		return nil, ports.ErrTicketsExhausted
	}
	for _, res := range s.reservations {
		if res.UserID == userID && res.AttractionID == attractionID &&
			dayKey(res.Date) == dayKey(date) && res.Status == domain.ReservationActive {
			return nil, ports.ErrReservationExists
		}
	}

	reservation := &domain.Reservation{
		ID:           s.nextID(),
		UserID:       userID,
		AttractionID: attractionID,
		Date:         domain.NormalizeDate(date),
		Status:       domain.ReservationActive,
		CreatedAt:    time.Now().UTC(),
	}
	s.reservations[reservation.ID] = reservation
	day.RemainingTickets--
	day.CurrentFlow++
	copied := *reservation
	return &copied, nil
}

func (r *memReservationRepo) Cancel(_ context.Context, userID, attractionID int64, date time.Time) error {
	s := r.store
	lock := s.dayLock(attractionID, date)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	var found *domain.Reservation
	for _, res := range s.reservations {
		if res.UserID == userID && res.AttractionID == attractionID &&
			dayKey(res.Date) == dayKey(date) && res.Status == domain.ReservationActive {
			found = res
			break
		}
	}
	if found == nil {
		return ports.ErrReservationMissing
	}
	delete(s.reservations, found.ID)

	if day, ok := s.days[attractionID][dayKey(date)]; ok && day.CurrentFlow > 0 {
		day.RemainingTickets++
		day.CurrentFlow--
	}
	return nil
}

func (r *memReservationRepo) ListByUser(_ context.Context, userID int64) ([]domain.ReservationDetail, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ReservationDetail, 0)
	for _, res := range s.reservations {
		if res.UserID != userID {
			continue
		}
		detail := domain.ReservationDetail{
			ID:           res.ID,
			AttractionID: res.AttractionID,
			Date:         res.Date,
			Status:       res.Status,
		}
		if attraction, ok := s.attractions[res.AttractionID]; ok {
			detail.AttractionName = attraction.Name
			detail.ImageURL = attraction.ImageURL
		}
		out = append(out, detail)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memEngagementRepo struct{ store *memoryStore }

var _ ports.EngagementRepository = (*memEngagementRepo)(nil)

func (r *memEngagementRepo) Get(_ context.Context, attractionID int64) (*domain.Engagement, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	engagement, ok := s.engagements[attractionID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *engagement
	return &copied, nil
}

func (r *memEngagementRepo) Increment(_ context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bumpLocked(kind, attractionID, 1)
}

func (r *memEngagementRepo) Decrement(_ context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bumpLocked(kind, attractionID, -1)
}

func (s *memoryStore) bumpLocked(kind domain.EngagementKind, attractionID int64, delta int) (*domain.Engagement, error) {
	engagement, ok := s.engagements[attractionID]
	if !ok {
		return nil, ports.ErrEngagementMissing
	}

	var counter *int
	switch kind {
	case domain.KindLikes:
		counter = &engagement.Likes
	case domain.KindShares:
		counter = &engagement.Shares
	case domain.KindFavorites:
		counter = &engagement.Favorites
	}
	if *counter+delta < 0 {
		return nil, ports.ErrCounterAtZero
	}
	*counter += delta
	copied := *engagement
	return &copied, nil
}

type memFavoriteRepo struct{ store *memoryStore }

var _ ports.FavoriteRepository = (*memFavoriteRepo)(nil)

func (r *memFavoriteRepo) Add(_ context.Context, userID, attractionID int64) (*domain.Favorite, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int64{userID, attractionID}
	if _, exists := s.favorites[key]; exists {
		return nil, ports.ErrFavoriteExists
	}
	if _, err := s.bumpLocked(domain.KindFavorites, attractionID, 1); err != nil {
		return nil, ports.ErrEngagementMissing
	}
	favorite := &domain.Favorite{
		ID:           s.nextID(),
		UserID:       userID,
		AttractionID: attractionID,
		CreatedAt:    time.Now().UTC(),
	}
	s.favorites[key] = favorite
	copied := *favorite
	return &copied, nil
}

func (r *memFavoriteRepo) Remove(_ context.Context, userID, attractionID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int64{userID, attractionID}
	if _, exists := s.favorites[key]; !exists {
		return ports.ErrFavoriteMissing
	}
	if _, err := s.bumpLocked(domain.KindFavorites, attractionID, -1); err != nil {
		return ports.ErrEngagementMissing
	}
	delete(s.favorites, key)
	return nil
}

func (r *memFavoriteRepo) Exists(_ context.Context, userID, attractionID int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.favorites[[2]int64{userID, attractionID}]
	return exists, nil
}

func (r *memFavoriteRepo) ListByUser(_ context.Context, userID int64) ([]domain.FavoriteAttraction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.FavoriteAttraction, 0)
	for key, favorite := range s.favorites {
		if key[0] != userID {
			continue
		}
		item := domain.FavoriteAttraction{
			AttractionID: favorite.AttractionID,
			SavedAt:      favorite.CreatedAt,
		}
		if attraction, ok := s.attractions[favorite.AttractionID]; ok {
			item.Name = attraction.Name
			item.ImageURL = attraction.ImageURL
			item.Description = attraction.Description
			item.Category = attraction.Category
			item.Tags = attraction.Tags
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttractionID > out[j].AttractionID })
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*domain.User
}

var _ ports.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, username, email string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return nil, uniqueViolationErr()
		}
	}
	r.seq++
	user := &domain.User{
		ID:           r.seq,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

// stubCache is a disabled cache that records invalidations.
type stubCache struct {
	mu           sync.Mutex
	invalidated  []int64
	detailHits   map[int64]*domain.AttractionDetail
	listHit      []domain.AttractionDetail
	listPrimed   bool
	detailPrimed bool
}

var _ ports.AttractionCache = (*stubCache)(nil)

func newStubCache() *stubCache {
	return &stubCache{detailHits: make(map[int64]*domain.AttractionDetail)}
}

func (c *stubCache) GetDetail(_ context.Context, id int64) (*domain.AttractionDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.detailPrimed {
		return nil, false
	}
	detail, ok := c.detailHits[id]
	return detail, ok
}

func (c *stubCache) SetDetail(_ context.Context, detail *domain.AttractionDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailPrimed = true
	c.detailHits[detail.ID] = detail
}

func (c *stubCache) GetList(_ context.Context) ([]domain.AttractionDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listHit, c.listPrimed
}

func (c *stubCache) SetList(_ context.Context, items []domain.AttractionDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listHit = items
	c.listPrimed = true
}

func (c *stubCache) Invalidate(_ context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	c.listPrimed = false
	delete(c.detailHits, id)
}

// stubStorage captures uploads without touching a real object store.
type stubStorage struct {
	mu      sync.Mutex
	objects []string
	failErr error
}

var _ ports.ObjectStorage = (*stubStorage)(nil)

func (s *stubStorage) Upload(_ context.Context, bucket, objectName, _ string, reader io.Reader, _ int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", s.failErr
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	s.objects = append(s.objects, objectName)
	return "https://storage.test/" + bucket + "/" + objectName, nil
}
