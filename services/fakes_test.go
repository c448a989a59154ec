package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sportsys/tournament-admin/models"
	"github.com/sportsys/tournament-admin/repositories"
)

// fakeStore — хранилище в памяти для тестов сервисного слоя. WithinTx
// сериализует транзакции глобальным мьютексом и откатывает состояние по
// снимку при ошибке, имитируя семантику настоящих транзакций БД.
type fakeStore struct {
	mu sync.Mutex

	events       map[int]*models.Event
	registration map[int]*models.Registration
	matches      map[int]*models.Match
	participants map[int][]*models.MatchParticipant
	logs         []*models.GameLog

	nextRegID   int
	nextMatchID int
	nextPartID  int
	nextLogID   int

	// failOn позволяет тестам ронять конкретную операцию внутри
	// транзакции для проверки отката.
	failOn map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:       make(map[int]*models.Event),
		registration: make(map[int]*models.Registration),
		matches:      make(map[int]*models.Match),
		participants: make(map[int][]*models.MatchParticipant),
		failOn:       make(map[string]error),
		nextRegID:    1,
		nextMatchID:  1,
		nextPartID:   1,
		nextLogID:    1,
	}
}

func (s *fakeStore) fail(op string) error {
	return s.failOn[op]
}

type storeSnapshot struct {
	events       map[int]*models.Event
	registration map[int]*models.Registration
	matches      map[int]*models.Match
	participants map[int][]*models.MatchParticipant
	logs         []*models.GameLog
	nextRegID    int
	nextMatchID  int
	nextPartID   int
	nextLogID    int
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		events:       make(map[int]*models.Event, len(s.events)),
		registration: make(map[int]*models.Registration, len(s.registration)),
		matches:      make(map[int]*models.Match, len(s.matches)),
		participants: make(map[int][]*models.MatchParticipant, len(s.participants)),
		logs:         make([]*models.GameLog, len(s.logs)),
		nextRegID:    s.nextRegID,
		nextMatchID:  s.nextMatchID,
		nextPartID:   s.nextPartID,
		nextLogID:    s.nextLogID,
	}
	for id, e := range s.events {
		c := *e
		snap.events[id] = &c
	}
	for id, r := range s.registration {
		c := *r
		snap.registration[id] = &c
	}
	for id, m := range s.matches {
		c := *m
		snap.matches[id] = &c
	}
	for id, parts := range s.participants {
		cp := make([]*models.MatchParticipant, len(parts))
		for i, p := range parts {
			c := *p
			cp[i] = &c
		}
		snap.participants[id] = cp
	}
	for i, l := range s.logs {
		c := *l
		snap.logs[i] = &c
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.events = snap.events
	s.registration = snap.registration
	s.matches = snap.matches
	s.participants = snap.participants
	s.logs = snap.logs
	s.nextRegID = snap.nextRegID
	s.nextMatchID = snap.nextMatchID
	s.nextPartID = snap.nextPartID
	s.nextLogID = snap.nextLogID
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(nil); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *fakeStore) addEvent(e models.Event) *models.Event {
	c := e
	s.events[c.ID] = &c
	return &c
}

func (s *fakeStore) addRegistration(r models.Registration) *models.Registration {
	c := r
	if c.ID == 0 {
		c.ID = s.nextRegID
	}
	if c.ID >= s.nextRegID {
		s.nextRegID = c.ID + 1
	}
	if c.RegistrationDate.IsZero() {
		c.RegistrationDate = time.Now()
	}
	s.registration[c.ID] = &c
	return &c
}

func (s *fakeStore) addMatch(m models.Match, sides []models.ParticipantRef) *models.Match {
	c := m
	if c.ID == 0 {
		c.ID = s.nextMatchID
	}
	if c.ID >= s.nextMatchID {
		s.nextMatchID = c.ID + 1
	}
	if c.Status == "" {
		c.Status = models.MatchScheduled
	}
	s.matches[c.ID] = &c
	for _, ref := range sides {
		s.participants[c.ID] = append(s.participants[c.ID], &models.MatchParticipant{
			ID:       s.nextPartID,
			MatchID:  c.ID,
			PlayerID: ref.PlayerID,
			TeamID:   ref.TeamID,
		})
		s.nextPartID++
	}
	return &c
}

// --- EventRepository ---

type fakeEventRepo struct{ s *fakeStore }

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.s.addEvent(*event)
	return nil
}

func (r *fakeEventRepo) getEvent(id int) (*models.Event, error) {
	e, ok := r.s.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	c := *e
	return &c, nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	return r.getEvent(id)
}

func (r *fakeEventRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Event, error) {
	return r.getEvent(id)
}

func (r *fakeEventRepo) List(ctx context.Context, filter repositories.ListEventsFilter) ([]*models.Event, error) {
	out := make([]*models.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, id int, upd models.EventUpdate) error {
	e, ok := r.s.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Status != nil {
		e.Status = *upd.Status
	}
	if upd.StartDate != nil {
		e.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		e.EndDate = *upd.EndDate
	}
	return nil
}

func (r *fakeEventRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	e, ok := r.s.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.LogoKey = logoKey
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.s.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.s.events, id)
	return nil
}

// --- RegistrationRepository ---

type fakeRegRepo struct{ s *fakeStore }

func (r *fakeRegRepo) Create(ctx context.Context, exec repositories.SQLExecutor, reg *models.Registration) error {
	if err := r.s.fail("registration.create"); err != nil {
		return err
	}
	created := r.s.addRegistration(*reg)
	*reg = *created
	return nil
}

func (r *fakeRegRepo) getReg(id int) (*models.Registration, error) {
	reg, ok := r.s.registration[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	c := *reg
	return &c, nil
}

func (r *fakeRegRepo) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	return r.getReg(id)
}

func (r *fakeRegRepo) GetByIDExec(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Registration, error) {
	return r.getReg(id)
}

func (r *fakeRegRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Registration, error) {
	return r.getReg(id)
}

func (r *fakeRegRepo) CountByEventAndStatus(ctx context.Context, exec repositories.SQLExecutor, eventID int, status models.RegistrationStatus) (int, error) {
	count := 0
	for _, reg := range r.s.registration {
		if reg.EventID == eventID && reg.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegRepo) FindActive(ctx context.Context, exec repositories.SQLExecutor, eventID int, ref models.ParticipantRef) (*models.Registration, error) {
	for _, reg := range r.s.registration {
		if reg.EventID == eventID && reg.Status != models.RegistrationCancelled && ref.Matches(reg.PlayerID, reg.TeamID) {
			c := *reg
			return &c, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegRepo) OldestWaitlisted(ctx context.Context, exec repositories.SQLExecutor, eventID int) (*models.Registration, error) {
	var oldest *models.Registration
	for _, reg := range r.s.registration {
		if reg.EventID != eventID || reg.Status != models.RegistrationWaitlisted {
			continue
		}
		if oldest == nil ||
			reg.RegistrationDate.Before(oldest.RegistrationDate) ||
			(reg.RegistrationDate.Equal(oldest.RegistrationDate) && reg.ID < oldest.ID) {
			oldest = reg
		}
	}
	if oldest == nil {
		return nil, nil
	}
	c := *oldest
	return &c, nil
}

func (r *fakeRegRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.RegistrationStatus) error {
	if err := r.s.fail("registration.updateStatus"); err != nil {
		return err
	}
	reg, ok := r.s.registration[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.Status = status
	return nil
}

func (r *fakeRegRepo) UpdatePayment(ctx context.Context, id int, paymentStatus string) error {
	reg, ok := r.s.registration[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.PaymentStatus = paymentStatus
	return nil
}

func (r *fakeRegRepo) List(ctx context.Context, filter repositories.ListRegistrationsFilter) ([]*models.Registration, error) {
	out := []*models.Registration{}
	for _, reg := range r.s.registration {
		if filter.EventID != nil && reg.EventID != *filter.EventID {
			continue
		}
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		if filter.PlayerID != nil && (reg.PlayerID == nil || *reg.PlayerID != *filter.PlayerID) {
			continue
		}
		if filter.TeamID != nil && (reg.TeamID == nil || *reg.TeamID != *filter.TeamID) {
			continue
		}
		c := *reg
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRegRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.s.registration[id]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(r.s.registration, id)
	return nil
}

// --- MatchRepository ---

type fakeMatchRepo struct{ s *fakeStore }

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match, sides [2]models.ParticipantRef) error {
	created := r.s.addMatch(*m, sides[:])
	*m = *created
	return nil
}

func (r *fakeMatchRepo) getMatch(id int) (*models.Match, error) {
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	c := *m
	return &c, nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return r.getMatch(id)
}

func (r *fakeMatchRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.getMatch(id)
}

func (r *fakeMatchRepo) listParts(matchID int) []*models.MatchParticipant {
	parts := r.s.participants[matchID]
	out := make([]*models.MatchParticipant, len(parts))
	for i, p := range parts {
		c := *p
		out[i] = &c
	}
	return out
}

func (r *fakeMatchRepo) ListParticipantsForUpdate(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*models.MatchParticipant, error) {
	return r.listParts(matchID), nil
}

func (r *fakeMatchRepo) ListParticipants(ctx context.Context, matchID int) ([]*models.MatchParticipant, error) {
	return r.listParts(matchID), nil
}

func (r *fakeMatchRepo) UpdateParticipantResult(ctx context.Context, exec repositories.SQLExecutor, matchID int, ref models.ParticipantRef, score int, result models.MatchResult) error {
	if err := r.s.fail("match.updateParticipantResult"); err != nil {
		return err
	}
	for _, p := range r.s.participants[matchID] {
		if ref.Matches(p.PlayerID, p.TeamID) {
			sc := score
			res := result
			p.Score = &sc
			p.Result = &res
			return nil
		}
	}
	return repositories.ErrMatchParticipantNotFound
}

func (r *fakeMatchRepo) CompleteMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int, winnerID *int) error {
	if err := r.s.fail("match.complete"); err != nil {
		return err
	}
	m, ok := r.s.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = models.MatchCompleted
	m.WinnerID = winnerID
	return nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, id int, upd models.MatchUpdate) error {
	m, ok := r.s.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if upd.RoundName != nil {
		m.RoundName = upd.RoundName
	}
	if upd.MatchDate != nil {
		m.MatchDate = upd.MatchDate
	}
	if upd.MatchTime != nil {
		m.MatchTime = upd.MatchTime
	}
	if upd.VenueID != nil {
		m.VenueID = upd.VenueID
	}
	return nil
}

func (r *fakeMatchRepo) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]*models.Match, error) {
	out := []*models.Match{}
	for _, m := range r.s.matches {
		if filter.EventID != nil && m.EventID != *filter.EventID {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.s.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.s.matches, id)
	delete(r.s.participants, id)
	return nil
}

// --- GameLogRepository ---

type fakeLogRepo struct{ s *fakeStore }

func (r *fakeLogRepo) Create(ctx context.Context, exec repositories.SQLExecutor, log *models.GameLog) error {
	if err := r.s.fail("gamelog.create"); err != nil {
		return err
	}
	c := *log
	c.ID = r.s.nextLogID
	r.s.nextLogID++
	c.LoggedAt = time.Now()
	r.s.logs = append(r.s.logs, &c)
	*log = c
	return nil
}

func (r *fakeLogRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.GameLog, error) {
	out := []*models.GameLog{}
	for _, l := range r.s.logs {
		if l.MatchID == matchID {
			c := *l
			out = append(out, &c)
		}
	}
	return out, nil
}
