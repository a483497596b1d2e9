package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/RomanCsn/workshop-DFS/internal/domain/billing"
	"github.com/RomanCsn/workshop-DFS/internal/domain/horse"
	"github.com/RomanCsn/workshop-DFS/internal/domain/lesson"
	"github.com/RomanCsn/workshop-DFS/internal/domain/performed"
	"github.com/RomanCsn/workshop-DFS/internal/domain/user"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

const (
	uuidA = "11111111-1111-4111-8111-111111111111"
	uuidB = "22222222-2222-4222-8222-222222222222"
	uuidC = "33333333-3333-4333-8333-333333333333"
	uuidD = "44444444-4444-4444-8444-444444444444"
)

func init() {
	gin.SetMode(gin.TestMode)
	validators.Register()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
	Errors  json.RawMessage `json:"errors"`
}

func do(t *testing.T, r http.Handler, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// ------------------------------------------------------
// lessons
// ------------------------------------------------------

type fakeLessons struct {
	rows  map[string]*models.Lesson
	err   error
	calls []string
	seq   int

	lastTake, lastSkip int
	lastStatus         lesson.Status
}

func newFakeLessons() *fakeLessons {
	return &fakeLessons{rows: map[string]*models.Lesson{}}
}

func (f *fakeLessons) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeLessons) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeLessons) CreateLesson(_ context.Context, l *models.Lesson) (*models.Lesson, error) {
	if err := f.record("CreateLesson"); err != nil {
		return nil, err
	}
	f.seq++
	cp := *l
	cp.ID = fmt.Sprintf("aaaaaaaa-0000-4000-8000-%012d", f.seq)
	f.rows[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeLessons) list(take, skip int) []models.Lesson {
	f.lastTake, f.lastSkip = take, skip
	out := []models.Lesson{}
	for _, l := range f.rows {
		out = append(out, *l)
	}
	return out
}

func (f *fakeLessons) GetAllLessons(_ context.Context, take, skip int) ([]models.Lesson, error) {
	if err := f.record("GetAllLessons"); err != nil {
		return nil, err
	}
	return f.list(take, skip), nil
}

func (f *fakeLessons) GetLessonByID(_ context.Context, id string) (*models.Lesson, error) {
	if err := f.record("GetLessonByID"); err != nil {
		return nil, err
	}
	return f.rows[id], nil
}

func (f *fakeLessons) UpdateLesson(_ context.Context, id string, p lesson.Patch) (*models.Lesson, error) {
	if err := f.record("UpdateLesson"); err != nil {
		return nil, err
	}
	l, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	if p.Desc != nil {
		l.Desc = *p.Desc
	}
	return l, nil
}

func (f *fakeLessons) DeleteLesson(_ context.Context, id string) (*models.Lesson, error) {
	if err := f.record("DeleteLesson"); err != nil {
		return nil, err
	}
	l, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	delete(f.rows, id)
	return l, nil
}

func (f *fakeLessons) GetLessonsByStatus(_ context.Context, s lesson.Status, take, skip int) ([]models.Lesson, error) {
	if err := f.record("GetLessonsByStatus"); err != nil {
		return nil, err
	}
	f.lastStatus = s
	return f.list(take, skip), nil
}

func (f *fakeLessons) GetLessonsByDateRange(_ context.Context, _, _ time.Time, take, skip int) ([]models.Lesson, error) {
	if err := f.record("GetLessonsByDateRange"); err != nil {
		return nil, err
	}
	return f.list(take, skip), nil
}

func (f *fakeLessons) GetLessonsByCustomerID(_ context.Context, _ string, take, skip int) ([]models.Lesson, error) {
	if err := f.record("GetLessonsByCustomerID"); err != nil {
		return nil, err
	}
	return f.list(take, skip), nil
}

func (f *fakeLessons) GetLessonsByMonitorID(_ context.Context, _ string, take, skip int) ([]models.Lesson, error) {
	if err := f.record("GetLessonsByMonitorID"); err != nil {
		return nil, err
	}
	return f.list(take, skip), nil
}

func (f *fakeLessons) UpdateLessonStatus(_ context.Context, id string, s lesson.Status) (*models.Lesson, error) {
	if err := f.record("UpdateLessonStatus"); err != nil {
		return nil, err
	}
	l, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	l.Status = string(s)
	f.lastStatus = s
	return l, nil
}

var _ lesson.Repository = (*fakeLessons)(nil)

// ------------------------------------------------------
// billing
// ------------------------------------------------------

type fakeBillings struct {
	rows  map[string]*models.Billing
	err   error
	calls []string
}

func newFakeBillings() *fakeBillings {
	return &fakeBillings{rows: map[string]*models.Billing{}}
}

func (f *fakeBillings) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeBillings) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeBillings) CreateBilling(_ context.Context, b *models.Billing) (*models.Billing, error) {
	if err := f.record("CreateBilling"); err != nil {
		return nil, err
	}
	cp := *b
	cp.ID = uuidD
	f.rows[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeBillings) all() []models.Billing {
	out := []models.Billing{}
	for _, b := range f.rows {
		out = append(out, *b)
	}
	return out
}

func (f *fakeBillings) GetAllBillings(context.Context, int, int) ([]models.Billing, error) {
	if err := f.record("GetAllBillings"); err != nil {
		return nil, err
	}
	return f.all(), nil
}

func (f *fakeBillings) GetBillingByID(_ context.Context, id string) (*models.Billing, error) {
	if err := f.record("GetBillingByID"); err != nil {
		return nil, err
	}
	return f.rows[id], nil
}

func (f *fakeBillings) GetBillingWithServices(_ context.Context, id string) (*models.Billing, error) {
	if err := f.record("GetBillingWithServices"); err != nil {
		return nil, err
	}
	return f.rows[id], nil
}

func (f *fakeBillings) UpdateBilling(_ context.Context, id string, p billing.Patch) (*models.Billing, error) {
	if err := f.record("UpdateBilling"); err != nil {
		return nil, err
	}
	b, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	if p.Situation != nil {
		b.Situation = string(*p.Situation)
	}
	if p.Date != nil {
		b.Date = *p.Date
	}
	return b, nil
}

func (f *fakeBillings) DeleteBilling(_ context.Context, id string) (*models.Billing, error) {
	if err := f.record("DeleteBilling"); err != nil {
		return nil, err
	}
	b, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	delete(f.rows, id)
	return b, nil
}

func (f *fakeBillings) GetBillingsByDateRange(context.Context, time.Time, time.Time, int, int) ([]models.Billing, error) {
	if err := f.record("GetBillingsByDateRange"); err != nil {
		return nil, err
	}
	return f.all(), nil
}

func (f *fakeBillings) GetBillingsByUserID(context.Context, string, int, int) ([]models.Billing, error) {
	if err := f.record("GetBillingsByUserID"); err != nil {
		return nil, err
	}
	return f.all(), nil
}

func (f *fakeBillings) GetBillingCount(context.Context) (int64, error) {
	if err := f.record("GetBillingCount"); err != nil {
		return 0, err
	}
	return int64(len(f.rows)), nil
}

var _ billing.Repository = (*fakeBillings)(nil)

// ------------------------------------------------------
// performed services
// ------------------------------------------------------

type fakeServices struct {
	rows  map[string]*models.PerformedService
	err   error
	calls []string

	lastTake, lastSkip int
}

func newFakeServices() *fakeServices {
	return &fakeServices{rows: map[string]*models.PerformedService{}}
}

func (f *fakeServices) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeServices) CreatePerformedService(_ context.Context, s *models.PerformedService) (*models.PerformedService, error) {
	if err := f.record("CreatePerformedService"); err != nil {
		return nil, err
	}
	cp := *s
	cp.ID = uuidC
	f.rows[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeServices) CreatePerformedServiceWithBilling(_ context.Context, s *models.PerformedService) (*models.PerformedService, error) {
	if err := f.record("CreatePerformedServiceWithBilling"); err != nil {
		return nil, err
	}
	cp := *s
	cp.ID = uuidC
	cp.BillingID = uuidD
	f.rows[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeServices) GetAllPerformedServices(_ context.Context, take, skip int) ([]models.PerformedService, error) {
	if err := f.record("GetAllPerformedServices"); err != nil {
		return nil, err
	}
	f.lastTake, f.lastSkip = take, skip
	out := []models.PerformedService{}
	for _, s := range f.rows {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeServices) GetPerformedServiceByID(_ context.Context, id string) (*models.PerformedService, error) {
	if err := f.record("GetPerformedServiceByID"); err != nil {
		return nil, err
	}
	return f.rows[id], nil
}

func (f *fakeServices) UpdatePerformedService(_ context.Context, id string, p performed.Patch) (*models.PerformedService, error) {
	if err := f.record("UpdatePerformedService"); err != nil {
		return nil, err
	}
	s, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	return s, nil
}

func (f *fakeServices) DeletePerformedService(_ context.Context, id string) (*models.PerformedService, error) {
	if err := f.record("DeletePerformedService"); err != nil {
		return nil, err
	}
	s, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	delete(f.rows, id)
	return s, nil
}

var _ performed.Repository = (*fakeServices)(nil)

// ------------------------------------------------------
// horses
// ------------------------------------------------------

type fakeHorses struct {
	rows  map[string]*models.Horse
	err   error
	seq   int
	calls []string
}

func newFakeHorses() *fakeHorses {
	return &fakeHorses{rows: map[string]*models.Horse{}, seq: 6}
}

func (f *fakeHorses) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeHorses) ListHorsesByOwner(_ context.Context, ownerID string) ([]models.Horse, error) {
	if err := f.record("ListHorsesByOwner"); err != nil {
		return nil, err
	}
	out := []models.Horse{}
	for _, h := range f.rows {
		if h.OwnerID == ownerID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeHorses) GetHorseByID(_ context.Context, id string) (*models.Horse, error) {
	if err := f.record("GetHorseByID"); err != nil {
		return nil, err
	}
	return f.rows[id], nil
}

func (f *fakeHorses) CreateHorse(_ context.Context, h *models.Horse) (*models.Horse, error) {
	if err := f.record("CreateHorse"); err != nil {
		return nil, err
	}
	f.seq++
	cp := *h
	cp.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", f.seq)
	f.rows[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeHorses) UpdateHorse(_ context.Context, id string, p horse.Patch) (*models.Horse, error) {
	if err := f.record("UpdateHorse"); err != nil {
		return nil, err
	}
	h, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	return h, nil
}

func (f *fakeHorses) DeleteHorse(_ context.Context, id string) (*models.Horse, error) {
	if err := f.record("DeleteHorse"); err != nil {
		return nil, err
	}
	h, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	delete(f.rows, id)
	return h, nil
}

func (f *fakeHorses) SetHorsePhoto(_ context.Context, id, key string) (*models.Horse, error) {
	if err := f.record("SetHorsePhoto"); err != nil {
		return nil, err
	}
	h, ok := f.rows[id]
	if !ok {
		return nil, httperr.ErrNotFound
	}
	h.PhotoKey = key
	return h, nil
}

var _ horse.Repository = (*fakeHorses)(nil)

// ------------------------------------------------------
// users
// ------------------------------------------------------

type fakeUsers struct {
	summaries []models.UserSummary
	total     int64
	recent    int64
	since     *time.Time

	lastRole           user.Role
	lastTake, lastSkip int
}

func (f *fakeUsers) ListUsersByRole(_ context.Context, role user.Role, take, skip int) ([]models.UserSummary, error) {
	f.lastRole, f.lastTake, f.lastSkip = role, take, skip
	return f.summaries, nil
}

func (f *fakeUsers) CountCustomers(_ context.Context, since *time.Time) (int64, error) {
	if since == nil {
		return f.total, nil
	}
	f.since = since
	return f.recent, nil
}

func (f *fakeUsers) GetUserByID(context.Context, string) (*models.User, error) {
	return nil, nil
}

var _ user.Repository = (*fakeUsers)(nil)

func jsonUnmarshal(raw json.RawMessage, v any) error {
	return json.Unmarshal(raw, v)
}

func newRequest(method, target string) (*http.Request, *httptest.ResponseRecorder) {
	return httptest.NewRequest(method, target, nil), httptest.NewRecorder()
}
