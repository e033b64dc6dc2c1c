package notices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
)

type memoryNoticeStore struct {
	nextCategoryID int64
	nextNoticeID   int64
	categories     map[int64]model.NoticeCategory
	notices        map[int64]model.Notice
}

func newMemoryNoticeStore() *memoryNoticeStore {
	return &memoryNoticeStore{
		nextCategoryID: 1,
		nextNoticeID:   1,
		categories:     map[int64]model.NoticeCategory{},
		notices:        map[int64]model.Notice{},
	}
}

func (m *memoryNoticeStore) ListCategories(_ context.Context) ([]model.NoticeCategory, error) {
	out := make([]model.NoticeCategory, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memoryNoticeStore) CreateCategory(_ context.Context, category model.NoticeCategory) (model.NoticeCategory, error) {
	category.ID = m.nextCategoryID
	m.nextCategoryID++
	m.categories[category.ID] = category
	return category, nil
}

func (m *memoryNoticeStore) UpdateCategory(_ context.Context, category model.NoticeCategory) (model.NoticeCategory, error) {
	current, ok := m.categories[category.ID]
	if !ok {
		return model.NoticeCategory{}, ErrNotFound
	}
	current.Name = category.Name
	m.categories[category.ID] = current
	return current, nil
}

func (m *memoryNoticeStore) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memoryNoticeStore) CategoryHasNotices(_ context.Context, id int64) (bool, error) {
	for _, n := range m.notices {
		if n.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryNoticeStore) ListNotices(_ context.Context, categoryID int64, publishedOnly bool) ([]model.Notice, error) {
	out := []model.Notice{}
	for _, n := range m.notices {
		if categoryID != 0 && n.CategoryID != categoryID {
			continue
		}
		if publishedOnly && n.PublishedAt == nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memoryNoticeStore) GetNotice(_ context.Context, id int64) (model.Notice, error) {
	n, ok := m.notices[id]
	if !ok {
		return model.Notice{}, ErrNotFound
	}
	return n, nil
}

func (m *memoryNoticeStore) CreateNotice(_ context.Context, notice model.Notice) (model.Notice, error) {
	if _, ok := m.categories[notice.CategoryID]; !ok {
		return model.Notice{}, ErrNotFound
	}
	notice.ID = m.nextNoticeID
	m.nextNoticeID++
	m.notices[notice.ID] = notice
	return notice, nil
}

func (m *memoryNoticeStore) UpdateNotice(_ context.Context, notice model.Notice) (model.Notice, error) {
	if _, ok := m.notices[notice.ID]; !ok {
		return model.Notice{}, ErrNotFound
	}
	if _, ok := m.categories[notice.CategoryID]; !ok {
		return model.Notice{}, ErrNotFound
	}
	m.notices[notice.ID] = notice
	return notice, nil
}

func (m *memoryNoticeStore) DeleteNotice(_ context.Context, id int64) error {
	if _, ok := m.notices[id]; !ok {
		return ErrNotFound
	}
	delete(m.notices, id)
	return nil
}

func newNoticesServiceForTest() (*Service, *memoryNoticeStore) {
	store := newMemoryNoticeStore()
	svc := NewService(store, store)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func TestCategoryDeleteBlockedWhileNoticesExist(t *testing.T) {
	svc, _ := newNoticesServiceForTest()
	ctx := context.Background()

	exams, err := svc.CreateCategory(ctx, "Exams")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	notice, err := svc.CreateNotice(ctx, model.Notice{
		CategoryID: exams.ID,
		Title:      "End-sem schedule",
		Body:       "Exams start on May 4.",
	}, true)
	if err != nil {
		t.Fatalf("create notice: %v", err)
	}

	if err := svc.DeleteCategory(ctx, exams.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("delete of referenced category: got %v, want ErrConflict", err)
	}

	if err := svc.DeleteNotice(ctx, notice.ID); err != nil {
		t.Fatalf("delete notice: %v", err)
	}
	if err := svc.DeleteCategory(ctx, exams.ID); err != nil {
		t.Fatalf("delete of empty category: %v", err)
	}
}

func TestRenameCategory(t *testing.T) {
	svc, store := newNoticesServiceForTest()
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Exams")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	renamed, err := svc.UpdateCategory(ctx, cat.ID, "  Examinations ")
	if err != nil {
		t.Fatalf("rename category: %v", err)
	}
	if renamed.Name != "Examinations" {
		t.Fatalf("name not trimmed: %q", renamed.Name)
	}
	if got := store.categories[cat.ID].Name; got != "Examinations" {
		t.Fatalf("store not updated: %q", got)
	}

	if _, err := svc.UpdateCategory(ctx, cat.ID, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: got %v", err)
	}
	if _, err := svc.UpdateCategory(ctx, 99, "Ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing category: got %v", err)
	}
}

func TestCreateNoticePublishStampsTimestamp(t *testing.T) {
	svc, _ := newNoticesServiceForTest()
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "General")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	draft, err := svc.CreateNotice(ctx, model.Notice{CategoryID: cat.ID, Title: "Draft", Body: "pending"}, false)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if draft.PublishedAt != nil {
		t.Fatalf("draft must not carry a publish timestamp")
	}

	published, err := svc.CreateNotice(ctx, model.Notice{CategoryID: cat.ID, Title: "Live", Body: "now"}, true)
	if err != nil {
		t.Fatalf("create published: %v", err)
	}
	want := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if published.PublishedAt == nil || !published.PublishedAt.Equal(want) {
		t.Fatalf("published_at = %v, want %v", published.PublishedAt, want)
	}

	visible, err := svc.ListNotices(ctx, cat.ID, true)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != published.ID {
		t.Fatalf("published-only listing returned %d notices", len(visible))
	}
}

func TestUpdateNoticeKeepsOriginalPublishTime(t *testing.T) {
	svc, store := newNoticesServiceForTest()
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Events")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	notice, err := svc.CreateNotice(ctx, model.Notice{CategoryID: cat.ID, Title: "Fest", Body: "soon"}, true)
	if err != nil {
		t.Fatalf("create notice: %v", err)
	}

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	notice.Body = "postponed"
	updated, err := svc.UpdateNotice(ctx, notice, true)
	if err != nil {
		t.Fatalf("update notice: %v", err)
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(first) {
		t.Fatalf("publish time must survive edits: got %v", updated.PublishedAt)
	}

	unpublished, err := svc.UpdateNotice(ctx, updated, false)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if unpublished.PublishedAt != nil {
		t.Fatalf("unpublish must clear the timestamp")
	}

	got, _ := store.GetNotice(ctx, notice.ID)
	if got.PublishedAt != nil {
		t.Fatalf("store still holds publish timestamp")
	}
}

func TestNoticeValidation(t *testing.T) {
	svc, _ := newNoticesServiceForTest()
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank category name: got %v", err)
	}
	if _, err := svc.CreateNotice(ctx, model.Notice{CategoryID: 1, Title: "", Body: "x"}, false); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank title: got %v", err)
	}
	if _, err := svc.CreateNotice(ctx, model.Notice{CategoryID: 99, Title: "t", Body: "b"}, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing category: got %v", err)
	}
}
