package lending

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/reader"
)

var (
	_ Repository   = lendingRepo{}
	_ BookLocker   = (*mockStore)(nil)
	_ ReaderFinder = (*mockStore)(nil)
)

// mockStore 内存实现,模拟数据库的唯一约束
type mockStore struct {
	books    map[uint]*book.Book
	readers  map[uint]*reader.Reader
	lendings map[uint]*Lending
	nextID   uint
	locked   []uint
}

func newMockStore() *mockStore {
	return &mockStore{
		books:    make(map[uint]*book.Book),
		readers:  make(map[uint]*reader.Reader),
		lendings: make(map[uint]*Lending),
	}
}

func (m *mockStore) addBook(id uint) {
	m.books[id] = &book.Book{ID: id, Name: "Война и мир", Author: "Толстой Лев Николаевич", PublishingHouse: "Наука"}
}

func (m *mockStore) addReader(id uint) {
	m.readers[id] = &reader.Reader{ID: id, FirstName: "Иван", LastName: "Петров"}
}

func (m *mockStore) openCount(bookID uint) int {
	n := 0
	for _, l := range m.lendings {
		if l.BookID == bookID && l.ReturnDate == nil {
			n++
		}
	}
	return n
}

func (m *mockStore) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	m.locked = append(m.locked, id)
	return b, nil
}

func (m *mockStore) FindByID(ctx context.Context, id uint) (*reader.Reader, error) {
	r, ok := m.readers[id]
	if !ok {
		return nil, reader.ErrReaderNotFound
	}
	return r, nil
}

// lendingRepo 以Repository视角暴露mockStore(FindByID签名冲突)
type lendingRepo struct{ *mockStore }

func (m *mockStore) checkConstraints(l *Lending) error {
	for _, other := range m.lendings {
		if other.ID == l.ID {
			continue
		}
		if l.ReturnDate == nil && other.ReturnDate == nil && other.BookID == l.BookID {
			return ErrBookAlreadyLent
		}
		if other.ReaderID == l.ReaderID && other.BookID == l.BookID && other.DateOfIssue.Equal(l.DateOfIssue) {
			return ErrLendingDuplicate
		}
	}
	return nil
}

func (r lendingRepo) Create(ctx context.Context, l *Lending) error {
	if err := r.checkConstraints(l); err != nil {
		return err
	}
	r.nextID++
	l.ID = r.nextID
	cp := *l
	r.lendings[l.ID] = &cp
	return nil
}

func (r lendingRepo) FindByID(ctx context.Context, id uint) (*Lending, error) {
	l, ok := r.lendings[id]
	if !ok {
		return nil, ErrLendingNotFound
	}
	cp := *l
	return &cp, nil
}

func (r lendingRepo) Update(ctx context.Context, l *Lending) error {
	if _, ok := r.lendings[l.ID]; !ok {
		return ErrLendingNotFound
	}
	if err := r.checkConstraints(l); err != nil {
		return err
	}
	cp := *l
	r.lendings[l.ID] = &cp
	return nil
}

func (r lendingRepo) Delete(ctx context.Context, id uint) error {
	delete(r.lendings, id)
	return nil
}

func (r lendingRepo) FindOpenByBookID(ctx context.Context, bookID uint) (*Lending, error) {
	for _, l := range r.lendings {
		if l.BookID == bookID && l.ReturnDate == nil {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r lendingRepo) ExistsOpenByBookID(ctx context.Context, bookID uint) (bool, error) {
	return r.openCount(bookID) > 0, nil
}

func (r lendingRepo) ExistsOpenByReaderID(ctx context.Context, readerID uint) (bool, error) {
	for _, l := range r.lendings {
		if l.ReaderID == readerID && l.ReturnDate == nil {
			return true, nil
		}
	}
	return false, nil
}

func (r lendingRepo) filter(pred func(*Lending) bool) []*Lending {
	var out []*Lending
	for _, l := range r.lendings {
		if pred(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r lendingRepo) List(ctx context.Context, params ListParams) ([]*Lending, int64, error) {
	all := r.filter(func(*Lending) bool { return true })
	return all, int64(len(all)), nil
}

func (r lendingRepo) ListOpen(ctx context.Context) ([]*Lending, error) {
	return r.filter(func(l *Lending) bool { return l.ReturnDate == nil }), nil
}

func (r lendingRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]*Lending, error) {
	return r.filter(func(l *Lending) bool { return l.ReturnDate == nil && l.DateOfDue.Before(asOf) }), nil
}

func (r lendingRepo) ListByReader(ctx context.Context, readerID uint) ([]*Lending, error) {
	return r.filter(func(l *Lending) bool { return l.ReaderID == readerID }), nil
}

func (r lendingRepo) ListIssuedBetween(ctx context.Context, from, to time.Time) ([]*Lending, error) {
	return r.filter(func(l *Lending) bool {
		return !l.DateOfIssue.Before(from) && !l.DateOfIssue.After(to)
	}), nil
}
