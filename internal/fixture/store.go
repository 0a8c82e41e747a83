package fixture

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type account struct {
	user         models.User
	passwordHash string
	roles        []string
	address      string
	bio          string
	verifyToken  string
}

// Store is the in-memory backing data of the fixture.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*account
	issues   []models.Issue
	nextUser int64
	nextID   int64
}

func NewStore() *Store {
	return &Store{accounts: make(map[string]*account)}
}

func (st *Store) addAccount(a *account) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	key := strings.ToLower(a.user.Email)
	if _, ok := st.accounts[key]; ok {
		return ErrAlreadyExists
	}
	st.nextUser++
	a.user.ID = st.nextUser
	st.accounts[key] = a
	return nil
}

func (st *Store) account(email string) (*account, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	a, ok := st.accounts[strings.ToLower(email)]
	return a, ok
}

func (st *Store) verify(token string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, a := range st.accounts {
		if a.verifyToken != "" && a.verifyToken == token {
			a.user.Verified = true
			a.verifyToken = ""
			return true
		}
	}
	return false
}

func (st *Store) updateProfile(email string, fn func(a *account)) (*account, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	a, ok := st.accounts[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	fn(a)
	return a, nil
}

func (st *Store) users(sortBy string) []models.User {
	st.mu.Lock()
	out := make([]models.User, 0, len(st.accounts))
	for _, a := range st.accounts {
		out = append(out, a.user)
	}
	st.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		switch sortBy {
		case "name":
			return out[i].Name < out[j].Name
		case "email":
			return out[i].Email < out[j].Email
		case "createdAt":
			return out[i].CreatedAt < out[j].CreatedAt
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out
}

// AddIssue stores is with a fresh id and returns it.
func (st *Store) AddIssue(is models.Issue) models.Issue {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.nextID++
	is.ID = st.nextID
	if is.Status == "" {
		is.Status = models.StatusPending
	}
	st.issues = append(st.issues, is)
	return is
}

func (st *Store) issue(id int64) (models.Issue, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, is := range st.issues {
		if is.ID == id {
			return is, true
		}
	}
	return models.Issue{}, false
}

func (st *Store) setStatus(id int64, status models.IssueStatus) (models.Issue, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i := range st.issues {
		if st.issues[i].ID == id {
			st.issues[i].Status = status
			return st.issues[i], true
		}
	}
	return models.Issue{}, false
}

func (st *Store) deleteIssue(id int64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := len(st.issues)
	st.issues = slices.DeleteFunc(st.issues, func(is models.Issue) bool { return is.ID == id })
	return len(st.issues) != n
}

// IssueFilter narrows the admin listing. Search matches title, description,
// name and location case-insensitively.
type IssueFilter struct {
	Search string
	Status models.IssueStatus
	SortBy string
	Email  string
}

func (st *Store) Issues(f IssueFilter) []models.Issue {
	st.mu.Lock()
	out := slices.Clone(st.issues)
	st.mu.Unlock()

	search := strings.ToLower(f.Search)
	out = slices.DeleteFunc(out, func(is models.Issue) bool {
		if f.Email != "" && !strings.EqualFold(is.Email, f.Email) {
			return true
		}
		if f.Status != "" && !strings.EqualFold(string(is.Status), string(f.Status)) {
			return true
		}
		if search == "" {
			return false
		}
		for _, field := range []string{is.Title, is.Description, is.Name, is.Location} {
			if strings.Contains(strings.ToLower(field), search) {
				return false
			}
		}
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		switch f.SortBy {
		case "title":
			return out[i].Title < out[j].Title
		case "id":
			return out[i].ID < out[j].ID
		default:
			if out[i].CreatedAt == out[j].CreatedAt {
				return out[i].ID > out[j].ID
			}
			return out[i].CreatedAt > out[j].CreatedAt
		}
	})
	return out
}

func paginate[T any](items []T, page, size int) models.Page[T] {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	start := min(page*size, total)
	end := min(start+size, total)

	content := make([]T, end-start)
	copy(content, items[start:end])
	return models.Page[T]{
		Content:       content,
		Number:        page,
		TotalPages:    totalPages,
		TotalElements: total,
	}
}
