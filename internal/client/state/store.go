package state

import (
	"sync"
)

// Snapshot is the whole client state at one instant.
type Snapshot struct {
	IssueList     IssueList
	UserList      UserList
	AdminProfile  ProfileState
	UserProfile   ProfileState
	ProfileUpdate ProfileUpdate
	ReportSubmit  ReportSubmit
	MyComplaints  MyComplaints
}

// Reduce routes ev through every slice reducer. Slices ignore actions they
// do not own.
func Reduce(s Snapshot, ev Event) Snapshot {
	s.IssueList = ReduceIssueList(s.IssueList, ev)
	s.UserList = ReduceUserList(s.UserList, ev)
	s.AdminProfile = ReduceAdminProfile(s.AdminProfile, ev)
	s.UserProfile = ReduceUserProfile(s.UserProfile, ev)
	s.ProfileUpdate = ReduceProfileUpdate(s.ProfileUpdate, ev)
	s.ReportSubmit = ReduceReportSubmit(s.ReportSubmit, ev)
	s.MyComplaints = ReduceMyComplaints(s.MyComplaints, ev)
	return s
}

// Store serializes dispatches and fans snapshots out to subscribers.
type Store struct {
	mu     sync.Mutex
	snap   Snapshot
	epochs map[Action]uint64
	subs   map[int]chan Snapshot
	nextID int
}

func NewStore() *Store {
	return &Store{
		epochs: make(map[Action]uint64),
		subs:   make(map[int]chan Snapshot),
	}
}

// Begin issues the next epoch for action and dispatches its Pending event
// under one lock, so Pending events reach the reducers in epoch order.
func (s *Store) Begin(action Action) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs[action]++
	epoch := s.epochs[action]
	s.apply(Event{Action: action, Outcome: Pending, Epoch: epoch})
	return epoch
}

func (s *Store) Dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(ev)
}

func (s *Store) apply(ev Event) {
	// Reducers fence the reset actions one epoch ahead; skip it here too.
	for _, a := range resetScope[ev.Action] {
		s.epochs[a]++
	}

	s.snap = Reduce(s.snap, ev)
	for _, ch := range s.subs {
		publish(ch, s.snap)
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe delivers the latest snapshot after each dispatch. Slow readers
// only ever see the newest one. cancel closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func publish(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
