package services

import (
	"sync"
	"time"

	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

type userNotification struct {
	recipient uint
	payload   notify.Payload
}

type roleNotification struct {
	role    string
	payload notify.Payload
	exclude []uint
}

type recordingNotifier struct {
	mu    sync.Mutex
	users []userNotification
	roles []roleNotification
}

func (n *recordingNotifier) NotifyUser(recipientID uint, p notify.Payload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userNotification{recipientID, p})
}

func (n *recordingNotifier) NotifyRole(role string, p notify.Payload, exclude ...uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.roles = append(n.roles, roleNotification{role, p, exclude})
}

func (n *recordingNotifier) toUser(id uint) []notify.Payload {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Payload
	for _, u := range n.users {
		if u.recipient == id {
			out = append(out, u.payload)
		}
	}
	return out
}

type emitted struct {
	userID uint
	event  string
	data   interface{}
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (e *recordingEmitter) EmitToUser(userID uint, event string, data interface{}) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emitted{userID, event, data})
	return true
}

func employer(id uint) types.AuthenticatedUser {
	return types.AuthenticatedUser{ID: id, Name: "Acme Recruiter", Role: types.RoleEmployer, Status: types.UserStatusActive}
}

func candidate(id uint) types.AuthenticatedUser {
	return types.AuthenticatedUser{ID: id, Name: "Dana", Role: types.RoleCandidate, Status: types.UserStatusActive}
}

func admin(id uint) types.AuthenticatedUser {
	return types.AuthenticatedUser{ID: id, Name: "Root", Role: types.RoleAdmin, Status: types.UserStatusActive}
}
