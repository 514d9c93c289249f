package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avoronin/shopsync/internal/api"
	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/models"
)

// AdminUsers is the back-office user list.
type AdminUsers struct {
	lifecycle
	client *api.Client

	userList []models.User
}

func NewAdminUsers(client *api.Client) *AdminUsers {
	return &AdminUsers{client: client}
}

type AdminUsersSnapshot struct {
	UserList  []models.User
	IsLoading bool
	Err       string
}

func (s *AdminUsers) Snapshot() AdminUsersSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.User, len(s.userList))
	copy(list, s.userList)
	return AdminUsersSnapshot{UserList: list, IsLoading: s.isLoading, Err: s.err}
}

func (s *AdminUsers) FetchAll(ctx context.Context) error {
	s.pending(true)

	var resp struct {
		Users []models.User `json:"users"`
	}
	if err := s.client.DoEnvelope(ctx, http.MethodGet, "/api/admin/users", nil, &resp); err != nil {
		logging.FromContext(ctx).Error("admin_fetch_users_failed", "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to fetch users"), func() {
			s.userList = nil
		})
		return err
	}

	s.fulfilled(func() { s.userList = resp.Users })
	return nil
}

// UpdateStatus changes a user's account status (e.g. active/blocked) and
// patches the list entry in place.
func (s *AdminUsers) UpdateStatus(ctx context.Context, userID, status string) error {
	if userID == "" {
		return fmt.Errorf("user id required: %w", ErrValidation)
	}
	s.pending(true)

	body := map[string]string{"status": status}
	var updated models.User
	if err := s.client.Put(ctx, "/api/admin/users/"+userID, body, &updated); err != nil {
		logging.FromContext(ctx).Error("admin_update_user_failed", "user_id", userID, "error", err)
		s.rejected(api.ErrorMessage(err, "Failed to update user status"), nil)
		return err
	}

	s.fulfilled(func() {
		for i, u := range s.userList {
			if u.ID == updated.ID {
				s.userList[i] = updated
				break
			}
		}
	})
	return nil
}
