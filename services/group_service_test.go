package services

import (
	"context"
	"testing"

	apperrors "pipsplit-backend/errors"
	"pipsplit-backend/models"
)

func newTestGroupService(memberRepo *mockMemberRepo) GroupService {
	return NewGroupService(
		&mockGroupRepo{isMember: true},
		memberRepo,
		&mockCategoryRepo{},
		&fakeTxRunner{},
	)
}

func TestCreateGroupValidation(t *testing.T) {
	s := newTestGroupService(&mockMemberRepo{})

	tests := []struct {
		name     string
		group    models.Group
		creator  string
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "Name Too Short",
			group:    models.Group{Name: "x", CurrencyCode: "USD"},
			creator:  "Alice",
			wantCode: apperrors.CodeInvalidFieldFormat,
		},
		{
			name:     "Unsupported Currency",
			group:    models.Group{Name: "Trip", CurrencyCode: "XYZ"},
			creator:  "Alice",
			wantCode: apperrors.CodeUnsupportedCurrency,
		},
		{
			name:     "Missing Display Name",
			group:    models.Group{Name: "Trip", CurrencyCode: "USD"},
			creator:  "",
			wantCode: apperrors.CodeMissingRequiredField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := tt.group
			_, err := s.Create(context.Background(), "user-1", tt.creator, &group)
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != tt.wantCode {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestCreateGroupAddsAdminMember(t *testing.T) {
	memberRepo := &mockMemberRepo{}
	s := newTestGroupService(memberRepo)

	group := models.Group{Name: "Beach House", CurrencyCode: "USD"}
	_, err := s.Create(context.Background(), "user-1", "Alice", &group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(memberRepo.created) != 1 {
		t.Fatalf("expected 1 member created, got %d", len(memberRepo.created))
	}
	admin := memberRepo.created[0]
	if !admin.GroupAdmin {
		t.Error("creating member must be the group admin")
	}
	if admin.UserID == nil || *admin.UserID != "user-1" {
		t.Error("admin member must be linked to the creating user")
	}
	if admin.DisplayName != "Alice" {
		t.Errorf("admin display name: got %s, want Alice", admin.DisplayName)
	}
}
