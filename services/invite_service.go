// services/invite_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinvite/clinvite_backend/models"
	"github.com/clinvite/clinvite_backend/repositories"
	"github.com/clinvite/clinvite_backend/utils"
)

// InviteService records wallet invites and dispatches them over SMS. The
// invite row is written before the send so a delivery failure still leaves
// an auditable "failed" record.
type InviteService struct {
	invites  repositories.InviteRepository
	delivery Delivery
	clock    utils.Clock
}

func NewInviteService(invites repositories.InviteRepository, delivery Delivery, clock utils.Clock) *InviteService {
	return &InviteService{invites: invites, delivery: delivery, clock: clock}
}

// Create persists the invite and attempts delivery once. The returned
// invite's status reflects the outcome; delivery failure is not an error.
func (s *InviteService) Create(ctx context.Context, phone string, req models.CreateInviteRequest, invitedBy *uuid.UUID) (*models.WalletInvite, error) {
	now := s.clock.Now()
	invite := &models.WalletInvite{
		ID:          uuid.New(),
		PhoneNumber: phone,
		TrialID:     req.TrialID,
		LocaleID:    req.LocaleID,
		Status:      models.InviteStatusPending,
		InvitedBy:   invitedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("You have been invited to a clinical trial copay program. Your digital wallet card is ready for %s.", phone)
	if err := s.delivery.Send(ctx, phone, message); err != nil {
		invite.Status = models.InviteStatusFailed
		if uErr := s.invites.UpdateStatus(ctx, invite.ID, invite.Status, nil, s.clock.Now()); uErr != nil {
			return nil, uErr
		}
		return invite, nil
	}

	sentAt := s.clock.Now()
	invite.Status = models.InviteStatusSent
	invite.SentAt = &sentAt
	if err := s.invites.UpdateStatus(ctx, invite.ID, invite.Status, &sentAt, sentAt); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *InviteService) List(ctx context.Context, limit, offset int) ([]models.WalletInvite, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.invites.List(ctx, limit, offset)
}
