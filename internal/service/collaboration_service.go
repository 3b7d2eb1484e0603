package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/common"
	"github.com/sunsetmemories/backend/internal/domain"
	"github.com/sunsetmemories/backend/internal/repository"
)

// CollaborationService implements the invitation workflow:
// pending -> accepted | declined, one transition only. The invited
// party's identity always comes from the session, never the body.
type CollaborationService struct {
	collabRepo repository.CollaborationRepository
	memoirRepo repository.MemoirRepository
	userRepo   repository.UserRepository
}

// NewCollaborationService creates a new CollaborationService
func NewCollaborationService(collabRepo repository.CollaborationRepository, memoirRepo repository.MemoirRepository, userRepo repository.UserRepository) *CollaborationService {
	return &CollaborationService{
		collabRepo: collabRepo,
		memoirRepo: memoirRepo,
		userRepo:   userRepo,
	}
}

// Invite invites the user with the given phone to collaborate on the
// owner's memoir. A declined invitation may be renewed; a pending or
// accepted one conflicts.
func (s *CollaborationService) Invite(ownerID, memoirID uint64, phone, role string) (*domain.Collaboration, error) {
	if !domain.ValidRole(role) {
		return nil, common.ErrInvalidInput
	}

	memoir, err := s.memoirRepo.FindOwnedByID(memoirID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMemoirNotFound
	}
	if err != nil {
		return nil, err
	}

	invitee, err := s.userRepo.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if invitee.ID == ownerID {
		return nil, common.ErrSelfInvite
	}

	var collab *domain.Collaboration
	err = s.collabRepo.Transaction(func(tx repository.CollaborationRepository) error {
		existing, findErr := tx.FindByMemoirAndCollaborator(memoir.ID, invitee.ID)
		switch {
		case findErr == nil:
			if existing.Status != domain.CollabDeclined {
				return common.ErrAlreadyInvited
			}
			// Renew a declined invitation
			existing.Status = domain.CollabPending
			existing.Role = role
			existing.InviterID = ownerID
			collab = existing
			return tx.Update(existing)
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			collab = &domain.Collaboration{
				MemoirID:       memoir.ID,
				CollaboratorID: invitee.ID,
				InviterID:      ownerID,
				Role:           role,
				Status:         domain.CollabPending,
			}
			return tx.Create(collab)
		default:
			return findErr
		}
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent invite; the unique index wins
		return nil, common.ErrAlreadyInvited
	}
	if err != nil {
		return nil, err
	}
	return collab, nil
}

// Respond transitions a pending invitation to accepted or declined.
// Only the invited collaborator may respond, exactly once.
func (s *CollaborationService) Respond(userID, collabID uint64, accept bool) (*domain.Collaboration, error) {
	collab, err := s.collabRepo.FindByID(collabID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrCollaborationNotFound
	}
	if err != nil {
		return nil, err
	}
	if collab.CollaboratorID != userID {
		// Same answer as non-existence; do not leak other users' invitations
		return nil, common.ErrCollaborationNotFound
	}
	if collab.Status != domain.CollabPending {
		return nil, common.ErrInvitationResolved
	}

	status := domain.CollabDeclined
	if accept {
		status = domain.CollabAccepted
	}
	// Guarded write: the row transitions only while still pending, so a
	// concurrent responder cannot overwrite a committed transition.
	if err := s.collabRepo.UpdateStatusIfPending(collab.ID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrInvitationResolved
		}
		return nil, err
	}
	collab.Status = status
	return collab, nil
}

// UpdateRole changes a collaborator's role. Memoir owner only.
func (s *CollaborationService) UpdateRole(ownerID, collabID uint64, role string) (*domain.Collaboration, error) {
	if !domain.ValidRole(role) {
		return nil, common.ErrInvalidInput
	}

	collab, err := s.ownedCollaboration(ownerID, collabID)
	if err != nil {
		return nil, err
	}

	collab.Role = role
	if err := s.collabRepo.Update(collab); err != nil {
		return nil, err
	}
	return collab, nil
}

// Remove deletes a collaboration. Memoir owner only.
func (s *CollaborationService) Remove(ownerID, collabID uint64) error {
	collab, err := s.ownedCollaboration(ownerID, collabID)
	if err != nil {
		return err
	}
	return s.collabRepo.Delete(collab.ID)
}

func (s *CollaborationService) ownedCollaboration(ownerID, collabID uint64) (*domain.Collaboration, error) {
	collab, err := s.collabRepo.FindByID(collabID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrCollaborationNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.memoirRepo.FindOwnedByID(collab.MemoirID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrCollaborationNotFound
		}
		return nil, err
	}
	return collab, nil
}

// ListForMemoir lists collaborators of an owned memoir
func (s *CollaborationService) ListForMemoir(ownerID, memoirID uint64) ([]*domain.CollaborationResponse, error) {
	memoir, err := s.memoirRepo.FindOwnedByID(memoirID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMemoirNotFound
	}
	if err != nil {
		return nil, err
	}

	collabs, err := s.collabRepo.FindByMemoir(memoir.ID)
	if err != nil {
		return nil, err
	}
	return s.enrich(collabs, map[uint64]string{memoir.ID: memoir.Title})
}

// ListMine lists invitations received by userID
func (s *CollaborationService) ListMine(userID uint64, page, limit int) ([]*domain.CollaborationResponse, int64, error) {
	collabs, total, err := s.collabRepo.FindByCollaborator(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	memoirIDs := make([]uint64, 0, len(collabs))
	for _, c := range collabs {
		memoirIDs = append(memoirIDs, c.MemoirID)
	}
	titles, err := s.memoirRepo.FindTitlesByIDs(memoirIDs)
	if err != nil {
		return nil, 0, err
	}

	resp, err := s.enrich(collabs, titles)
	if err != nil {
		return nil, 0, err
	}
	return resp, total, nil
}

func (s *CollaborationService) enrich(collabs []*domain.Collaboration, titles map[uint64]string) ([]*domain.CollaborationResponse, error) {
	ids := make([]uint64, 0, len(collabs)*2)
	for _, c := range collabs {
		ids = append(ids, c.CollaboratorID, c.InviterID)
	}
	nicks, err := s.userRepo.FindNicksByIDs(ids)
	if err != nil {
		return nil, err
	}

	resp := make([]*domain.CollaborationResponse, len(collabs))
	for i, c := range collabs {
		resp[i] = &domain.CollaborationResponse{
			ID:                   c.ID,
			MemoirID:             c.MemoirID,
			MemoirTitle:          titles[c.MemoirID],
			CollaboratorID:       c.CollaboratorID,
			CollaboratorNickname: nicks[c.CollaboratorID],
			InviterID:            c.InviterID,
			InviterNickname:      nicks[c.InviterID],
			Role:                 c.Role,
			Status:               c.Status,
			CreatedAt:            c.CreatedAt,
		}
	}
	return resp, nil
}
