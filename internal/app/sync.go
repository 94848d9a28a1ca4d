package service

import (
	"context"
	"fmt"

	"github.com/okian/dojo/internal/adapters/repository"
	"github.com/okian/dojo/internal/domain/model"
	"github.com/okian/dojo/pkg/metrics"
)

// Calendar sync handshake: request -> accept/reject (terminal). An accepted
// pair derives the symmetric synced-peer relation.

// RequestSync creates a pending sync request from one user to another.
// A rejected pair may re-request; there is no lockout.
func (s *Service) RequestSync(ctx context.Context, fromUserID, toUserID int64) (model.SyncRequest, error) {
	if fromUserID == toUserID {
		return model.SyncRequest{}, fmt.Errorf("%w: cannot sync with yourself", ErrValidation)
	}
	req, err := s.store.CreateSyncRequest(ctx, model.SyncRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
	})
	if err != nil {
		return model.SyncRequest{}, err
	}
	metrics.RecordSyncRequestCreated()
	return req, nil
}

// RespondSync lets the addressee accept or reject a pending request.
// A request that does not exist and a request addressed to someone else
// are indistinguishable to the caller: both come back not found.
func (s *Service) RespondSync(ctx context.Context, requestID, actingUserID int64, accept bool) (model.SyncRequest, error) {
	req, err := s.store.GetSyncRequest(ctx, requestID)
	if err != nil {
		return model.SyncRequest{}, err
	}
	if req.ToUserID != actingUserID {
		// Mask existence for anyone but the addressee.
		return model.SyncRequest{}, repository.ErrNotFound
	}
	if req.Status.Terminal() {
		return model.SyncRequest{}, ErrSyncResponded
	}

	status := model.SyncRejected
	if accept {
		status = model.SyncAccepted
	}
	req, err = s.store.SetSyncStatus(ctx, requestID, status)
	if err != nil {
		return model.SyncRequest{}, err
	}

	if accept {
		metrics.RecordSyncRequestAccepted()
		s.emit(ctx, model.Activity{
			Kind:      model.ActivitySyncAccepted,
			ActorID:   actingUserID,
			SubjectID: req.ID,
		})
	} else {
		metrics.RecordSyncRequestRejected()
	}
	return req, nil
}

// PendingSyncRequests returns the user's inbox of requests awaiting their
// decision.
func (s *Service) PendingSyncRequests(ctx context.Context, userID int64) ([]model.SyncRequest, error) {
	return s.store.ListSyncRequestsTo(ctx, userID, model.SyncPending)
}

// SyncedPeers returns every user connected to userID through an accepted
// request, on either side. The relation is symmetric.
func (s *Service) SyncedPeers(ctx context.Context, userID int64) ([]model.User, error) {
	accepted, err := s.store.ListSyncRequestsInvolving(ctx, userID, model.SyncAccepted)
	if err != nil {
		return nil, err
	}
	peers := make([]model.User, 0, len(accepted))
	for _, req := range accepted {
		peer, err := s.store.GetUser(ctx, req.PeerOf(userID))
		if err != nil {
			// Users are never deleted; a missing peer is skipped rather
			// than failing the whole listing.
			continue
		}
		peers = append(peers, peer)
	}
	return peers, nil
}

// RemoveSyncPeer deletes every request connecting the two users, in any
// status, in either direction. This also cancels a still-pending request
// between them.
func (s *Service) RemoveSyncPeer(ctx context.Context, userID, peerID int64) error {
	removed, err := s.store.DeleteSyncPair(ctx, userID, peerID)
	if err != nil {
		return err
	}
	if removed > 0 {
		metrics.RecordSyncPairRemoved()
	}
	return nil
}
