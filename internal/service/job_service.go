package service

import (
	"context"
	"strings"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"
)

// PostJobInput holds the fields of a new job.
type PostJobInput struct {
	Title       string
	Description string
	Location    string
	Budget      string
	Timeline    string
}

// BidInput holds the fields of a new bid.
type BidInput struct {
	Message string
	Amount  *float64
}

// JobService manages jobs and the bids placed on them.
type JobService struct {
	store *repository.Store
}

// NewJobService creates a new JobService
func NewJobService(store *repository.Store) *JobService {
	return &JobService{store: store}
}

// PostJob creates an open job owned by owner, who must be a user.
func (s *JobService) PostJob(ctx context.Context, owner models.Participant, in PostJobInput) (*models.Job, error) {
	if owner.Kind != models.KindUser {
		return nil, common.Forbidden("Only users can post jobs")
	}

	job := &models.Job{
		UserID:      owner.ID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Budget:      in.Budget,
		Timeline:    in.Timeline,
		Status:      models.JobOpen,
	}
	if err := s.store.Jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.store.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return job, nil
}

func (s *JobService) ListMyJobs(ctx context.Context, owner models.Participant) ([]*models.Job, error) {
	if owner.Kind != models.KindUser {
		return nil, common.Forbidden("Only users own jobs")
	}
	return s.store.Jobs.ListByOwner(ctx, owner.ID)
}

func (s *JobService) ListAssignedJobs(ctx context.Context, pro models.Participant) ([]*models.Job, error) {
	if pro.Kind != models.KindPro {
		return nil, common.Forbidden("Only pros are assigned jobs")
	}
	return s.store.Jobs.ListByAssignedPro(ctx, pro.ID)
}

func (s *JobService) ListAvailableJobs(ctx context.Context) ([]*models.Job, error) {
	return s.store.Jobs.ListAvailable(ctx)
}

// SubmitBid places pro's bid on an open job. A pro may bid once per job.
func (s *JobService) SubmitBid(ctx context.Context, pro models.Participant, jobID uint, in BidInput) (*models.JobBid, error) {
	if pro.Kind != models.KindPro {
		return nil, common.Forbidden("Only pros can bid on jobs")
	}

	job, err := s.store.Jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	if job.Status != models.JobOpen {
		return nil, common.Validation("Job is not open for bids")
	}

	exists, err := s.store.Jobs.BidExists(ctx, jobID, pro.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.Conflict("You have already submitted a bid for this job")
	}

	bid := &models.JobBid{
		JobID:      jobID,
		ProID:      pro.ID,
		BidMessage: in.Message,
		BidAmount:  in.Amount,
		Status:     models.BidPending,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Jobs.CreateBid(ctx, bid); err != nil {
			return err
		}
		job.IsBid = true
		return tx.Jobs.Save(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// ListBids returns the bids on a job, newest first.
func (s *JobService) ListBids(ctx context.Context, jobID uint) ([]*models.JobBid, error) {
	if _, err := s.store.Jobs.FindByID(ctx, jobID); err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return s.store.Jobs.ListBids(ctx, jobID)
}

// ownedJobBid loads a job owned by owner and one of its bids with row locks.
// tx must be a transaction Store.
func ownedJobBid(ctx context.Context, tx *repository.Store, owner models.Participant, jobID, bidID uint) (*models.Job, *models.JobBid, error) {
	job, err := tx.Jobs.FindByIDLocked(ctx, jobID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Job not found")
	}
	if job.Owner() != owner {
		return nil, nil, common.Forbidden("You can only manage bids for your own jobs")
	}
	bid, err := tx.Jobs.FindBidByIDLocked(ctx, bidID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Bid not found")
	}
	if bid.JobID != jobID {
		return nil, nil, common.Validation("Bid does not belong to this job")
	}
	if bid.Status != models.BidPending {
		return nil, nil, common.Conflict("Bid is already %s", strings.ToLower(bid.Status.String()))
	}
	return job, bid, nil
}

// AcceptBid assigns an open job to the bidding pro and rejects the other
// pending bids. Only a pending bid can be accepted.
func (s *JobService) AcceptBid(ctx context.Context, owner models.Participant, jobID, bidID uint) (*models.JobBid, error) {
	var accepted *models.JobBid
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		job, bid, err := ownedJobBid(ctx, tx, owner, jobID, bidID)
		if err != nil {
			return err
		}
		if job.Status != models.JobOpen {
			return common.Conflict("Job is no longer open")
		}

		bid.Status = models.BidAccepted
		if err := tx.Jobs.SaveBid(ctx, bid); err != nil {
			return err
		}
		proID := bid.ProID
		job.AssignedProID = &proID
		job.Status = models.JobInProgress
		if err := tx.Jobs.Save(ctx, job); err != nil {
			return err
		}
		accepted = bid
		return tx.Jobs.RejectOtherPendingBids(ctx, jobID, bid.ID)
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// RejectBid rejects a single pending bid.
func (s *JobService) RejectBid(ctx context.Context, owner models.Participant, jobID, bidID uint) (*models.JobBid, error) {
	var rejected *models.JobBid
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		_, bid, err := ownedJobBid(ctx, tx, owner, jobID, bidID)
		if err != nil {
			return err
		}
		bid.Status = models.BidRejected
		rejected = bid
		return tx.Jobs.SaveBid(ctx, bid)
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// WithdrawBid lets a pro take back a bid that is still pending.
func (s *JobService) WithdrawBid(ctx context.Context, pro models.Participant, jobID, bidID uint) (*models.JobBid, error) {
	if pro.Kind != models.KindPro {
		return nil, common.Forbidden("Only pros can withdraw bids")
	}

	var withdrawn *models.JobBid
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		bid, err := tx.Jobs.FindBidByIDLocked(ctx, bidID)
		if err != nil {
			return notFoundOr(err, "Bid not found")
		}
		if bid.JobID != jobID {
			return common.Validation("Bid does not belong to this job")
		}
		if bid.ProID != pro.ID {
			return common.Forbidden("You can only withdraw your own bids")
		}
		if bid.Status != models.BidPending {
			return common.Conflict("Bid is already %s", strings.ToLower(bid.Status.String()))
		}
		bid.Status = models.BidWithdrawn
		withdrawn = bid
		return tx.Jobs.SaveBid(ctx, bid)
	})
	if err != nil {
		return nil, err
	}
	return withdrawn, nil
}

// CompleteJob marks an in-progress job as completed. Only the assigned pro
// can complete it.
func (s *JobService) CompleteJob(ctx context.Context, pro models.Participant, jobID uint) (*models.Job, error) {
	var completed *models.Job
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		job, err := tx.Jobs.FindByIDLocked(ctx, jobID)
		if err != nil {
			return notFoundOr(err, "Job not found")
		}
		if assigned, ok := job.AssignedPro(); !ok || assigned != pro {
			return common.Forbidden("Only the assigned pro can complete this job")
		}
		if job.Status != models.JobInProgress {
			return common.Conflict("Only jobs in progress can be completed")
		}
		job.Status = models.JobCompleted
		completed = job
		return tx.Jobs.Save(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// CancelJob cancels an open or in-progress job and rejects its pending bids.
func (s *JobService) CancelJob(ctx context.Context, owner models.Participant, jobID uint) (*models.Job, error) {
	var cancelled *models.Job
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		job, err := tx.Jobs.FindByIDLocked(ctx, jobID)
		if err != nil {
			return notFoundOr(err, "Job not found")
		}
		if job.Owner() != owner {
			return common.Forbidden("You can only cancel your own jobs")
		}
		if job.Status != models.JobOpen && job.Status != models.JobInProgress {
			return common.Conflict("Job is already %s", strings.ToLower(job.Status.String()))
		}
		job.Status = models.JobCancelled
		if err := tx.Jobs.Save(ctx, job); err != nil {
			return err
		}
		cancelled = job
		return tx.Jobs.RejectOtherPendingBids(ctx, jobID, 0)
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
