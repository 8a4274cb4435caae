package repository

import (
	"context"

	"marketplace-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobRepository job and bid data access
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) Save(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *JobRepository) FindByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// FindByIDLocked reads a job with a row lock held until the transaction ends
func (r *JobRepository) FindByIDLocked(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&job, id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListByOwner returns the jobs a user posted, newest first
func (r *JobRepository) ListByOwner(ctx context.Context, userID uint) ([]*models.Job, error) {
	var jobs []*models.Job
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// ListByAssignedPro returns the jobs assigned to a pro, newest first
func (r *JobRepository) ListByAssignedPro(ctx context.Context, proID uint) ([]*models.Job, error) {
	var jobs []*models.Job
	err := r.db.WithContext(ctx).
		Where("assigned_pro_id = ?", proID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// ListAvailable returns open jobs without an assigned pro
func (r *JobRepository) ListAvailable(ctx context.Context) ([]*models.Job, error) {
	var jobs []*models.Job
	err := r.db.WithContext(ctx).
		Where("status = ? AND (assigned_pro_id IS NULL OR assigned_pro_id = 0)", models.JobOpen).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) CreateBid(ctx context.Context, bid *models.JobBid) error {
	return r.db.WithContext(ctx).Omit("Job").Create(bid).Error
}

func (r *JobRepository) SaveBid(ctx context.Context, bid *models.JobBid) error {
	return r.db.WithContext(ctx).Omit("Job").Save(bid).Error
}

func (r *JobRepository) FindBidByID(ctx context.Context, id uint) (*models.JobBid, error) {
	var bid models.JobBid
	if err := r.db.WithContext(ctx).First(&bid, id).Error; err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *JobRepository) FindBidByIDLocked(ctx context.Context, id uint) (*models.JobBid, error) {
	var bid models.JobBid
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&bid, id).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// BidExists reports whether proID already bid on jobID
func (r *JobRepository) BidExists(ctx context.Context, jobID, proID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JobBid{}).
		Where("job_id = ? AND pro_id = ?", jobID, proID).
		Count(&count).Error
	return count > 0, err
}

// ListBids returns the bids on a job, newest first
func (r *JobRepository) ListBids(ctx context.Context, jobID uint) ([]*models.JobBid, error) {
	var bids []*models.JobBid
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&bids).Error
	return bids, err
}

// MarkMessageExchange flags a bid as having been contacted
func (r *JobRepository) MarkMessageExchange(ctx context.Context, bidID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.JobBid{}).
		Where("id = ?", bidID).
		Update("has_message_exchange", true).Error
}

// RejectOtherPendingBids rejects every pending bid on jobID except keepBidID.
// A keepBidID of 0 rejects them all.
func (r *JobRepository) RejectOtherPendingBids(ctx context.Context, jobID, keepBidID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.JobBid{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, keepBidID, models.BidPending).
		Update("status", models.BidRejected).Error
}
