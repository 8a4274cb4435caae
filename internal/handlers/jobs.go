package handlers

import (
	"marketplace-server/internal/service"
	"marketplace-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// JobHandler handles job and bid related requests.
type JobHandler struct {
	Jobs *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

// CreateJobRequest represents the request body for posting a job.
type CreateJobRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location"`
	Budget      string `json:"budget"`
	Timeline    string `json:"timeline"`
}

// SubmitBidRequest represents the request body for bidding on a job.
type SubmitBidRequest struct {
	BidMessage string   `json:"bidMessage" binding:"max=1000"`
	BidAmount  *float64 `json:"bidAmount" binding:"omitempty,gt=0"`
}

// CreateJob handles posting a new job.
func (h *JobHandler) CreateJob(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	var req CreateJobRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	job, err := h.Jobs.PostJob(c.Request.Context(), caller, service.PostJobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Timeline:    req.Timeline,
	})
	if err != nil {
		utils.HandleError(c, "post job", err)
		return
	}
	utils.Created(c, "Job posted successfully", job)
}

// GetMyJobs returns the jobs the calling user posted.
func (h *JobHandler) GetMyJobs(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}

	jobs, err := h.Jobs.ListMyJobs(c.Request.Context(), caller)
	if err != nil {
		utils.HandleError(c, "list my jobs", err)
		return
	}
	utils.Success(c, "Jobs retrieved successfully", jobs)
}

// GetAssignedJobs returns the jobs assigned to the calling pro.
func (h *JobHandler) GetAssignedJobs(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}

	jobs, err := h.Jobs.ListAssignedJobs(c.Request.Context(), caller)
	if err != nil {
		utils.HandleError(c, "list assigned jobs", err)
		return
	}
	utils.Success(c, "Jobs retrieved successfully", jobs)
}

// GetAvailableJobs returns the jobs open for bids.
func (h *JobHandler) GetAvailableJobs(c *gin.Context) {
	jobs, err := h.Jobs.ListAvailableJobs(c.Request.Context())
	if err != nil {
		utils.HandleError(c, "list available jobs", err)
		return
	}
	utils.Success(c, "Jobs retrieved successfully", jobs)
}

// GetJobByID returns a single job.
func (h *JobHandler) GetJobByID(c *gin.Context) {
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.Jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		utils.HandleError(c, "get job", err)
		return
	}
	utils.Success(c, "Job retrieved successfully", job)
}

// GetJobBids returns the bids placed on a job.
func (h *JobHandler) GetJobBids(c *gin.Context) {
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}

	bids, err := h.Jobs.ListBids(c.Request.Context(), jobID)
	if err != nil {
		utils.HandleError(c, "list bids", err)
		return
	}
	utils.Success(c, "Bids retrieved successfully", bids)
}

// SubmitBid places the calling pro's bid on a job.
func (h *JobHandler) SubmitBid(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}
	var req SubmitBidRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	bid, err := h.Jobs.SubmitBid(c.Request.Context(), caller, jobID, service.BidInput{
		Message: req.BidMessage,
		Amount:  req.BidAmount,
	})
	if err != nil {
		utils.HandleError(c, "submit bid", err)
		return
	}
	utils.Created(c, "Bid submitted successfully", bid)
}

// AcceptBid assigns the job to the bidding pro.
func (h *JobHandler) AcceptBid(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}
	bidID, ok := utils.ParseIDParam(c, "bidId", "bid")
	if !ok {
		return
	}

	bid, err := h.Jobs.AcceptBid(c.Request.Context(), caller, jobID, bidID)
	if err != nil {
		utils.HandleError(c, "accept bid", err)
		return
	}
	utils.Success(c, "Bid accepted successfully", bid)
}

// RejectBid rejects a bid on the caller's job.
func (h *JobHandler) RejectBid(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}
	bidID, ok := utils.ParseIDParam(c, "bidId", "bid")
	if !ok {
		return
	}

	bid, err := h.Jobs.RejectBid(c.Request.Context(), caller, jobID, bidID)
	if err != nil {
		utils.HandleError(c, "reject bid", err)
		return
	}
	utils.Success(c, "Bid rejected successfully", bid)
}

// WithdrawBid withdraws the calling pro's pending bid.
func (h *JobHandler) WithdrawBid(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}
	bidID, ok := utils.ParseIDParam(c, "bidId", "bid")
	if !ok {
		return
	}

	bid, err := h.Jobs.WithdrawBid(c.Request.Context(), caller, jobID, bidID)
	if err != nil {
		utils.HandleError(c, "withdraw bid", err)
		return
	}
	utils.Success(c, "Bid withdrawn successfully", bid)
}

// CompleteJob marks the calling pro's assigned job as completed.
func (h *JobHandler) CompleteJob(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.Jobs.CompleteJob(c.Request.Context(), caller, jobID)
	if err != nil {
		utils.HandleError(c, "complete job", err)
		return
	}
	utils.Success(c, "Job marked as completed", job)
}

// CancelJob cancels one of the caller's jobs.
func (h *JobHandler) CancelJob(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.Jobs.CancelJob(c.Request.Context(), caller, jobID)
	if err != nil {
		utils.HandleError(c, "cancel job", err)
		return
	}
	utils.Success(c, "Job cancelled successfully", job)
}
