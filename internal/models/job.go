package models

import (
	"database/sql/driver"
)

// JobStatus represents the lifecycle state of a job
type JobStatus uint8

const (
	JobOpen JobStatus = iota + 1
	JobInProgress
	JobCompleted
	JobCancelled
)

var jobStatusNames = []string{"", "Open", "In Progress", "Completed", "Cancelled"}

func ParseJobStatus(s string) (JobStatus, error) {
	return parseEnum[JobStatus](s, jobStatusNames, "job status")
}

func (s JobStatus) String() string      { return enumName(s, jobStatusNames) }
func (s JobStatus) GormDataType() string { return "string" }

func (s JobStatus) Value() (driver.Value, error) { return enumValue(s, jobStatusNames, "job status") }
func (s *JobStatus) Scan(src interface{}) error  { return scanEnum(s, src, jobStatusNames, "job status") }

func (s JobStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *JobStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseJobStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// BidStatus represents the state of a bid
type BidStatus uint8

const (
	BidPending BidStatus = iota + 1
	BidAccepted
	BidRejected
	BidWithdrawn
)

var bidStatusNames = []string{"", "Pending", "Accepted", "Rejected", "Withdrawn"}

func (s BidStatus) String() string      { return enumName(s, bidStatusNames) }
func (s BidStatus) GormDataType() string { return "string" }

func (s BidStatus) Value() (driver.Value, error) { return enumValue(s, bidStatusNames, "bid status") }
func (s *BidStatus) Scan(src interface{}) error  { return scanEnum(s, src, bidStatusNames, "bid status") }

func (s BidStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Job is a piece of work posted by a user.
type Job struct {
	BaseModel
	UserID        uint      `gorm:"not null;index" json:"userId"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Location      string    `gorm:"size:150;not null" json:"location"`
	Budget        string    `gorm:"size:50;not null" json:"budget"`
	Timeline      string    `gorm:"size:50;not null" json:"timeline"`
	Status        JobStatus `gorm:"size:20;not null;index" json:"status"`
	IsBid         bool      `gorm:"default:false" json:"isBid"`
	AssignedProID *uint     `gorm:"index" json:"assignedProId,omitempty"`
}

// Owner returns the participant who posted the job.
func (j *Job) Owner() Participant { return Participant{ID: j.UserID, Kind: KindUser} }

// AssignedPro returns the assigned pro, if any.
func (j *Job) AssignedPro() (Participant, bool) {
	if j.AssignedProID == nil || *j.AssignedProID == 0 {
		return Participant{}, false
	}
	return Participant{ID: *j.AssignedProID, Kind: KindPro}, true
}

// JobBid is a pro's offer on a job.
type JobBid struct {
	BaseModel
	JobID              uint      `gorm:"not null;uniqueIndex:idx_job_bid_pro" json:"jobId"`
	ProID              uint      `gorm:"not null;uniqueIndex:idx_job_bid_pro" json:"proId"`
	BidMessage         string    `gorm:"size:1000" json:"bidMessage,omitempty"`
	BidAmount          *float64  `gorm:"type:decimal(18,2)" json:"bidAmount,omitempty"`
	Status             BidStatus `gorm:"size:20;not null" json:"status"`
	HasMessageExchange bool      `gorm:"default:false" json:"hasMessageExchange"`

	Job Job `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}
