// Package domain 包含处方单的领域模型
package domain

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 审核状态
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "PENDING"
	StatusApproved ReviewStatus = "APPROVED"
	StatusRejected ReviewStatus = "REJECTED"
)

var (
	// ErrPrescriptionNotFound 处方不存在
	ErrPrescriptionNotFound = errors.New("prescription not found")
	// ErrAlreadyReviewed 处方已审核，不可重复审核
	ErrAlreadyReviewed = errors.New("prescription already reviewed")
)

// Prescription 处方单，用户上传后由药剂师审核
type Prescription struct {
	gorm.Model     `json:"-"`
	PrescriptionID string       `gorm:"column:prescription_id;type:varchar(36);uniqueIndex;not null" json:"prescription_id"`
	UserID         string       `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	FileName       string       `gorm:"column:file_name;type:varchar(255)" json:"file_name"`
	FilePath       string       `gorm:"column:file_path;type:varchar(512)" json:"-"`
	Note           string       `gorm:"column:note;type:text" json:"note"`
	Status         ReviewStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	ReviewerNote   string       `gorm:"column:reviewer_note;type:text" json:"reviewer_note"`
}

func (Prescription) TableName() string { return "prescriptions" }

// Approve 审核通过，仅允许从 PENDING 流转
func (p *Prescription) Approve(note string) error {
	return p.review(StatusApproved, note)
}

// Reject 审核驳回，仅允许从 PENDING 流转
func (p *Prescription) Reject(note string) error {
	return p.review(StatusRejected, note)
}

func (p *Prescription) review(status ReviewStatus, note string) error {
	if p.Status != StatusPending {
		return fmt.Errorf("%w: status %s", ErrAlreadyReviewed, p.Status)
	}
	p.Status = status
	p.ReviewerNote = note
	return nil
}

// PrescriptionRepository 处方仓储接口
type PrescriptionRepository interface {
	Save(ctx context.Context, prescription *Prescription) error
	// GetByPrescriptionID 不存在时返回 ErrPrescriptionNotFound
	GetByPrescriptionID(ctx context.Context, prescriptionID string) (*Prescription, error)
	// ListByUserID 按用户分页查询
	ListByUserID(ctx context.Context, userID string, offset, limit int) ([]Prescription, int64, error)
	// ListPending 待审核队列
	ListPending(ctx context.Context, offset, limit int) ([]Prescription, int64, error)
}
