package repository

import (
	"gorm.io/gorm"

	"github.com/user/streamflix/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 新建评论
func (r *CommentRepository) Create(c *model.Comment) error {
	return r.db.Create(c).Error
}

// ListApproved 某目标下已审核的评论（含作者），最新在前
func (r *CommentRepository) ListApproved(target model.Target, limit int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("commentable_type = ? AND commentable_id = ? AND is_approved = ?", target.Type, target.ID, true).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// CountApproved 某目标下已审核的评论数量
func (r *CommentRepository) CountApproved(target model.Target) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("commentable_type = ? AND commentable_id = ? AND is_approved = ?", target.Type, target.ID, true).
		Count(&count).Error
	return count, err
}

// DeleteOrphans 删除目标已不存在的评论
func (r *CommentRepository) DeleteOrphans() (int64, error) {
	return deleteOrphans(r.db, &model.Comment{}, "commentable_type", "commentable_id", model.CommentTargets)
}
