package service

import (
	"fmt"
	"strings"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/metrics"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
)

// CommentInput 影评提交参数
type CommentInput struct {
	Content string  `json:"content" form:"content" validate:"required,min=10,max=1000"`
	Rating  float64 `json:"rating" form:"rating" validate:"required,gte=1,lte=5"`
}

// CommentService 影评
type CommentService struct {
	comments *repository.CommentRepository
	movies   *repository.MovieRepository
}

func NewCommentService(repos *repository.Repositories) *CommentService {
	return &CommentService{
		comments: repos.Comment,
		movies:   repos.Movie,
	}
}

// Submit 为电影发表影评，直接标记为已审核
func (s *CommentService) Submit(userID, movieID int, in CommentInput) (*model.Comment, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	movie, err := s.movies.FindByID(movieID)
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}
	if movie == nil {
		return nil, ErrNotFound
	}

	rating := in.Rating
	c := &model.Comment{
		UserID:     userID,
		TargetType: model.TargetMovie,
		TargetID:   movie.ID,
		Content:    in.Content,
		Rating:     &rating,
		IsApproved: true,
	}
	if err := s.comments.Create(c); err != nil {
		return nil, fmt.Errorf("保存影评失败: %w", err)
	}

	metrics.CommentsCreated.Inc()
	logging.Info().Int("user_id", userID).Int("movie_id", movie.ID).Msg("[Comment] 新影评")
	return c, nil
}
