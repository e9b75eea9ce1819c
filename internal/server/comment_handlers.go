package server

import (
	"unpolished/internal/service"
	"unpolished/pkg/schema"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/v1/comments/:blogId
// @Summary Comment on a blog
// @Description Root comment, or a reply when parentId is set. Replies nest two levels deep at most.
// @Tags comments
// @Accept json
// @Produce json
// @Param blogId path int true "Blog ID"
// @Param request body schema.CreateCommentInput true "Comment"
// @Success 201 {object} object{message=string,comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{blogId} [post]
// @Security BearerAuth
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	blogID, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}

	var req schema.CreateCommentInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	res, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:   currentUserID(c),
		BlogID:   blogID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.notifyCommentCreated(ctx, res)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment created successfully",
		"comment": res.Comment,
	})
}

// GetComments handles GET /api/v1/comments/:blogId
// @Summary List a blog's comments
// @Description Top-level comments newest first, with two levels of replies oldest first
// @Tags comments
// @Produce json
// @Param blogId path int true "Blog ID"
// @Param limit query int false "Page size (1-50)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{comments=[]models.Comment,pagination=schema.Pagination}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{blogId} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	page, err := parsePagination(c)
	if err != nil {
		return nil
	}

	res, err := s.commentService.ListComments(c.UserContext(), service.ListCommentsInput{
		BlogID:   blogID,
		ViewerID: currentUserID(c),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"comments":   res.Comments,
		"pagination": res.Pagination,
	})
}

// UpdateComment handles PUT /api/v1/comments/:commentId
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID"
// @Param request body schema.UpdateCommentInput true "New content"
// @Success 200 {object} object{message=string,comment=models.Comment}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId} [put]
// @Security BearerAuth
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req schema.UpdateCommentInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment handles DELETE /api/v1/comments/:commentId
// @Summary Delete a comment and its replies
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} object{message=string,deleted=int}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId} [delete]
// @Security BearerAuth
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	res, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.notifyCommentDeleted(ctx, userID, res)

	return c.JSON(fiber.Map{
		"message": "Comment deleted successfully",
		"deleted": res.Deleted,
	})
}

// SetCommentStatus handles PUT /api/v1/comments/:commentId/status
// @Summary Moderate a comment
// @Description Blog author sets PENDING, APPROVED, REJECTED or SPAM
// @Tags comments
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID"
// @Param request body schema.CommentStatusInput true "Status"
// @Success 200 {object} object{message=string,comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId}/status [put]
// @Security BearerAuth
func (s *Server) SetCommentStatus(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req schema.CommentStatusInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.SetStatus(c.UserContext(), service.SetCommentStatusInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Status:    req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment status updated successfully",
		"comment": comment,
	})
}
