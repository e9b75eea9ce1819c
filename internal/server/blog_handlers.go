package server

import (
	"strings"

	"unpolished/internal/service"
	"unpolished/pkg/schema"

	"github.com/gofiber/fiber/v2"
)

// CreateBlog handles POST /api/v1/blog
// @Summary Create a blog
// @Tags blog
// @Accept json
// @Produce json
// @Param request body schema.CreateBlogInput true "Blog"
// @Success 201 {object} object{message=string,blog=models.Blog}
// @Failure 400 {object} models.ErrorResponse
// @Router /blog [post]
// @Security BearerAuth
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req schema.CreateBlogInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	blog, err := s.blogService.CreateBlog(c.UserContext(), service.CreateBlogInput{
		AuthorID:        currentUserID(c),
		Title:           req.Title,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		Status:          req.Status,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsPremium:       req.IsPremium,
		AllowComments:   req.AllowComments,
		ReadingTime:     req.ReadingTime,
		ScheduledFor:    req.ScheduledFor,
	})
	if err != nil {
		return respondError(c, err)
	}
	if blog.IsPublished() {
		s.notifyBlogPublished(c.UserContext(), blog)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "blog created successfully",
		"blog":    blog,
	})
}

// UpdateBlog handles PUT /api/v1/blog
// @Summary Update a blog
// @Description Partial update; the blog id travels in the body
// @Tags blog
// @Accept json
// @Produce json
// @Param request body schema.UpdateBlogInput true "Changes"
// @Success 200 {object} object{message=string,blog=models.Blog}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog [put]
// @Security BearerAuth
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	var req schema.UpdateBlogInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	blog, err := s.blogService.UpdateBlog(c.UserContext(), service.UpdateBlogInput{
		UserID:          currentUserID(c),
		ID:              req.ID,
		Title:           req.Title,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		Status:          req.Status,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsPremium:       req.IsPremium,
		AllowComments:   req.AllowComments,
		ReadingTime:     req.ReadingTime,
		ScheduledFor:    req.ScheduledFor,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "blog updated successfully",
		"blog":    blog,
	})
}

// ListMyBlogs handles GET /api/v1/blog/bulk
// @Summary List the caller's blogs
// @Tags blog
// @Produce json
// @Success 200 {object} object{message=string,blogs=[]models.Blog}
// @Router /blog/bulk [get]
// @Security BearerAuth
func (s *Server) ListMyBlogs(c *fiber.Ctx) error {
	blogs, err := s.blogService.ListMine(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "blogs fetched successfully",
		"blogs":   blogs,
	})
}

// GetFeed handles GET /api/v1/blog/feed
// @Summary Published blogs feed
// @Tags blog
// @Produce json
// @Param limit query int false "Page size (1-50)"
// @Param offset query int false "Offset"
// @Param interest query string false "Case-insensitive title or excerpt match"
// @Success 200 {object} object{blogs=[]models.Blog,pagination=schema.Pagination}
// @Failure 400 {object} models.ErrorResponse
// @Router /blog/feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := parsePagination(c)
	if err != nil {
		return nil
	}

	feed, err := s.blogService.Feed(c.UserContext(), service.FeedInput{
		Limit:    page.Limit,
		Offset:   page.Offset,
		Interest: c.Query("interest"),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"blogs":      feed.Blogs,
		"pagination": schema.NewPagination(page.Limit, page.Offset, int(feed.Total)),
	})
}

// GetBlog handles GET /api/v1/blog/:slug
// @Summary Get a blog by slug
// @Description Drafts and other unpublished blogs are visible to their author only
// @Tags blog
// @Produce json
// @Param slug path string true "Blog slug"
// @Param format query string false "html renders markdown into contentHtml"
// @Success 200 {object} object{blog=models.Blog}
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{slug} [get]
func (s *Server) GetBlog(c *fiber.Ctx) error {
	blog, err := s.blogService.GetBlog(c.UserContext(), service.GetBlogInput{
		Slug:       c.Params("slug"),
		ViewerID:   currentUserID(c),
		RenderHTML: strings.EqualFold(c.Query("format"), "html"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"blog": blog})
}

// DeleteBlog handles DELETE /api/v1/blog/:slug
// @Summary Delete a blog
// @Tags blog
// @Produce json
// @Param slug path string true "Blog slug"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{slug} [delete]
// @Security BearerAuth
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	if err := s.blogService.DeleteBlog(c.UserContext(), currentUserID(c), c.Params("slug")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikeBlog handles POST /api/v1/blog/:slug/like
// @Summary Like a blog
// @Tags blog
// @Produce json
// @Param slug path string true "Blog slug"
// @Success 200 {object} object{liked=bool,changed=bool,likeCount=int}
// @Router /blog/{slug}/like [post]
// @Security BearerAuth
func (s *Server) LikeBlog(c *fiber.Ctx) error {
	res, err := s.blogService.Like(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": true, "changed": res.Changed, "likeCount": res.Count})
}

// UnlikeBlog handles DELETE /api/v1/blog/:slug/like
// @Summary Remove a like
// @Tags blog
// @Produce json
// @Param slug path string true "Blog slug"
// @Success 200 {object} object{liked=bool,changed=bool,likeCount=int}
// @Router /blog/{slug}/like [delete]
// @Security BearerAuth
func (s *Server) UnlikeBlog(c *fiber.Ctx) error {
	res, err := s.blogService.Unlike(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": false, "changed": res.Changed, "likeCount": res.Count})
}

// BookmarkBlog handles POST /api/v1/blog/:slug/bookmark
// @Summary Bookmark a blog
// @Tags blog
// @Produce json
// @Param slug path string true "Blog slug"
// @Success 200 {object} object{bookmarked=bool,changed=bool,bookmarkCount=int}
// @Router /blog/{slug}/bookmark [post]
// @Security BearerAuth
func (s *Server) BookmarkBlog(c *fiber.Ctx) error {
	res, err := s.blogService.Bookmark(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarked": true, "changed": res.Changed, "bookmarkCount": res.Count})
}

// UnbookmarkBlog handles DELETE /api/v1/blog/:slug/bookmark
// @Summary Remove a bookmark
// @Tags blog
// @Produce json
// @Param slug path string true "Blog slug"
// @Success 200 {object} object{bookmarked=bool,changed=bool,bookmarkCount=int}
// @Router /blog/{slug}/bookmark [delete]
// @Security BearerAuth
func (s *Server) UnbookmarkBlog(c *fiber.Ctx) error {
	res, err := s.blogService.Unbookmark(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarked": false, "changed": res.Changed, "bookmarkCount": res.Count})
}
