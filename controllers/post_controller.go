package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/services"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/utils"
)

const (
	postsCachePrefix = "cache:posts:"
	postsListKey     = postsCachePrefix + "list"
)

func postDetailKey(id uint) string {
	return postsCachePrefix + "detail:" + strconv.FormatUint(uint64(id), 10)
}

// PostController manages posts and the likes and comments attached to them.
type PostController struct {
	posts  *services.PostService
	social *services.SocialService
	query  *services.QueryService
	cache  utils.Cache
}

// NewPostController creates a PostController. A nil cache disables caching.
func NewPostController(posts *services.PostService, social *services.SocialService, query *services.QueryService, cache utils.Cache) *PostController {
	if cache == nil {
		cache = utils.NopCache{}
	}
	return &PostController{posts: posts, social: social, query: query, cache: cache}
}

func (p *PostController) invalidate(ctx *gin.Context) {
	p.cache.InvalidateByPrefix(ctx.Request.Context(), postsCachePrefix)
}

// serveCached writes a cached payload and reports whether there was one.
func (p *PostController) serveCached(ctx *gin.Context, key string) bool {
	b, ok := p.cache.GetBytes(ctx.Request.Context(), key)
	if ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
	}
	return ok
}

func (p *PostController) successCached(ctx *gin.Context, key string, data interface{}) {
	p.cache.SetJSON(ctx.Request.Context(), key, utils.JSONResponse{Data: data})
	utils.Success(ctx, data)
}

// ListPosts returns posts with like and comment counts. Only the unfiltered
// list is cached to avoid a key per search term.
func (p *PostController) ListPosts(ctx *gin.Context) {
	hashtag := strings.TrimSpace(ctx.Query("hashtag"))
	if hashtag == "" && p.serveCached(ctx, postsListKey) {
		return
	}

	items, err := p.query.ListPosts(ctx.Request.Context(), store.PostFilter{Hashtag: hashtag})
	if err != nil {
		respondError(ctx, err)
		return
	}
	if hashtag == "" {
		p.successCached(ctx, postsListKey, items)
		return
	}
	utils.Success(ctx, items)
}

// CreatePost publishes a post owned by the caller.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var in services.PostInput
	if !bindJSON(ctx, &in) {
		return
	}
	post, err := p.posts.CreatePost(ctx.Request.Context(), userID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	p.invalidate(ctx)
	utils.Respond(ctx, http.StatusCreated, 0, "", models.NewPostView(post))
}

// GetPost returns a single post in list shape.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	key := postDetailKey(id)
	if p.serveCached(ctx, key) {
		return
	}
	item, err := p.query.GetPostDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	p.successCached(ctx, key, item)
}

// UpdatePost changes a post owned by the caller.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var in services.PostInput
	if !bindJSON(ctx, &in) {
		return
	}
	post, err := p.posts.UpdatePost(ctx.Request.Context(), userID, id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	p.invalidate(ctx)
	utils.Success(ctx, models.NewPostView(post))
}

// DeletePost removes a post owned by the caller with its comments and likes.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := p.posts.DeletePost(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	p.invalidate(ctx)
	ctx.Status(http.StatusNoContent)
}

// UploadImage attaches an image to a post owned by the caller.
func (p *PostController) UploadImage(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	up, done, ok := readUpload(ctx)
	if !ok {
		return
	}
	defer done()

	post, err := p.posts.UploadImage(ctx.Request.Context(), userID, id, up)
	if err != nil {
		respondError(ctx, err)
		return
	}
	p.invalidate(ctx)
	utils.Success(ctx, models.ImageView{ID: post.ID, Image: post.Image})
}

// Like records the caller's like. Liking twice is answered with 200 as well.
func (p *PostController) Like(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	created, err := p.social.Like(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !created {
		utils.Message(ctx, http.StatusOK, "You have already liked this post")
		return
	}
	p.invalidate(ctx)
	utils.Message(ctx, http.StatusOK, "You liked this post")
}

// Unlike removes the caller's like.
func (p *PostController) Unlike(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := p.social.Unlike(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	p.invalidate(ctx)
	utils.Message(ctx, http.StatusOK, "You unliked this post")
}

type commentRequest struct {
	Text string `json:"text"`
}

// AddComment attaches a comment by the caller to the post.
func (p *PostController) AddComment(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	comment, err := p.social.AddComment(ctx.Request.Context(), userID, id, req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}
	p.invalidate(ctx)
	utils.Success(ctx, comment)
}

// ListComments returns the post's comments with their authors' usernames.
func (p *PostController) ListComments(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	items, err := p.query.ListComments(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, items)
}

// ListLikes returns the post's likes.
func (p *PostController) ListLikes(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	likes, err := p.query.ListLikes(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, likes)
}

// GetComment returns one comment of the post. Any authenticated caller may read it.
func (p *PostController) GetComment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(ctx, "commentId")
	if !ok {
		return
	}
	comment, err := p.social.GetComment(ctx.Request.Context(), id, commentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

// EditComment replaces the text of the caller's comment.
func (p *PostController) EditComment(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(ctx, "commentId")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	comment, err := p.social.EditComment(ctx.Request.Context(), userID, id, commentID, req.Text)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

// DeleteComment removes the caller's comment.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(ctx, "commentId")
	if !ok {
		return
	}
	if err := p.social.DeleteComment(ctx.Request.Context(), userID, id, commentID); err != nil {
		respondError(ctx, err)
		return
	}
	p.invalidate(ctx)
	ctx.Status(http.StatusNoContent)
}
