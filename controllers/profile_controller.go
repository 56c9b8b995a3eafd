package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MatsalakO/social-meda-api/models"
	"github.com/MatsalakO/social-meda-api/services"
	"github.com/MatsalakO/social-meda-api/store"
	"github.com/MatsalakO/social-meda-api/utils"
)

// ProfileController serves profiles and the follow relation between them.
type ProfileController struct {
	profiles *services.ProfileService
	social   *services.SocialService
	query    *services.QueryService
	cache    utils.Cache
}

// NewProfileController creates a ProfileController. A nil cache disables caching.
func NewProfileController(profiles *services.ProfileService, social *services.SocialService, query *services.QueryService, cache utils.Cache) *ProfileController {
	if cache == nil {
		cache = utils.NopCache{}
	}
	return &ProfileController{profiles: profiles, social: social, query: query, cache: cache}
}

// ListProfiles returns profiles filtered by username, first_name and last_name.
func (p *ProfileController) ListProfiles(ctx *gin.Context) {
	items, err := p.query.ListProfiles(ctx.Request.Context(), store.ProfileFilter{
		Username:  ctx.Query("username"),
		FirstName: ctx.Query("first_name"),
		LastName:  ctx.Query("last_name"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, items)
}

// CreateProfile creates the caller's profile.
func (p *ProfileController) CreateProfile(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	var in services.ProfileInput
	if !bindJSON(ctx, &in) {
		return
	}
	profile, err := p.profiles.CreateProfile(ctx.Request.Context(), userID, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "", models.NewProfileView(profile))
}

// GetProfile returns a profile with its followers and followings.
func (p *ProfileController) GetProfile(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := p.query.GetProfileDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, detail)
}

// UpdateProfile changes the caller's profile. PUT and PATCH both apply only
// the fields present in the body.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var in services.ProfileInput
	if !bindJSON(ctx, &in) {
		return
	}
	profile, err := p.profiles.UpdateProfile(ctx.Request.Context(), userID, id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	// post and comment rows render the username
	p.cache.InvalidateByPrefix(ctx.Request.Context(), postsCachePrefix)
	utils.Success(ctx, models.NewProfileView(profile))
}

// DeleteProfile removes the caller's profile.
func (p *ProfileController) DeleteProfile(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := p.profiles.DeleteProfile(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	p.cache.InvalidateByPrefix(ctx.Request.Context(), postsCachePrefix)
	ctx.Status(http.StatusNoContent)
}

// UploadImage stores a new avatar for the caller's profile.
func (p *ProfileController) UploadImage(ctx *gin.Context) {
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

	profile, err := p.profiles.UploadImage(ctx.Request.Context(), userID, id, up)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, models.ImageView{ID: profile.ID, Image: profile.Image})
}

// Follow makes the caller follow the profile's account.
func (p *ProfileController) Follow(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := p.social.Follow(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err, statusOverride{services.ErrConflict, http.StatusBadRequest})
		return
	}
	utils.Message(ctx, http.StatusOK, "You are now following this user")
}

// Unfollow removes the caller's follow of the profile's account.
func (p *ProfileController) Unfollow(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := p.social.Unfollow(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err, statusOverride{services.ErrConflict, http.StatusBadRequest})
		return
	}
	utils.Message(ctx, http.StatusOK, "Unfollowed successfully")
}

// AllLikes lists the likes made by the profile's account. Only the owner may
// ask; anyone else gets 400.
func (p *ProfileController) AllLikes(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	likes, err := p.social.ListLikesForProfile(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err, statusOverride{services.ErrForbidden, http.StatusBadRequest})
		return
	}
	utils.Success(ctx, likes)
}
