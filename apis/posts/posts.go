package posts

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/apis"
	"github.com/supakorn-kn/go-sketchpatch/cache"
	"github.com/supakorn-kn/go-sketchpatch/env"
	serverError "github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/filter"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/models"
	"github.com/supakorn-kn/go-sketchpatch/models/posts"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"github.com/supakorn-kn/go-sketchpatch/paging"
	"github.com/supakorn-kn/go-sketchpatch/pingback"
)

const excerptLength = 250

type Model interface {
	Insert(ctx context.Context, post objects.Post, author identity.User) (objects.Post, error)
	GetByPermalink(ctx context.Context, permalink string) (objects.Post, error)
	Update(ctx context.Context, post objects.Post) (objects.Post, error)
	Delete(ctx context.Context, permalink string) error
	Listing(opts posts.ListingOptions, perPage, countCap int) (*paging.Paginator[objects.Post], error)
	Archives(ctx context.Context) ([]posts.Archive, error)
}

type SettingsGetter interface {
	Get(ctx context.Context) (env.BlogSettings, error)
}

type Notifier interface {
	NotifyLinks(ctx context.Context, source, body string) []pingback.Result
	Trackback(ctx context.Context, tbURL string, ping pingback.TrackbackPing) error
}

// PingbackResult reports one notified link of a published post.
type PingbackResult struct {
	Target  string `json:"target"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PublishResult is the answer to a post write.
type PublishResult struct {
	Post      objects.Post     `json:"post"`
	Pingbacks []PingbackResult `json:"pingbacks,omitempty"`
}

type TrackbackRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type PostsAPI struct {
	model    Model
	settings SettingsGetter
	notifier Notifier
	cache    cache.Cache
	cacheTTL time.Duration
	countCap int
}

func NewPostsAPI(model Model, settings SettingsGetter, notifier Notifier, c cache.Cache, cacheTTL time.Duration, countCap int) *PostsAPI {

	return &PostsAPI{
		model:    model,
		settings: settings,
		notifier: notifier,
		cache:    c,
		cacheTTL: cacheTTL,
		countCap: countCap,
	}
}

// Register mounts the blog. Reading is public, every write is reserved to admins.
func (api *PostsAPI) Register(group *gin.RouterGroup) {

	group.GET("posts", api.list)
	group.GET("posts/:permalink", api.readOne)
	group.GET("archives", api.archives)

	admin := group.Group("", apis.RequireAdmin())
	admin.POST("posts", api.create)
	admin.PUT("posts/:permalink", api.update)
	admin.DELETE("posts/:permalink", api.delete)
	admin.POST("posts/:permalink/trackback", api.trackback)
}

// ttl is the blog cache_time setting in seconds, or the configured default when it is not set.
func (api *PostsAPI) ttl(settings env.BlogSettings) time.Duration {

	if settings.CacheTime > 0 {
		return time.Duration(settings.CacheTime) * time.Second
	}

	return api.cacheTTL
}

func (api *PostsAPI) list(ctx *gin.Context) {

	pageNumber, err := apis.QueryPage(ctx)
	if err != nil {
		api.redirectToFirstPage(ctx)
		return
	}

	title := strings.TrimSpace(ctx.Query("title"))
	tag := strings.TrimSpace(ctx.Query("tag"))
	key := cache.PostPageKey(pageNumber, title, tag)

	var page paging.Page[objects.Post]
	found, err := api.cache.GetJSON(ctx, key, &page)
	if err != nil {
		slog.Warn("Reading cached post page failed", slog.String("key", key), slog.Any("error", err))
	}

	if found {
		ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: page})
		return
	}

	settings, err := api.settings.Get(ctx)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	opts := posts.ListingOptions{Page: pageNumber, Tag: tag}
	if title != "" {
		opts.Title = models.MatchOption{MatchType: models.PartialMatchType, Value: title}
	}

	paginator, err := api.model.Listing(opts, settings.PostsPerPage, api.countCap)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	result, err := paginator.Page(ctx, pageNumber)
	if err != nil {

		if serverError.IsError(err, serverError.InvalidPageError) && pageNumber != 1 {
			api.redirectToFirstPage(ctx)
			return
		}

		apis.WriteErrorJSON(ctx, err)
		return
	}

	if err := api.cache.SetJSON(ctx, key, result, api.ttl(settings)); err != nil {
		slog.Warn("Caching post page failed", slog.String("key", key), slog.Any("error", err))
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: result})
}

func (api *PostsAPI) redirectToFirstPage(ctx *gin.Context) {

	target := *ctx.Request.URL
	query := target.Query()
	query.Set("page", strconv.Itoa(1))
	target.RawQuery = query.Encode()

	ctx.Redirect(http.StatusFound, target.RequestURI())
}

func (api *PostsAPI) readOne(ctx *gin.Context) {

	post, err := api.model.GetByPermalink(ctx, ctx.Param("permalink"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	if !post.IsPublished() && !identity.FromContext(ctx).Admin {
		apis.WriteErrorJSON(ctx, serverError.ObjectIDNotFoundError.New(post.Permalink))
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: post})
}

func (api *PostsAPI) archives(ctx *gin.Context) {

	archives, err := api.model.Archives(ctx)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: archives})
}

func (api *PostsAPI) create(ctx *gin.Context) {

	var post objects.Post
	if err := apis.BindJSON(ctx, &post); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	post, err := api.model.Insert(ctx, post, identity.FromContext(ctx))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, apis.CRUDResponse{Result: api.published(ctx, post)})
}

func (api *PostsAPI) update(ctx *gin.Context) {

	var post objects.Post
	if err := apis.BindJSON(ctx, &post); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}
	post.Permalink = ctx.Param("permalink")

	post, err := api.model.Update(ctx, post)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.CRUDResponse{Result: api.published(ctx, post)})
}

func (api *PostsAPI) delete(ctx *gin.Context) {

	if err := api.model.Delete(ctx, ctx.Param("permalink")); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	api.flush(ctx)
	ctx.Status(http.StatusNoContent)
}

// published flushes the cached listing after a write and, for published posts on a blog that
// allows it, pings every site the post links to.
func (api *PostsAPI) published(ctx *gin.Context, post objects.Post) PublishResult {

	api.flush(ctx)

	result := PublishResult{Post: post}
	if !post.IsPublished() || api.notifier == nil {
		return result
	}

	settings, err := api.settings.Get(ctx)
	if err != nil {
		slog.Warn("Loading settings for pingback failed", slog.String("permalink", post.Permalink), slog.Any("error", err))
		return result
	}

	if !settings.AllowPingback {
		return result
	}

	for _, r := range api.notifier.NotifyLinks(ctx, postURL(settings, post), post.Content) {

		pr := PingbackResult{Target: r.Target, Message: r.Message}
		if r.Err != nil {
			pr.Error = r.Err.Error()
		}

		result.Pingbacks = append(result.Pingbacks, pr)
	}

	return result
}

func (api *PostsAPI) flush(ctx context.Context) {

	if err := api.cache.DeletePattern(ctx, cache.PostPagePattern()); err != nil {
		slog.Warn("Flushing cached post pages failed", slog.Any("error", err))
	}
}

func (api *PostsAPI) trackback(ctx *gin.Context) {

	var req TrackbackRequest
	if err := apis.BindJSON(ctx, &req); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	post, err := api.model.GetByPermalink(ctx, ctx.Param("permalink"))
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	settings, err := api.settings.Get(ctx)
	if err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ping := pingback.TrackbackPing{
		Title:    post.Title,
		Excerpt:  filter.Shorten(filter.StripHTML(post.Content), excerptLength),
		URL:      postURL(settings, post),
		BlogName: settings.Title,
	}

	if err := api.notifier.Trackback(ctx, req.URL, ping); err != nil {
		apis.WriteErrorJSON(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apis.OKResponse)
}

func postURL(settings env.BlogSettings, post objects.Post) string {
	return strings.TrimRight(settings.RootURL, "/") + "/" + post.RelativePermalink()
}
