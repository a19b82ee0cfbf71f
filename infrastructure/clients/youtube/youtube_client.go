package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/configuration"
	"artist-hub/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// NewOAuthConfig builds the oauth2 config used for the consent URL, the code
// exchange and refresh grants.
func NewOAuthConfig(cfg configuration.OAuthClient) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			youtube.YoutubeReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// Exchanger implements the staged OAuth code exchange against Google.
type Exchanger struct {
	config *oauth2.Config
}

func NewExchanger(cfg configuration.OAuthClient) *Exchanger {
	return &Exchanger{config: NewOAuthConfig(cfg)}
}

// AuthCodeURL returns the consent page URL carrying the given state.
// access_type=offline is required to receive a refresh token.
func (e *Exchanger) AuthCodeURL(state string) string {
	return e.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (*model.ShortLivedToken, error) {
	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("youtube code exchange failed")
		return nil, model.ErrTokenExchangeFailed
	}
	short := &model.ShortLivedToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		short.ExpiresInSeconds = int64(time.Until(token.Expiry).Seconds())
	}
	return short, nil
}

// ExchangeForLongLived is a pass-through for Google: the code exchange already
// yields a refreshable credential, so the upgrade stage only normalizes the
// expiry. Missing expiry falls back to one hour, Google's default.
func (e *Exchanger) ExchangeForLongLived(ctx context.Context, short *model.ShortLivedToken) (*model.LongLivedToken, error) {
	if short == nil || short.AccessToken == "" {
		return nil, model.ErrLongTokenExchangeFailed
	}
	expiresIn := short.ExpiresInSeconds
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	return &model.LongLivedToken{
		AccessToken:      short.AccessToken,
		RefreshToken:     short.RefreshToken,
		ExpiresInSeconds: expiresIn,
	}, nil
}

func (e *Exchanger) FetchProfile(ctx context.Context, accessToken string) (*model.ExternalProfile, error) {
	service, err := newService(ctx, accessToken)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("youtube service init failed")
		return nil, model.ErrProfileFetchFailed
	}
	res, err := service.Channels.List([]string{"id", "snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("youtube channel lookup failed")
		return nil, model.ErrProfileFetchFailed
	}
	if len(res.Items) == 0 {
		return nil, model.ErrProfileFetchFailed
	}
	channel := res.Items[0]
	profile := &model.ExternalProfile{ExternalID: channel.Id}
	if channel.Snippet != nil {
		profile.DisplayName = channel.Snippet.Title
	}
	return profile, nil
}

// TokenRefresher runs the refresh grant for a stored refresh token.
type TokenRefresher struct {
	config *oauth2.Config
}

func NewTokenRefresher(cfg configuration.OAuthClient) *TokenRefresher {
	return &TokenRefresher{config: NewOAuthConfig(cfg)}
}

func (r *TokenRefresher) Refresh(ctx context.Context, account *model.IntegrationAccount) (string, time.Time, error) {
	if account.RefreshToken == "" {
		return "", time.Time{}, fmt.Errorf("no refresh token stored for channel %s", account.ExternalAccountID)
	}
	source := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: account.RefreshToken})
	token, err := source.Token()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("refresh grant: %w", err)
	}
	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	return token.AccessToken, expiry, nil
}

// CatalogSource reads a channel's uploads playlist through the Data API.
type CatalogSource struct {
	service *youtube.Service
}

func NewCatalogSource(ctx context.Context, accessToken string) (repository.ICatalogSource, error) {
	service, err := newService(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &CatalogSource{service: service}, nil
}

func newService(ctx context.Context, accessToken string) (*youtube.Service, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return youtube.NewService(ctx, option.WithTokenSource(source))
}

// ResolveCollectionID maps a channel id to its uploads playlist id.
func (c *CatalogSource) ResolveCollectionID(ctx context.Context, accountExternalID string) (string, error) {
	res, err := c.service.Channels.List([]string{"contentDetails"}).Id(accountExternalID).Context(ctx).Do()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("youtube channel contentDetails lookup failed")
		return "", fmt.Errorf("resolve uploads playlist: %w", model.ErrRemoteFetchFailed)
	}
	if len(res.Items) == 0 || res.Items[0].ContentDetails == nil || res.Items[0].ContentDetails.RelatedPlaylists == nil {
		return "", fmt.Errorf("channel %s has no uploads playlist: %w", accountExternalID, model.ErrRemoteFetchFailed)
	}
	return res.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

func (c *CatalogSource) ListItems(ctx context.Context, collectionID, pageToken string) (*repository.CatalogPage, error) {
	call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(collectionID).
		MaxResults(repository.CatalogPageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Do()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("youtube playlist items fetch failed")
		return nil, fmt.Errorf("list playlist items: %w", model.ErrRemoteFetchFailed)
	}

	page := &repository.CatalogPage{NextPageToken: res.NextPageToken}
	for _, entry := range res.Items {
		if entry.ContentDetails == nil || entry.ContentDetails.VideoId == "" {
			continue
		}
		item := model.RemoteMediaItem{
			ExternalID: entry.ContentDetails.VideoId,
			SourceURL:  "https://www.youtube.com/watch?v=" + entry.ContentDetails.VideoId,
		}
		if entry.Snippet != nil {
			item.Title = entry.Snippet.Title
			item.Description = entry.Snippet.Description
			item.ThumbnailURL = pickThumbnail(entry.Snippet.Thumbnails)
		}
		publishedAt := entry.ContentDetails.VideoPublishedAt
		if publishedAt == "" && entry.Snippet != nil {
			publishedAt = entry.Snippet.PublishedAt
		}
		if publishedAt != "" {
			if t, err := time.Parse(time.RFC3339, publishedAt); err == nil {
				item.PublishedAt = t
			}
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// FetchDetails batches video lookups in chunks of the catalog page size.
// Any chunk failure fails the whole lookup.
func (c *CatalogSource) FetchDetails(ctx context.Context, ids []string) (map[string]model.RemoteMediaDetail, error) {
	details := make(map[string]model.RemoteMediaDetail, len(ids))
	for start := 0; start < len(ids); start += repository.CatalogPageSize {
		end := start + repository.CatalogPageSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		res, err := c.service.Videos.List([]string{"contentDetails", "statistics"}).
			Id(strings.Join(chunk, ",")).
			Context(ctx).Do()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("youtube video details fetch failed")
			return nil, fmt.Errorf("fetch video details: %w", model.ErrRemoteFetchFailed)
		}
		for _, video := range res.Items {
			detail := model.RemoteMediaDetail{}
			if video.ContentDetails != nil {
				detail.DurationRaw = video.ContentDetails.Duration
			}
			if video.Statistics != nil {
				detail.ViewCount = int64(video.Statistics.ViewCount)
			}
			details[video.Id] = detail
		}
	}
	return details, nil
}

func pickThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
