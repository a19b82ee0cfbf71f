package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"artist-hub/domain/model"
	"artist-hub/domain/repository"
	"artist-hub/infrastructure/configuration"
	"artist-hub/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

const (
	defaultAuthHost  = "https://api.instagram.com"
	defaultGraphHost = "https://graph.instagram.com"
)

// Exchanger implements the staged OAuth code exchange against the Instagram
// Basic Display API. Stage two upgrades the short-lived token to a long-lived
// one; Instagram issues no refresh token, so an expired credential means the
// artist has to reconnect.
type Exchanger struct {
	cfg        configuration.OAuthClient
	authHost   string
	graphHost  string
	httpClient *http.Client
}

func NewExchanger(cfg configuration.OAuthClient) *Exchanger {
	return &Exchanger{
		cfg:        cfg,
		authHost:   defaultAuthHost,
		graphHost:  defaultGraphHost,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type authURLParams struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	Scope        string `url:"scope"`
	ResponseType string `url:"response_type"`
	State        string `url:"state"`
}

// AuthCodeURL returns the authorization dialog URL carrying the given state.
func (e *Exchanger) AuthCodeURL(state string) string {
	params, _ := query.Values(authURLParams{
		ClientID:     e.cfg.ClientID,
		RedirectURI:  e.cfg.RedirectURI,
		Scope:        "user_profile,user_media",
		ResponseType: "code",
		State:        state,
	})
	return e.authHost + "/oauth/authorize?" + params.Encode()
}

func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (*model.ShortLivedToken, error) {
	form := url.Values{}
	form.Set("client_id", e.cfg.ClientID)
	form.Set("client_secret", e.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", e.cfg.RedirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.authHost+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, model.ErrTokenExchangeFailed
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := e.do(req, &body); err != nil {
		logger.GetLogger().WithField("error", err).Error("instagram code exchange failed")
		return nil, model.ErrTokenExchangeFailed
	}
	if body.AccessToken == "" {
		return nil, model.ErrTokenExchangeFailed
	}
	return &model.ShortLivedToken{AccessToken: body.AccessToken}, nil
}

type longLivedParams struct {
	GrantType    string `url:"grant_type"`
	ClientSecret string `url:"client_secret"`
	AccessToken  string `url:"access_token"`
}

func (e *Exchanger) ExchangeForLongLived(ctx context.Context, short *model.ShortLivedToken) (*model.LongLivedToken, error) {
	if short == nil || short.AccessToken == "" {
		return nil, model.ErrLongTokenExchangeFailed
	}
	params, _ := query.Values(longLivedParams{
		GrantType:    "ig_exchange_token",
		ClientSecret: e.cfg.ClientSecret,
		AccessToken:  short.AccessToken,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.graphHost+"/access_token?"+params.Encode(), nil)
	if err != nil {
		return nil, model.ErrLongTokenExchangeFailed
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := e.do(req, &body); err != nil {
		logger.GetLogger().WithField("error", err).Error("instagram long-lived exchange failed")
		return nil, model.ErrLongTokenExchangeFailed
	}
	if body.AccessToken == "" {
		return nil, model.ErrLongTokenExchangeFailed
	}
	return &model.LongLivedToken{
		AccessToken:      body.AccessToken,
		ExpiresInSeconds: body.ExpiresIn,
	}, nil
}

type profileParams struct {
	Fields      string `url:"fields"`
	AccessToken string `url:"access_token"`
}

func (e *Exchanger) FetchProfile(ctx context.Context, accessToken string) (*model.ExternalProfile, error) {
	params, _ := query.Values(profileParams{Fields: "id,username", AccessToken: accessToken})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.graphHost+"/me?"+params.Encode(), nil)
	if err != nil {
		return nil, model.ErrProfileFetchFailed
	}

	var body struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := e.do(req, &body); err != nil {
		logger.GetLogger().WithField("error", err).Error("instagram profile fetch failed")
		return nil, model.ErrProfileFetchFailed
	}
	if body.ID == "" {
		return nil, model.ErrProfileFetchFailed
	}
	return &model.ExternalProfile{ExternalID: body.ID, DisplayName: body.Username}, nil
}

func (e *Exchanger) do(req *http.Request, out interface{}) error {
	res, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", res.StatusCode, string(raw))
	}
	return json.Unmarshal(raw, out)
}

// CatalogSource reads a user's media edge through the Graph API.
type CatalogSource struct {
	accessToken string
	graphHost   string
	httpClient  *http.Client
}

func NewCatalogSource(accessToken string) repository.ICatalogSource {
	return &CatalogSource{
		accessToken: accessToken,
		graphHost:   defaultGraphHost,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ResolveCollectionID confirms the token still resolves to a user; the media
// edge hangs off the user id itself.
func (c *CatalogSource) ResolveCollectionID(ctx context.Context, accountExternalID string) (string, error) {
	params, _ := query.Values(profileParams{Fields: "id", AccessToken: c.accessToken})
	var body struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, c.graphHost+"/me?"+params.Encode(), &body); err != nil {
		logger.GetLogger().WithField("error", err).Error("instagram user lookup failed")
		return "", fmt.Errorf("resolve media edge: %w", model.ErrRemoteFetchFailed)
	}
	if body.ID == "" {
		return "", fmt.Errorf("resolve media edge: %w", model.ErrRemoteFetchFailed)
	}
	return body.ID, nil
}

type mediaListParams struct {
	Fields      string `url:"fields"`
	Limit       int    `url:"limit"`
	After       string `url:"after,omitempty"`
	AccessToken string `url:"access_token"`
}

type mediaEntry struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
}

func (c *CatalogSource) ListItems(ctx context.Context, collectionID, pageToken string) (*repository.CatalogPage, error) {
	params, _ := query.Values(mediaListParams{
		Fields:      "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp",
		Limit:       repository.CatalogPageSize,
		After:       pageToken,
		AccessToken: c.accessToken,
	})
	var body struct {
		Data   []mediaEntry `json:"data"`
		Paging struct {
			Cursors struct {
				After string `json:"after"`
			} `json:"cursors"`
			Next string `json:"next"`
		} `json:"paging"`
	}
	if err := c.get(ctx, c.graphHost+"/"+collectionID+"/media?"+params.Encode(), &body); err != nil {
		logger.GetLogger().WithField("error", err).Error("instagram media listing failed")
		return nil, fmt.Errorf("list media: %w", model.ErrRemoteFetchFailed)
	}

	page := &repository.CatalogPage{}
	// Only advance the cursor when the platform reports another page.
	if body.Paging.Next != "" {
		page.NextPageToken = body.Paging.Cursors.After
	}
	for _, entry := range body.Data {
		item := model.RemoteMediaItem{
			ExternalID:   entry.ID,
			Title:        firstLine(entry.Caption),
			Description:  entry.Caption,
			SourceURL:    entry.Permalink,
			ThumbnailURL: entry.ThumbnailURL,
		}
		if item.ThumbnailURL == "" && entry.MediaType == "IMAGE" {
			item.ThumbnailURL = entry.MediaURL
		}
		if entry.Timestamp != "" {
			if t, err := time.Parse("2006-01-02T15:04:05-0700", entry.Timestamp); err == nil {
				item.PublishedAt = t
			} else if t, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
				item.PublishedAt = t
			}
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

type mediaDetailParams struct {
	IDs         string `url:"ids"`
	Fields      string `url:"fields"`
	AccessToken string `url:"access_token"`
}

// FetchDetails resolves per-item media types in batched ids lookups. Instagram
// exposes neither durations nor view counts, so items classify by the zero
// duration and keep a zero view count.
func (c *CatalogSource) FetchDetails(ctx context.Context, ids []string) (map[string]model.RemoteMediaDetail, error) {
	details := make(map[string]model.RemoteMediaDetail, len(ids))
	for start := 0; start < len(ids); start += repository.CatalogPageSize {
		end := start + repository.CatalogPageSize
		if end > len(ids) {
			end = len(ids)
		}
		params, _ := query.Values(mediaDetailParams{
			IDs:         strings.Join(ids[start:end], ","),
			Fields:      "id,media_type",
			AccessToken: c.accessToken,
		})
		var body map[string]mediaEntry
		if err := c.get(ctx, c.graphHost+"/?"+params.Encode(), &body); err != nil {
			logger.GetLogger().WithField("error", err).Error("instagram media details fetch failed")
			return nil, fmt.Errorf("fetch media details: %w", model.ErrRemoteFetchFailed)
		}
		for id := range body {
			details[id] = model.RemoteMediaDetail{}
		}
	}
	return details, nil
}

func (c *CatalogSource) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", res.StatusCode, string(raw))
	}
	return json.Unmarshal(raw, out)
}

func firstLine(caption string) string {
	if idx := strings.IndexByte(caption, '\n'); idx >= 0 {
		return caption[:idx]
	}
	return caption
}
