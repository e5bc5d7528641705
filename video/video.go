// Package video recognises hosted-video URLs and resolves their thumbnails.
package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

type Provider string

const (
	YouTube     Provider = "youtube"
	Vimeo       Provider = "vimeo"
	Facebook    Provider = "facebook"
	Instagram   Provider = "instagram"
	TikTok      Provider = "tiktok"
	Dailymotion Provider = "dailymotion"
)

var ErrUnsupportedURL = errors.New("invalid video URL. Please enter a valid video URL")

type providerPatterns struct {
	provider Provider
	patterns []*regexp.Regexp
}

// Checked in order; the first match wins.
var videoPatterns = []providerPatterns{
	{YouTube, []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
	}},
	{Vimeo, []*regexp.Regexp{
		regexp.MustCompile(`vimeo\.com/([0-9]+)`),
		regexp.MustCompile(`vimeo\.com/video/([0-9]+)`),
	}},
	{Facebook, []*regexp.Regexp{
		regexp.MustCompile(`facebook\.com/.*/videos/([0-9]+)`),
		regexp.MustCompile(`fb\.watch/([^/]+)`),
	}},
	{Instagram, []*regexp.Regexp{
		regexp.MustCompile(`instagram\.com/reel/([^/]+)`),
		regexp.MustCompile(`instagram\.com/(?:p|tv)/([^/]+)`),
	}},
	{TikTok, []*regexp.Regexp{
		regexp.MustCompile(`tiktok\.com/@[^/]+/video/([0-9]+)`),
		regexp.MustCompile(`vm\.tiktok\.com/([^/]+)`),
	}},
	{Dailymotion, []*regexp.Regexp{
		regexp.MustCompile(`dailymotion\.com/video/([a-zA-Z0-9]+)`),
		regexp.MustCompile(`dai\.ly/([a-zA-Z0-9]+)`),
	}},
}

type Info struct {
	Provider     Provider `json:"provider"`
	VideoID      string   `json:"videoId"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
}

// Parse returns the provider and video id of raw, or ErrUnsupportedURL.
func Parse(raw string) (Info, error) {
	for _, pp := range videoPatterns {
		for _, re := range pp.patterns {
			if m := re.FindStringSubmatch(raw); len(m) > 1 && m[1] != "" {
				return Info{Provider: pp.provider, VideoID: m[1]}, nil
			}
		}
	}
	return Info{}, ErrUnsupportedURL
}

// Resolver fills in thumbnails. Vimeo needs an oEmbed lookup; Instagram and TikTok
// thumbnails are not available without API credentials and stay empty.
type Resolver struct {
	Client         *http.Client
	VimeoOEmbedURL string
}

func NewResolver() *Resolver {
	return &Resolver{
		Client:         &http.Client{Timeout: 5 * time.Second},
		VimeoOEmbedURL: "https://vimeo.com/api/oembed.json",
	}
}

// Info parses raw and looks up its thumbnail. A failed lookup leaves ThumbnailURL empty.
func (r *Resolver) Info(ctx context.Context, raw string) (Info, error) {
	info, err := Parse(raw)
	if err != nil {
		return info, err
	}
	info.ThumbnailURL = r.thumbnail(ctx, info)
	return info, nil
}

func (r *Resolver) thumbnail(ctx context.Context, info Info) string {
	switch info.Provider {
	case YouTube:
		return fmt.Sprintf("https://i.ytimg.com/vi/%s/maxresdefault.jpg", info.VideoID)
	case Facebook:
		return fmt.Sprintf("https://graph.facebook.com/%s/picture", info.VideoID)
	case Dailymotion:
		return fmt.Sprintf("https://www.dailymotion.com/thumbnail/video/%s", info.VideoID)
	case Vimeo:
		return r.vimeoThumbnail(ctx, info.VideoID)
	}
	return ""
}

func (r *Resolver) vimeoThumbnail(ctx context.Context, id string) string {
	q := url.Values{"url": {"https://vimeo.com/" + id}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.VimeoOEmbedURL+"?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var body struct {
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.ThumbnailURL
}
