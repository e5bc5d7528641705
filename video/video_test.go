package video

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		url      string
		provider Provider
		id       string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", YouTube, "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", YouTube, "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/abc123", YouTube, "abc123"},
		{"https://vimeo.com/76979871", Vimeo, "76979871"},
		{"https://player.vimeo.com/video/76979871", Vimeo, "76979871"},
		{"https://www.facebook.com/chef/videos/1234567890", Facebook, "1234567890"},
		{"https://fb.watch/abcDEF", Facebook, "abcDEF"},
		{"https://www.instagram.com/reel/Cx1y2z", Instagram, "Cx1y2z"},
		{"https://www.tiktok.com/@cook/video/7234567890", TikTok, "7234567890"},
		{"https://vm.tiktok.com/ZM123", TikTok, "ZM123"},
		{"https://www.dailymotion.com/video/x8abc12", Dailymotion, "x8abc12"},
		{"https://dai.ly/x8abc12", Dailymotion, "x8abc12"},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			info, err := Parse(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.provider, info.Provider)
			assert.Equal(t, tc.id, info.VideoID)
		})
	}

	_, err := Parse("https://example.com/video.mp4")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}

func TestResolverThumbnails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://vimeo.com/76979871", r.URL.Query().Get("url"))
		_, _ = io.WriteString(w, `{"thumbnail_url":"https://i.vimeocdn.com/video/1.jpg","title":"x"}`)
	}))
	defer srv.Close()

	r := NewResolver()
	r.VimeoOEmbedURL = srv.URL
	ctx := context.Background()

	info, err := r.Info(ctx, "https://youtu.be/abc")
	require.NoError(t, err)
	assert.Equal(t, "https://i.ytimg.com/vi/abc/maxresdefault.jpg", info.ThumbnailURL)

	info, err = r.Info(ctx, "https://vimeo.com/76979871")
	require.NoError(t, err)
	assert.Equal(t, "https://i.vimeocdn.com/video/1.jpg", info.ThumbnailURL)

	info, err = r.Info(ctx, "https://www.tiktok.com/@cook/video/1")
	require.NoError(t, err)
	assert.Empty(t, info.ThumbnailURL)
}

func TestResolverVimeoFailureLeavesThumbnailEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewResolver()
	r.VimeoOEmbedURL = srv.URL
	info, err := r.Info(context.Background(), "https://vimeo.com/1")
	require.NoError(t, err)
	assert.Equal(t, Vimeo, info.Provider)
	assert.Empty(t, info.ThumbnailURL)
}
