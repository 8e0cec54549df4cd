package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/videosync/internal/models"
)

func testOptions() Options {
	return Options{
		Timeout:         2 * time.Second,
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		UserAgent:       "videosync-test",
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNew_MissingSettings(t *testing.T) {
	logger := quietLogger()

	_, err := New(Endpoint{Origin: models.OriginKodik, BasePath: "/", Token: "t"}, testOptions(), logger)
	assert.ErrorIs(t, err, models.ErrHostNotFound)

	_, err = New(Endpoint{Origin: models.OriginKodik, Host: "kodikapi.com", Token: "t"}, testOptions(), logger)
	assert.ErrorIs(t, err, models.ErrBasePathNotFound)

	_, err = New(Endpoint{Origin: models.OriginKodik, Host: "kodikapi.com", BasePath: "/"}, testOptions(), logger)
	assert.ErrorIs(t, err, models.ErrTokenNotFound)

	c, err := New(Endpoint{Origin: models.OriginRutor, Host: "rutor.info", BasePath: "/browse/0/1/0/0"}, testOptions(), logger)
	require.NoError(t, err)
	assert.Equal(t, models.OriginRutor, c.Origin())
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://kodikapi.com", joinURL("kodikapi.com", "/"))
	assert.Equal(t, "http://host:8080/api/v1", joinURL("http://host:8080/", "/api/v1/"))
}

func TestJSONClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/list", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total": 3, "results": [
			{"id": "movie-1", "title": "Начало", "material_data": {"genres": ["фантастика"]}},
			{"id": "movie-2", "title": "Тьма"},
			{"id": "movie-3", "title": "Дюна"}
		]}`))
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginKodik, Host: server.URL, BasePath: "/api", Token: "secret"}, testOptions(), quietLogger())
	require.NoError(t, err)

	records, err := c.Fetch(context.Background(), Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "movie-1", records[0].String("id"))
	assert.Equal(t, []string{"фантастика"}, records[0].Strings("material_data.genres"))
}

func TestJSONClient_BareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"token": "a"}, {"token": "b"}]`))
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginHdvb, Host: server.URL, BasePath: "/api", Token: "t"}, testOptions(), quietLogger())
	require.NoError(t, err)

	records, err := c.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJSONClient_InvalidToken(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginVideoCdn, Host: server.URL, BasePath: "/api", Token: "bad"}, testOptions(), quietLogger())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, models.ErrInvalidToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestJSONClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"results": [{"id": 1}]}`))
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginTmdb, Host: server.URL, BasePath: "/3", Token: "k"}, testOptions(), quietLogger())
	require.NoError(t, err)

	records, err := c.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestJSONClient_GivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginMoonwalk, Host: server.URL, BasePath: "/api", Token: "k"}, testOptions(), quietLogger())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, models.ErrTransport)
}

func TestJSONClient_NotFoundIsPermanent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginMoonwalk, Host: server.URL, BasePath: "/api", Token: "k"}, testOptions(), quietLogger())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestJSONClient_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginKodik, Host: server.URL, BasePath: "/", Token: "k"}, testOptions(), quietLogger())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, models.ErrFormat)
}

const rutorListing = `<html><body><div id="index"><table>
<tr class="backgr"><td>Добавлен</td><td>Название</td><td>Размер</td><td>Пиры</td></tr>
<tr class="gai"><td>17&nbsp;Окт&nbsp;24</td><td>
<a class="downgif" href="/download/901234"><img src="/d.gif"></a>
<a href="magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=x"><img src="/m.png"></a>
<a href="/torrent/901234/interstellar">Интерстеллар / Interstellar (2014) BDRip 1080p</a></td>
<td align="right">2.18&nbsp;GB</td>
<td align="center"><span class="green"><img src="/s.gif">&nbsp;120</span>&nbsp;<span class="red">&nbsp;7</span></td></tr>
<tr class="tum"><td>16&nbsp;Окт&nbsp;24</td><td>
<a href="/torrent/901235/dark">Тьма / Dark [S01] (2017) WEB-DL</a></td>
<td align="right">1</td><td align="right">10.5&nbsp;GB</td>
<td align="center"><span class="green">&nbsp;3</span><span class="red">&nbsp;0</span></td></tr>
</table></div></body></html>`

func TestRutorClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/browse/0/1/0/0", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(rutorListing))
	}))
	defer server.Close()

	c, err := New(Endpoint{Origin: models.OriginRutor, Host: server.URL, BasePath: "/browse/0/1/0/0"}, testOptions(), quietLogger())
	require.NoError(t, err)

	records, err := c.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "901234", first.String("id"))
	assert.Equal(t, "Интерстеллар / Interstellar (2014) BDRip 1080p", first.String("title"))
	assert.Equal(t, server.URL+"/download/901234", first.String("file"))
	assert.Equal(t, "2.18 GB", first.String("size"))
	assert.Equal(t, 120, first.Int("seed"))
	assert.Equal(t, 7, first.Int("leech"))
	assert.Contains(t, first.String("magnet"), "urn:btih:")

	second := records[1]
	assert.Equal(t, "901235", second.String("id"))
	assert.Equal(t, "10.5 GB", second.String("size"))
	assert.Empty(t, second.String("magnet"))

	limited, err := c.Fetch(context.Background(), Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://kodikapi.com/list?limit=5&token=xxx", redact("https://kodikapi.com/list?token=secret&limit=5"))
}
